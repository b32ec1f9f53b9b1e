package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"quantdesk/internal/domain"
)

// QuoteHandler serves watch-list quote snapshots and the live stream
type QuoteHandler struct {
	feed     domain.QuoteFeed
	upgrader websocket.Upgrader
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(feed domain.QuoteFeed) *QuoteHandler {
	return &QuoteHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			// The SPA is served from another origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetQuotes returns the current snapshot, favorites first then by
// descending absolute change percent
// GET /api/quotes
func (h *QuoteHandler) GetQuotes(c echo.Context) error {
	return SuccessResponse(c, map[string]interface{}{
		"quotes": h.feed.Snapshot(),
	})
}

// ToggleFavorite flips a symbol's membership in the favorites set
// POST /api/quotes/:symbol/favorite
func (h *QuoteHandler) ToggleFavorite(c echo.Context) error {
	symbol := c.Param("symbol")

	// The feed itself decides what it tracks; the snapshot is no proxy
	// for that, since the live feed omits symbols it has not priced yet.
	favorite, ok := h.feed.ToggleFavorite(symbol)
	if !ok {
		return NotFoundResponse(c, "Symbol is not on the watch-list")
	}
	return SuccessResponse(c, map[string]interface{}{
		"symbol":      symbol,
		"is_favorite": favorite,
	})
}

// Stream pushes a sorted snapshot to the client after every feed update
// cycle until the client disconnects
// GET /api/quotes/stream
func (h *QuoteHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	// Reader goroutine exists only to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Send the current state before the first tick arrives.
	if err := h.writeSnapshot(conn, h.feed.Snapshot()); err != nil {
		return nil
	}

	for {
		select {
		case <-done:
			return nil
		case quotes, ok := <-updates:
			if !ok {
				return nil
			}
			if err := h.writeSnapshot(conn, quotes); err != nil {
				return nil
			}
		}
	}
}

func (h *QuoteHandler) writeSnapshot(conn *websocket.Conn, quotes []domain.Quote) error {
	payload := map[string]interface{}{
		"type":   "quotes",
		"quotes": quotes,
		"ts":     time.Now().UnixMilli(),
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("WARNING: quote stream write failed: %v", err)
		return err
	}
	return nil
}
