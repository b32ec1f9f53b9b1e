package http

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"quantdesk/internal/domain"
	"quantdesk/internal/middleware"
)

// WatchlistHandler manages the per-user persisted watch-list. The quote
// feed keeps its own in-memory favorites; this store is what survives
// across sessions.
type WatchlistHandler struct {
	watchlists domain.WatchlistRepository
	feed       domain.QuoteFeed
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(watchlists domain.WatchlistRepository, feed domain.QuoteFeed) *WatchlistHandler {
	return &WatchlistHandler{watchlists: watchlists, feed: feed}
}

// Get returns the user's watch-list
// GET /api/watchlist
func (h *WatchlistHandler) Get(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.watchlists.GetByUserID(ctx, user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load watch-list")
	}

	return SuccessResponse(c, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// Add puts a symbol on the user's watch-list
// POST /api/watchlist/:symbol
func (h *WatchlistHandler) Add(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	if symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.watchlists.Add(ctx, user.ID, symbol); err != nil {
		return InternalServerErrorResponse(c, "Failed to add symbol")
	}

	return SuccessMessageResponse(c, "Symbol added", map[string]string{"symbol": symbol})
}

// Remove takes a symbol off the user's watch-list
// DELETE /api/watchlist/:symbol
func (h *WatchlistHandler) Remove(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	symbol := strings.ToUpper(c.Param("symbol"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.watchlists.Remove(ctx, user.ID, symbol); err != nil {
		return InternalServerErrorResponse(c, "Failed to remove symbol")
	}

	return SuccessMessageResponse(c, "Symbol removed", map[string]string{"symbol": symbol})
}

// Favorite flips the favorite flag on a stored watch-list entry. The
// stored entry is the source of truth; the live feed is only a mirror for
// the current session's sort order. A symbol not on the stored list falls
// back to a feed-only toggle that does not survive a restart.
// POST /api/watchlist/:symbol/favorite
func (h *WatchlistHandler) Favorite(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	symbol := strings.ToUpper(c.Param("symbol"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.watchlists.GetByUserID(ctx, user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load watch-list")
	}

	for _, e := range entries {
		if e.Symbol != symbol {
			continue
		}
		favorite := !e.IsFavorite
		if err := h.watchlists.SetFavorite(ctx, user.ID, symbol, favorite); err != nil {
			return InternalServerErrorResponse(c, "Failed to update favorite")
		}
		h.mirrorFeedFavorite(symbol, favorite)
		return SuccessResponse(c, map[string]interface{}{
			"symbol":      symbol,
			"is_favorite": favorite,
			"persisted":   true,
		})
	}

	favorite, _ := h.feed.ToggleFavorite(symbol)
	return SuccessResponse(c, map[string]interface{}{
		"symbol":      symbol,
		"is_favorite": favorite,
		"persisted":   false,
	})
}

// mirrorFeedFavorite aligns the feed's in-memory favorite flag with the
// persisted state. Symbols the feed does not track are left alone.
func (h *WatchlistHandler) mirrorFeedFavorite(symbol string, favorite bool) {
	if got, ok := h.feed.ToggleFavorite(symbol); ok && got != favorite {
		h.feed.ToggleFavorite(symbol)
	}
}
