package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"quantdesk/internal/domain"
)

// DefaultLiveRefresh is the poll interval for the live feed.
const DefaultLiveRefresh = 5 * time.Second

// liveState mirrors symbolState for the live feed; base is anchored at the
// first successful fetch so change stays comparable to the simulator's.
type liveState struct {
	base   float64
	price  float64
	volume int64
	seen   bool
}

// LiveFeed implements domain.QuoteFeed against a real ticker endpoint. It
// polls a REST 24h-ticker API and keeps the same snapshot, favorite, and
// subscription contract as the simulator, so views cannot tell the two
// apart. Fetch failures keep the previous snapshot.
type LiveFeed struct {
	mu         sync.Mutex
	httpClient *http.Client
	baseURL    string
	refresh    time.Duration
	symbols    []string
	state      map[string]*liveState
	favorites  map[string]bool
	subs       map[int]chan []domain.Quote
	nextSub    int
}

// NewLiveFeed creates a LiveFeed polling baseURL for the given symbols.
func NewLiveFeed(baseURL string, symbols []string, refresh time.Duration) *LiveFeed {
	if refresh <= 0 {
		refresh = DefaultLiveRefresh
	}
	f := &LiveFeed{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		refresh:    refresh,
		symbols:    append([]string(nil), symbols...),
		state:      make(map[string]*liveState, len(symbols)),
		favorites:  make(map[string]bool),
		subs:       make(map[int]chan []domain.Quote),
	}
	for _, sym := range symbols {
		f.state[sym] = &liveState{}
	}
	return f
}

// Run polls until ctx is cancelled.
func (f *LiveFeed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.poll(ctx); err != nil {
				log.Printf("WARNING: live feed poll failed: %v", err)
			}
		}
	}
}

func (f *LiveFeed) poll(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v3/ticker/24hr", f.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch tickers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ticker API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var tickers []struct {
		Symbol    string `json:"symbol"`
		LastPrice string `json:"lastPrice"`
		Volume    string `json:"volume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tickers); err != nil {
		return fmt.Errorf("failed to decode ticker response: %w", err)
	}

	f.mu.Lock()
	for _, t := range tickers {
		st, ok := f.state[t.Symbol]
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(t.LastPrice, 64)
		if err != nil || price <= 0 {
			continue
		}
		if vol, err := strconv.ParseFloat(t.Volume, 64); err == nil {
			st.volume = int64(vol)
		}
		st.price = price
		if !st.seen {
			st.base = price
			st.seen = true
		}
	}
	f.mu.Unlock()
	f.publish()
	return nil
}

// Reanchor resets every symbol's base to its current price, so change
// percent measures movement since the last anchor instead of since boot.
func (f *LiveFeed) Reanchor() {
	f.mu.Lock()
	for _, st := range f.state {
		if st.seen {
			st.base = st.price
		}
	}
	f.mu.Unlock()
	f.publish()
}

// Snapshot returns the quotes seen so far, sorted for display. Symbols the
// endpoint has not priced yet are omitted.
func (f *LiveFeed) Snapshot() []domain.Quote {
	f.mu.Lock()
	quotes := f.snapshotLocked()
	f.mu.Unlock()
	return quotes
}

func (f *LiveFeed) snapshotLocked() []domain.Quote {
	quotes := make([]domain.Quote, 0, len(f.symbols))
	for _, sym := range f.symbols {
		st := f.state[sym]
		if !st.seen {
			continue
		}
		change := st.price - st.base
		quotes = append(quotes, domain.Quote{
			Symbol:        sym,
			Price:         st.price,
			Change:        change,
			ChangePercent: change / st.base * 100,
			Volume:        st.volume,
			IsFavorite:    f.favorites[sym],
		})
	}
	domain.SortQuotes(quotes)
	return quotes
}

// ToggleFavorite flips a symbol's favorite flag and returns the new state.
// Tracked symbols toggle even before the first successful poll prices
// them; the flag shows up in the snapshot once the symbol is priced.
func (f *LiveFeed) ToggleFavorite(symbol string) (bool, bool) {
	f.mu.Lock()
	if _, tracked := f.state[symbol]; !tracked {
		f.mu.Unlock()
		return false, false
	}
	f.favorites[symbol] = !f.favorites[symbol]
	fav := f.favorites[symbol]
	f.mu.Unlock()
	f.publish()
	return fav, true
}

// ResetFavorites clears the favorites set.
func (f *LiveFeed) ResetFavorites() {
	f.mu.Lock()
	f.favorites = make(map[string]bool)
	f.mu.Unlock()
	f.publish()
}

// Subscribe registers a push consumer; same drop-stale semantics as the
// simulator.
func (f *LiveFeed) Subscribe() (<-chan []domain.Quote, func()) {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	ch := make(chan []domain.Quote, 1)
	f.subs[id] = ch
	f.mu.Unlock()
	return ch, func() {
		f.mu.Lock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
		f.mu.Unlock()
	}
}

func (f *LiveFeed) publish() {
	f.mu.Lock()
	if len(f.subs) == 0 {
		f.mu.Unlock()
		return
	}
	quotes := f.snapshotLocked()
	for _, ch := range f.subs {
		select {
		case ch <- quotes:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- quotes:
			default:
			}
		}
	}
	f.mu.Unlock()
}
