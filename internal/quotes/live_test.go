package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickerServer serves a mutable 24h-ticker payload.
type tickerServer struct {
	*httptest.Server
	price atomic.Value // string
	fail  atomic.Bool
}

func newTickerServer(t *testing.T) *tickerServer {
	t.Helper()
	srv := &tickerServer{}
	srv.price.Store("100.00")
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/24hr" {
			http.NotFound(w, r)
			return
		}
		if srv.fail.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w,
			`[{"symbol":"BTCUSDT","lastPrice":"%s","volume":"1234.5"},
			  {"symbol":"IGNORED","lastPrice":"1.0","volume":"1"}]`,
			srv.price.Load())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLiveFeed_AnchorsBaseAtFirstFetch(t *testing.T) {
	srv := newTickerServer(t)
	feed := NewLiveFeed(srv.URL, []string{"BTCUSDT"}, time.Second)

	require.Empty(t, feed.Snapshot())

	require.NoError(t, feed.poll(context.Background()))
	snap := feed.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 100.0, snap[0].Price)
	assert.Equal(t, 0.0, snap[0].Change)
	assert.Equal(t, int64(1234), snap[0].Volume)

	srv.price.Store("110.00")
	require.NoError(t, feed.poll(context.Background()))
	snap = feed.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 110.0, snap[0].Price)
	// Change is measured against the first observed price.
	assert.InDelta(t, 10.0, snap[0].Change, 1e-9)
	assert.InDelta(t, 10.0, snap[0].ChangePercent, 1e-9)
}

func TestLiveFeed_PollFailureKeepsSnapshot(t *testing.T) {
	srv := newTickerServer(t)
	feed := NewLiveFeed(srv.URL, []string{"BTCUSDT"}, time.Second)
	require.NoError(t, feed.poll(context.Background()))

	srv.fail.Store(true)
	err := feed.poll(context.Background())
	require.Error(t, err)

	snap := feed.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 100.0, snap[0].Price)
}

func TestLiveFeed_Reanchor(t *testing.T) {
	srv := newTickerServer(t)
	feed := NewLiveFeed(srv.URL, []string{"BTCUSDT"}, time.Second)
	require.NoError(t, feed.poll(context.Background()))

	srv.price.Store("120.00")
	require.NoError(t, feed.poll(context.Background()))
	require.NotZero(t, feed.Snapshot()[0].Change)

	feed.Reanchor()
	snap := feed.Snapshot()
	assert.Equal(t, 120.0, snap[0].Price)
	assert.Equal(t, 0.0, snap[0].Change)
}

func TestLiveFeed_FavoritesAndSubscriptions(t *testing.T) {
	srv := newTickerServer(t)
	feed := NewLiveFeed(srv.URL, []string{"BTCUSDT"}, time.Second)

	ch, cancel := feed.Subscribe()
	defer cancel()

	require.NoError(t, feed.poll(context.Background()))
	select {
	case snap := <-ch:
		require.Len(t, snap, 1)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered after poll")
	}

	fav, ok := feed.ToggleFavorite("BTCUSDT")
	assert.True(t, ok)
	assert.True(t, fav)
	_, ok = feed.ToggleFavorite("UNKNOWN")
	assert.False(t, ok)

	feed.ResetFavorites()
	assert.False(t, feed.Snapshot()[0].IsFavorite)
}

func TestLiveFeed_ToggleFavoriteBeforeFirstPoll(t *testing.T) {
	srv := newTickerServer(t)
	feed := NewLiveFeed(srv.URL, []string{"BTCUSDT"}, time.Second)

	// Tracked symbols accept toggles even while the snapshot is still
	// empty; the flag appears once the symbol is priced.
	fav, ok := feed.ToggleFavorite("BTCUSDT")
	require.True(t, ok)
	require.True(t, fav)
	require.Empty(t, feed.Snapshot())

	require.NoError(t, feed.poll(context.Background()))
	snap := feed.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].IsFavorite)
}
