package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quantdesk/internal/domain"
)

func newTestSimulator(t *testing.T, symbols ...string) *Simulator {
	t.Helper()
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	return NewSimulator(symbols, 42, time.Second, time.Second)
}

func TestInitialize_PricesPositiveAndNearBase(t *testing.T) {
	sim := newTestSimulator(t)

	for _, q := range sim.Snapshot() {
		require.Greater(t, q.Price, 0.0, "symbol %s", q.Symbol)
		// Initial offset is bounded at +/-2% of base.
		require.LessOrEqual(t, q.ChangePercent, 2.0, "symbol %s", q.Symbol)
		require.GreaterOrEqual(t, q.ChangePercent, -2.0, "symbol %s", q.Symbol)
	}
}

func TestInitialize_UnknownSymbolGetsDefaultBase(t *testing.T) {
	sim := newTestSimulator(t, "ZZZZ")

	snap := sim.Snapshot()
	require.Len(t, snap, 1)
	require.InDelta(t, 50.0, snap[0].Price, 50.0*0.02)
}

func TestTick_ClampHoldsUnderRepeatedApplication(t *testing.T) {
	sim := newTestSimulator(t)

	for i := 0; i < 50_000; i++ {
		sim.Tick()
		if i%10_000 != 0 {
			continue
		}
		for _, q := range sim.Snapshot() {
			require.GreaterOrEqual(t, q.Price, domain.MinPrice, "symbol %s tick %d", q.Symbol, i)
		}
	}
	for _, q := range sim.Snapshot() {
		require.GreaterOrEqual(t, q.Price, domain.MinPrice, "symbol %s", q.Symbol)
	}
}

func TestTick_ChangeAnchoredToBasePrice(t *testing.T) {
	sim := newTestSimulator(t)

	for i := 0; i < 500; i++ {
		sim.Tick()
	}

	for _, q := range sim.Snapshot() {
		base := BasePrice(q.Symbol)
		// Change is always relative to the fixed base, never the
		// previous tick.
		require.Equal(t, q.Price-base, q.Change, "symbol %s", q.Symbol)
		require.Equal(t, q.Change/base*100, q.ChangePercent, "symbol %s", q.Symbol)
	}
}

func TestTick_VolumeMonotonicallyIncreases(t *testing.T) {
	sim := newTestSimulator(t)

	volumes := make(map[string]int64)
	for _, q := range sim.Snapshot() {
		volumes[q.Symbol] = q.Volume
	}

	for i := 0; i < 100; i++ {
		sim.Tick()
		for _, q := range sim.Snapshot() {
			require.Greater(t, q.Volume, volumes[q.Symbol], "symbol %s", q.Symbol)
			volumes[q.Symbol] = q.Volume
		}
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	a := NewSimulator(DefaultSymbols, 7, time.Second, time.Second)
	b := NewSimulator(DefaultSymbols, 7, time.Second, time.Second)

	for i := 0; i < 100; i++ {
		a.Tick()
		b.Tick()
	}

	require.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestSnapshot_FavoritesSortFirst(t *testing.T) {
	sim := newTestSimulator(t)
	for i := 0; i < 50; i++ {
		sim.Tick()
	}

	snap := sim.Snapshot()
	last := snap[len(snap)-1].Symbol

	fav, ok := sim.ToggleFavorite(last)
	require.True(t, ok)
	require.True(t, fav)
	require.Equal(t, last, sim.Snapshot()[0].Symbol)

	// Toggle back off restores magnitude ordering.
	fav, ok = sim.ToggleFavorite(last)
	require.True(t, ok)
	require.False(t, fav)
	snap = sim.Snapshot()
	for i := 1; i < len(snap); i++ {
		require.GreaterOrEqual(t,
			abs(snap[i-1].ChangePercent), abs(snap[i].ChangePercent))
	}
}

func TestToggleFavorite_UnknownSymbol(t *testing.T) {
	sim := newTestSimulator(t)
	_, ok := sim.ToggleFavorite("NOPE")
	require.False(t, ok)
}

func TestResetFavorites(t *testing.T) {
	sim := newTestSimulator(t)
	sim.ToggleFavorite("AAPL")
	sim.ToggleFavorite("TSLA")

	sim.ResetFavorites()
	for _, q := range sim.Snapshot() {
		require.False(t, q.IsFavorite)
	}
}

func TestInitialize_DropsStaleFavorites(t *testing.T) {
	sim := newTestSimulator(t)
	sim.ToggleFavorite("AAPL")

	sim.Initialize([]string{"MSFT", "TSLA"})
	sim.Initialize([]string{"AAPL", "MSFT"})

	for _, q := range sim.Snapshot() {
		require.False(t, q.IsFavorite, "symbol %s", q.Symbol)
	}
}

func TestSubscribe_DeliversSnapshots(t *testing.T) {
	sim := newTestSimulator(t)
	ch, cancel := sim.Subscribe()
	defer cancel()

	sim.Tick()

	select {
	case snap := <-ch:
		require.NotEmpty(t, snap)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered after tick")
	}
}

func TestSubscribe_SlowConsumerGetsFreshest(t *testing.T) {
	sim := newTestSimulator(t)
	ch, cancel := sim.Subscribe()
	defer cancel()

	for i := 0; i < 10; i++ {
		sim.Tick()
	}

	snap := <-ch
	require.Equal(t, sim.Snapshot(), snap)
}

func TestRun_StopsOnCancel(t *testing.T) {
	sim := NewSimulator([]string{"AAPL"}, 1, time.Millisecond, 2*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
