package domain

import "context"

// QuoteFeed produces continuously-changing per-symbol quote data. Two
// implementations exist: a synthetic simulator with a seedable RNG and a
// poller backed by a real ticker endpoint. Views never know which one they
// are reading from.
type QuoteFeed interface {
	// Run drives the feed until ctx is cancelled. It must be called at
	// most once; after Run returns no further updates are published.
	Run(ctx context.Context)

	// Snapshot returns the current quotes in display order: favorites
	// first, then descending absolute change percent.
	Snapshot() []Quote

	// ToggleFavorite flips a symbol's membership in the favorites set and
	// returns the new state. ok=false means the feed does not track the
	// symbol and nothing changed; a live feed still reports ok=true for
	// tracked symbols its upstream has not priced yet.
	ToggleFavorite(symbol string) (favorite bool, ok bool)

	// ResetFavorites clears the favorites set
	ResetFavorites()

	// Subscribe registers a push consumer. Every completed update cycle
	// delivers a sorted snapshot; slow consumers miss intermediate cycles
	// instead of blocking the feed. The returned func cancels the
	// subscription.
	Subscribe() (<-chan []Quote, func())
}
