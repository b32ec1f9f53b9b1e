package domain

import "context"

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update replaces the stored user record wholesale
	Update(ctx context.Context, user *User) error

	// UpdateRole changes a user's role and resets its entitlements to the
	// role's defaults
	UpdateRole(ctx context.Context, id string, role Role) error

	// GetAll retrieves all users
	GetAll(ctx context.Context) ([]*User, error)
}

// WatchlistEntry is one symbol on a user's watch-list.
type WatchlistEntry struct {
	Symbol     string `json:"symbol"`
	IsFavorite bool   `json:"is_favorite"`
}

// WatchlistRepository defines the interface for per-user watch-list
// persistence. The quote feed itself keeps favorites in memory; this store
// is what survives across sessions when a database is configured.
type WatchlistRepository interface {
	// GetByUserID retrieves the user's watch-list in insertion order
	GetByUserID(ctx context.Context, userID string) ([]WatchlistEntry, error)

	// Add puts a symbol on the user's watch-list; adding an existing
	// symbol is a no-op
	Add(ctx context.Context, userID, symbol string) error

	// Remove takes a symbol off the user's watch-list
	Remove(ctx context.Context, userID, symbol string) error

	// SetFavorite flips the favorite flag for a symbol on the list
	SetFavorite(ctx context.Context, userID, symbol string, favorite bool) error

	// Reset replaces the user's watch-list with the given symbols and
	// clears all favorite flags
	Reset(ctx context.Context, userID string, symbols []string) error
}
