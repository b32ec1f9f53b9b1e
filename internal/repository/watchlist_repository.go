package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"quantdesk/internal/domain"
)

// WatchlistRepositoryImpl implements the WatchlistRepository interface
type WatchlistRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewWatchlistRepository creates a new WatchlistRepository
func NewWatchlistRepository(db *pgxpool.Pool) domain.WatchlistRepository {
	return &WatchlistRepositoryImpl{db: db}
}

// GetByUserID retrieves the user's watch-list in insertion order
func (r *WatchlistRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]domain.WatchlistEntry, error) {
	query := `
		SELECT symbol, is_favorite
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchlistEntry
	for rows.Next() {
		var e domain.WatchlistEntry
		if err := rows.Scan(&e.Symbol, &e.IsFavorite); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return entries, nil
}

// Add puts a symbol on the user's watch-list; duplicates are ignored
func (r *WatchlistRepositoryImpl) Add(ctx context.Context, userID, symbol string) error {
	query := `
		INSERT INTO watchlist_items (user_id, symbol, is_favorite, position)
		VALUES (
			$1, $2, FALSE,
			COALESCE((SELECT MAX(position) + 1 FROM watchlist_items WHERE user_id = $1), 0)
		)
		ON CONFLICT (user_id, symbol) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to add watchlist symbol: %w", err)
	}

	return nil
}

// Remove takes a symbol off the user's watch-list
func (r *WatchlistRepositoryImpl) Remove(ctx context.Context, userID, symbol string) error {
	query := `DELETE FROM watchlist_items WHERE user_id = $1 AND symbol = $2`

	_, err := r.db.Exec(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist symbol: %w", err)
	}

	return nil
}

// SetFavorite flips the favorite flag for a symbol on the list
func (r *WatchlistRepositoryImpl) SetFavorite(ctx context.Context, userID, symbol string, favorite bool) error {
	query := `
		UPDATE watchlist_items
		SET is_favorite = $3
		WHERE user_id = $1 AND symbol = $2
	`

	tag, err := r.db.Exec(ctx, query, userID, symbol, favorite)
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("symbol %s is not on the watchlist", symbol)
	}

	return nil
}

// Reset replaces the user's watch-list with the given symbols and clears
// favorites. Used by the nightly demo-state reset.
func (r *WatchlistRepositoryImpl) Reset(ctx context.Context, userID string, symbols []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reset: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM watchlist_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}

	for i, symbol := range symbols {
		_, err := tx.Exec(ctx,
			`INSERT INTO watchlist_items (user_id, symbol, is_favorite, position) VALUES ($1, $2, FALSE, $3)`,
			userID, symbol, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert watchlist symbol: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	return nil
}
