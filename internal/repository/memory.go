package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"quantdesk/internal/domain"
)

// ErrNotFound is returned by the in-memory repositories for missing rows.
var ErrNotFound = errors.New("not found")

// MemoryUserRepository is an in-process UserRepository. It backs the demo
// deployment (no DATABASE_URL) and the test suite.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return errors.New("email already exists")
	}
	r.byID[user.ID] = user.Clone()
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user.Clone(), nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[user.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Email != user.Email {
		delete(r.byEmail, old.Email)
		r.byEmail[user.Email] = user.ID
	}
	r.byID[user.ID] = user.Clone()
	return nil
}

func (r *MemoryUserRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	user.Role = role
	user.Entitlements = domain.DefaultEntitlements(role)
	user.UpdatedAt = time.Now()
	return nil
}

// Delete removes a user. Not part of the repository contract; used by
// tests that need an account to disappear out from under a live token.
func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}

func (r *MemoryUserRepository) GetAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, user.Clone())
	}
	return users, nil
}

// MemoryWatchlistRepository is an in-process WatchlistRepository.
type MemoryWatchlistRepository struct {
	mu    sync.RWMutex
	lists map[string][]domain.WatchlistEntry
}

// NewMemoryWatchlistRepository creates an empty MemoryWatchlistRepository
func NewMemoryWatchlistRepository() *MemoryWatchlistRepository {
	return &MemoryWatchlistRepository{
		lists: make(map[string][]domain.WatchlistEntry),
	}
}

func (r *MemoryWatchlistRepository) GetByUserID(_ context.Context, userID string) ([]domain.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.lists[userID]
	out := make([]domain.WatchlistEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *MemoryWatchlistRepository) Add(_ context.Context, userID, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.lists[userID] {
		if e.Symbol == symbol {
			return nil
		}
	}
	r.lists[userID] = append(r.lists[userID], domain.WatchlistEntry{Symbol: symbol})
	return nil
}

func (r *MemoryWatchlistRepository) Remove(_ context.Context, userID, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.lists[userID]
	for i, e := range entries {
		if e.Symbol == symbol {
			r.lists[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryWatchlistRepository) SetFavorite(_ context.Context, userID, symbol string, favorite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.lists[userID]
	for i := range entries {
		if entries[i].Symbol == symbol {
			entries[i].IsFavorite = favorite
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryWatchlistRepository) Reset(_ context.Context, userID string, symbols []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]domain.WatchlistEntry, 0, len(symbols))
	for _, s := range symbols {
		entries = append(entries, domain.WatchlistEntry{Symbol: s})
	}
	r.lists[userID] = entries
	return nil
}
