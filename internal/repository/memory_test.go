package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantdesk/internal/domain"
)

func TestMemoryUserRepository_CreateAndLookup(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{
		ID:           "u-1",
		Email:        "a@example.com",
		Name:         "A",
		Role:         domain.RoleCustomer,
		Entitlements: domain.DefaultEntitlements(domain.RoleCustomer),
	}
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Create(ctx, &domain.User{ID: "u-2", Email: "a@example.com"})
	assert.Error(t, err)
}

func TestMemoryUserRepository_ReadsAreCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u-1", Email: "a@example.com", Name: "A"}))

	got, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}

func TestMemoryUserRepository_UpdateRoleResetsEntitlements(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{
		ID:           "u-1",
		Email:        "a@example.com",
		Role:         domain.RoleCustomer,
		Entitlements: domain.CustomerEntitlements{KYC: domain.KYCApproved, Tier: domain.TierPro},
	}))

	require.NoError(t, repo.UpdateRole(ctx, "u-1", domain.RoleTrader))

	got, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrader, got.Role)
	assert.Equal(t, domain.TraderEntitlements{Tier: domain.TierFree}, got.Entitlements)

	assert.ErrorIs(t, repo.UpdateRole(ctx, "missing", domain.RoleAdmin), ErrNotFound)
}

func TestMemoryWatchlistRepository(t *testing.T) {
	repo := NewMemoryWatchlistRepository()
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "u-1", "AAPL"))
	require.NoError(t, repo.Add(ctx, "u-1", "TSLA"))
	// Duplicate add is a no-op.
	require.NoError(t, repo.Add(ctx, "u-1", "AAPL"))

	entries, err := repo.GetByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, repo.SetFavorite(ctx, "u-1", "TSLA", true))
	entries, err = repo.GetByUserID(ctx, "u-1")
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, e.Symbol == "TSLA", e.IsFavorite)
	}

	assert.ErrorIs(t, repo.SetFavorite(ctx, "u-1", "MISSING", true), ErrNotFound)

	require.NoError(t, repo.Remove(ctx, "u-1", "AAPL"))
	entries, err = repo.GetByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TSLA", entries[0].Symbol)

	require.NoError(t, repo.Reset(ctx, "u-1", []string{"MSFT", "NVDA"}))
	entries, err = repo.GetByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.False(t, e.IsFavorite)
	}
}
