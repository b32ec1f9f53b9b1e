package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantdesk/internal/domain"
	"quantdesk/internal/repository"
)

func newTestService(t *testing.T) (*Service, *repository.MemoryUserRepository) {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	return NewService(repo, "test-secret", time.Hour), repo
}

func TestLogin_DemoAccountWorksWithEmptyRepository(t *testing.T) {
	svc, _ := newTestService(t)

	user, token, err := svc.Login(context.Background(), DemoEmail, DemoPassword)

	require.NoError(t, err)
	assert.Equal(t, DemoToken, token)
	assert.Equal(t, "demo", user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.IsTestAccount)

	kyc, ok := user.KYC()
	require.True(t, ok)
	assert.Equal(t, domain.KYCApproved, kyc)
	tier, ok := user.Tier()
	require.True(t, ok)
	assert.Equal(t, domain.TierPro, tier)
}

func TestLogin_TestAccountsPerRole(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		email string
		role  domain.Role
		token string
	}{
		{"customer@test.com", domain.RoleCustomer, "test-token-test-customer-1"},
		{"trader@test.com", domain.RoleTrader, "test-token-test-trader-1"},
		{"admin@test.com", domain.RoleAdmin, "test-token-test-admin-1"},
		{"staff@test.com", domain.RoleStaff, "test-token-test-support-1"},
	}
	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			user, token, err := svc.Login(context.Background(), tc.email, "test123")
			require.NoError(t, err)
			assert.Equal(t, tc.role, user.Role)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestLogin_WrongPasswordIsGeneric(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), DemoEmail, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.RoleCustomer, created.Role)
	assert.False(t, created.IsTestAccount)

	kyc, ok := created.KYC()
	require.True(t, ok)
	assert.Equal(t, domain.KYCNotStarted, kyc)

	user, token, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "s3cret", "Bob")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob@example.com", "other", "Bob Again")
	assert.ErrorIs(t, err, ErrEmailTaken)

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegister_BuiltinEmailIsTaken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), DemoEmail, DemoPassword, "Impostor")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestResolveToken_Builtin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.ResolveToken(ctx, DemoToken)
	require.NoError(t, err)
	assert.Equal(t, "demo", user.ID)

	user, err = svc.ResolveToken(ctx, "test-token-test-trader-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrader, user.Role)

	_, err = svc.ResolveToken(ctx, "test-token-made-up")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveToken_JWTRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "carol@example.com", "s3cret", "Carol")
	require.NoError(t, err)

	token, err := svc.GenerateToken(created)
	require.NoError(t, err)

	user, err := svc.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestResolveToken_Garbage(t *testing.T) {
	svc, _ := newTestService(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ResolveToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestResolveToken_DeletedUserStopsAuthenticating(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "dave@example.com", "s3cret", "Dave")
	require.NoError(t, err)
	token, err := svc.GenerateToken(created)
	require.NoError(t, err)

	repo.Delete(created.ID)

	_, err = svc.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveToken_WrongSecretRejected(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	minter := NewService(repo, "secret-a", time.Hour)
	verifier := NewService(repo, "secret-b", time.Hour)
	ctx := context.Background()

	created, err := minter.Register(ctx, "eve@example.com", "s3cret", "Eve")
	require.NoError(t, err)
	token, err := minter.GenerateToken(created)
	require.NoError(t, err)

	_, err = verifier.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSwitchRole_TestAccountOnly(t *testing.T) {
	svc, _ := newTestService(t)

	demo, _ := DemoUser()
	switched, err := svc.SwitchRole(demo, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, switched.Role)
	// Entitlements reset to the target role's defaults; the admin variant
	// carries no KYC or tier.
	_, hasKYC := switched.KYC()
	assert.False(t, hasKYC)
	// The original is untouched.
	assert.Equal(t, domain.RoleCustomer, demo.Role)

	registered := &domain.User{ID: "u-1", Role: domain.RoleCustomer}
	_, err = svc.SwitchRole(registered, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleSwitchForbidden)

	_, err = svc.SwitchRole(demo, domain.Role("superuser"))
	assert.Error(t, err)
}

func TestUpdateUser_TestAccountIsNoop(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	demo, _ := DemoUser()
	demo.Name = "Renamed"
	require.NoError(t, svc.UpdateUser(ctx, demo))

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
