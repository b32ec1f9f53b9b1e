package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quantdesk/internal/domain"
)

var (
	// ErrInvalidCredentials covers every login failure surfaced to the
	// caller; the API never distinguishes wrong password from unknown
	// account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken means the presented token resolves to no session.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrEmailTaken is returned by Register for a duplicate email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrRoleSwitchForbidden gates the role-switch testing tool to
	// built-in test accounts.
	ErrRoleSwitchForbidden = errors.New("role switching is limited to test accounts")
)

// Claims is the JWT payload minted for registered users.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service is the single owner of session identity on the server side:
// login, registration, and token resolution all go through it.
type Service struct {
	users    domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewService creates a new auth Service
func NewService(users domain.UserRepository, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Login resolves a credential pair to a user and a bearer token. The
// built-in demo/test account table is consulted first so demo logins work
// with no database at all; registered users fall through to the repository
// with bcrypt verification and a minted JWT.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if user, token, ok := LookupBuiltinCredentials(email, password); ok {
		return user, token, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Register creates a new customer account. Failures leave no partial state.
func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	if _, _, ok := LookupBuiltinCredentials(email, password); ok {
		return nil, ErrEmailTaken
	}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Entitlements: domain.DefaultEntitlements(domain.RoleCustomer),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ResolveToken reconstructs the session a token represents. Demo and test
// tokens resolve locally without touching the repository; anything else is
// parsed as a JWT and the user is fetched fresh so a deleted account stops
// authenticating immediately.
func (s *Service) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if IsBuiltinToken(token) {
		user, ok := LookupBuiltinToken(token)
		if !ok {
			return nil, ErrInvalidToken
		}
		return user, nil
	}

	claims, err := s.parseJWT(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// UpdateUser replaces the stored user record wholesale. Built-in accounts
// have no persistent record; their patched state lives only in the caller's
// session.
func (s *Service) UpdateUser(ctx context.Context, user *domain.User) error {
	if user.IsTestAccount {
		return nil
	}
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}

// SwitchRole is the built-in role-testing tool: it returns the user with
// the new role and that role's default entitlements. Only test accounts may
// switch; a registered account changing its own role would be an
// escalation, not a test.
func (s *Service) SwitchRole(user *domain.User, role domain.Role) (*domain.User, error) {
	if !user.IsTestAccount {
		return nil, ErrRoleSwitchForbidden
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	patched := user.Clone()
	patched.Role = role
	patched.Entitlements = domain.DefaultEntitlements(role)
	patched.UpdatedAt = time.Now()
	return patched, nil
}

// GenerateToken mints a signed JWT for a registered user.
func (s *Service) GenerateToken(user *domain.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
