package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"quantdesk/internal/domain"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `id, email, name, password_hash, role, kyc_status, subscription_tier, created_at, updated_at`

// entitlementColumns flattens the role-specific entitlement variant into
// two nullable columns; scanUser rebuilds the variant from the role.
func entitlementColumns(user *domain.User) (kyc, tier *string) {
	switch e := user.Entitlements.(type) {
	case domain.CustomerEntitlements:
		k, t := string(e.KYC), string(e.Tier)
		return &k, &t
	case domain.TraderEntitlements:
		t := string(e.Tier)
		return nil, &t
	}
	return nil, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var kyc, tier *string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&kyc,
		&tier,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case domain.RoleCustomer:
		e := domain.CustomerEntitlements{KYC: domain.KYCNotStarted, Tier: domain.TierFree}
		if kyc != nil {
			e.KYC = domain.KYCStatus(*kyc)
		}
		if tier != nil {
			e.Tier = domain.SubscriptionTier(*tier)
		}
		user.Entitlements = e
	case domain.RoleTrader:
		e := domain.TraderEntitlements{Tier: domain.TierFree}
		if tier != nil {
			e.Tier = domain.SubscriptionTier(*tier)
		}
		user.Entitlements = e
	default:
		user.Entitlements = domain.DefaultEntitlements(user.Role)
	}
	return user, nil
}

// Create creates a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, email, name, password_hash, role,
			kyc_status, subscription_tier, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	kyc, tier := entitlementColumns(user)
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		kyc,
		tier,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// Update replaces the stored user record wholesale
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $1, name = $2, password_hash = $3, role = $4,
		    kyc_status = $5, subscription_tier = $6, updated_at = NOW()
		WHERE id = $7
	`

	kyc, tier := entitlementColumns(user)
	_, err := r.db.Exec(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		kyc,
		tier,
		user.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// UpdateRole changes a user's role and resets entitlements to the role's
// defaults
func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	stub := &domain.User{Role: role, Entitlements: domain.DefaultEntitlements(role)}
	kyc, tier := entitlementColumns(stub)

	query := `
		UPDATE users
		SET role = $1, kyc_status = $2, subscription_tier = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := r.db.Exec(ctx, query, role, kyc, tier, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return nil
}

// GetAll retrieves all users
func (r *UserRepositoryImpl) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at ASC`, userColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
