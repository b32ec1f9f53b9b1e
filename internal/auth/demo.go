package auth

import (
	"strings"
	"time"

	"quantdesk/internal/domain"
)

// Token wire format for built-in accounts. The front-end persists these
// strings verbatim under its auth-token key, so both values must be
// preserved byte-for-byte.
const (
	DemoToken       = "demo-token-123"
	TestTokenPrefix = "test-token-"
)

// Demo credential pair. Also the final fallback the client session store
// uses when the backend is unreachable.
const (
	DemoEmail    = "demo@qlib.com"
	DemoPassword = "demo123"
	demoID       = "demo"
)

// builtinAccount is one row of the static demo/test account table. These
// accounts resolve entirely client- or server-side with no database hit.
type builtinAccount struct {
	id           string
	email        string
	password     string
	name         string
	role         domain.Role
	entitlements domain.Entitlements
}

var builtinAccounts = []builtinAccount{
	{
		id: demoID, email: DemoEmail, password: DemoPassword,
		name: "Demo Customer", role: domain.RoleCustomer,
		entitlements: domain.CustomerEntitlements{KYC: domain.KYCApproved, Tier: domain.TierPro},
	},
	{
		id: "test-customer-1", email: "customer@test.com", password: "test123",
		name: "Test Customer", role: domain.RoleCustomer,
		entitlements: domain.CustomerEntitlements{KYC: domain.KYCPending, Tier: domain.TierFree},
	},
	{
		id: "test-trader-1", email: "trader@test.com", password: "test123",
		name: "Test Trader", role: domain.RoleTrader,
		entitlements: domain.TraderEntitlements{Tier: domain.TierEnterprise},
	},
	{
		id: "test-admin-1", email: "admin@test.com", password: "test123",
		name: "Test Admin", role: domain.RoleAdmin,
		entitlements: domain.AdminEntitlements{},
	},
	{
		id: "test-support-1", email: "staff@test.com", password: "test123",
		name: "Test Support", role: domain.RoleStaff,
		entitlements: domain.StaffEntitlements{},
	},
}

func (a builtinAccount) user() *domain.User {
	return &domain.User{
		ID:            a.id,
		Email:         a.email,
		Name:          a.name,
		Role:          a.role,
		Entitlements:  a.entitlements,
		IsTestAccount: true,
		CreatedAt:     time.Time{},
		UpdatedAt:     time.Time{},
	}
}

func (a builtinAccount) token() string {
	if a.id == demoID {
		return DemoToken
	}
	return TestTokenPrefix + a.id
}

// LookupBuiltinCredentials matches an email+password pair against the
// static account table. First match wins.
func LookupBuiltinCredentials(email, password string) (*domain.User, string, bool) {
	for _, a := range builtinAccounts {
		if a.email == email && a.password == password {
			return a.user(), a.token(), true
		}
	}
	return nil, "", false
}

// LookupBuiltinToken reconstructs a user from a demo or test token without
// any network or database call. ok=false means the token does not follow
// either naming convention or names no known account.
func LookupBuiltinToken(token string) (*domain.User, bool) {
	if token == DemoToken {
		return builtinAccounts[0].user(), true
	}
	if id, found := strings.CutPrefix(token, TestTokenPrefix); found {
		for _, a := range builtinAccounts {
			if a.id == id {
				return a.user(), true
			}
		}
	}
	return nil, false
}

// LookupTestCredentials matches only the test-account rows, not the demo
// pair. The client session store tries this table before the backend and
// keeps the demo pair as its final fallback.
func LookupTestCredentials(email, password string) (*domain.User, string, bool) {
	for _, a := range builtinAccounts {
		if a.id == demoID {
			continue
		}
		if a.email == email && a.password == password {
			return a.user(), a.token(), true
		}
	}
	return nil, "", false
}

// DemoUser returns the built-in demo account with its token.
func DemoUser() (*domain.User, string) {
	return builtinAccounts[0].user(), DemoToken
}

// IsBuiltinToken reports whether token follows the demo or test token
// naming convention, whether or not it names a known account.
func IsBuiltinToken(token string) bool {
	return token == DemoToken || strings.HasPrefix(token, TestTokenPrefix)
}

// BuiltinIDs returns the IDs of all built-in accounts, used by the nightly
// demo-state reset.
func BuiltinIDs() []string {
	ids := make([]string, 0, len(builtinAccounts))
	for _, a := range builtinAccounts {
		ids = append(ids, a.id)
	}
	return ids
}
