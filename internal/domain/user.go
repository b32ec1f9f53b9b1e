package domain

import "time"

// Role selects which navigation menu and route tree a user sees.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleTrader   Role = "trader"
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleTrader, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// KYCStatus gates access to trading-oriented dashboards.
type KYCStatus string

const (
	KYCNotStarted    KYCStatus = "not_started"
	KYCPending       KYCStatus = "pending"
	KYCApproved      KYCStatus = "approved"
	KYCRejected      KYCStatus = "rejected"
	KYCNeedsMoreInfo KYCStatus = "additional_info_required"
)

// SubscriptionTier informs which premium UI sections render. Display-only,
// carries no enforcement guarantee.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// Entitlements is a closed set of per-role access shapes. One variant per
// role keeps illegal states (an admin with a KYC status, a staff member
// with a subscription tier) unrepresentable.
type Entitlements interface {
	entitlementsRole() Role
}

// CustomerEntitlements carry the verification status and subscription tier.
type CustomerEntitlements struct {
	KYC  KYCStatus        `json:"kyc_status"`
	Tier SubscriptionTier `json:"subscription_tier"`
}

// TraderEntitlements carry only the subscription tier; traders are
// onboarded out of band and skip KYC gating.
type TraderEntitlements struct {
	Tier SubscriptionTier `json:"subscription_tier"`
}

// AdminEntitlements has no per-user knobs.
type AdminEntitlements struct{}

// StaffEntitlements has no per-user knobs.
type StaffEntitlements struct{}

func (CustomerEntitlements) entitlementsRole() Role { return RoleCustomer }
func (TraderEntitlements) entitlementsRole() Role   { return RoleTrader }
func (AdminEntitlements) entitlementsRole() Role    { return RoleAdmin }
func (StaffEntitlements) entitlementsRole() Role    { return RoleStaff }

// DefaultEntitlements returns the zero-value entitlements variant for a role.
func DefaultEntitlements(role Role) Entitlements {
	switch role {
	case RoleTrader:
		return TraderEntitlements{Tier: TierFree}
	case RoleAdmin:
		return AdminEntitlements{}
	case RoleStaff:
		return StaffEntitlements{}
	default:
		return CustomerEntitlements{KYC: KYCNotStarted, Tier: TierFree}
	}
}

// User represents an identity plus its entitlement record
type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	Name          string       `json:"name"`
	PasswordHash  string       `json:"-"` // Never expose password hash in JSON
	Role          Role         `json:"role"`
	Entitlements  Entitlements `json:"entitlements"`
	IsTestAccount bool         `json:"is_test_account"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// KYC returns the user's verification status, or ok=false for roles that
// carry none.
func (u *User) KYC() (KYCStatus, bool) {
	if e, ok := u.Entitlements.(CustomerEntitlements); ok {
		return e.KYC, true
	}
	return "", false
}

// Tier returns the user's subscription tier, or ok=false for roles that
// carry none.
func (u *User) Tier() (SubscriptionTier, bool) {
	switch e := u.Entitlements.(type) {
	case CustomerEntitlements:
		return e.Tier, true
	case TraderEntitlements:
		return e.Tier, true
	}
	return "", false
}

// Dashboard view names
const (
	ViewDashboard    = "dashboard"
	ViewVerification = "verification"
)

// DashboardView returns which landing view the user is routed to.
// Customers without an approved KYC status land on the verification view;
// every other role goes straight to the dashboard.
func (u *User) DashboardView() string {
	if kyc, ok := u.KYC(); ok && kyc != KYCApproved {
		return ViewVerification
	}
	return ViewDashboard
}

// Clone returns a copy safe to hand to callers; entitlement variants are
// value types so a shallow copy is enough.
func (u *User) Clone() *User {
	cp := *u
	return &cp
}
