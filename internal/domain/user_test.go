package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEntitlements_MatchRole(t *testing.T) {
	tests := []struct {
		role Role
		want Entitlements
	}{
		{RoleCustomer, CustomerEntitlements{KYC: KYCNotStarted, Tier: TierFree}},
		{RoleTrader, TraderEntitlements{Tier: TierFree}},
		{RoleAdmin, AdminEntitlements{}},
		{RoleStaff, StaffEntitlements{}},
		{Role("unknown"), CustomerEntitlements{KYC: KYCNotStarted, Tier: TierFree}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DefaultEntitlements(tc.role), "role %s", tc.role)
	}
}

func TestKYCAndTierAccessors(t *testing.T) {
	customer := &User{Role: RoleCustomer, Entitlements: CustomerEntitlements{KYC: KYCPending, Tier: TierPro}}
	kyc, ok := customer.KYC()
	require.True(t, ok)
	assert.Equal(t, KYCPending, kyc)
	tier, ok := customer.Tier()
	require.True(t, ok)
	assert.Equal(t, TierPro, tier)

	trader := &User{Role: RoleTrader, Entitlements: TraderEntitlements{Tier: TierEnterprise}}
	_, ok = trader.KYC()
	assert.False(t, ok)
	tier, ok = trader.Tier()
	require.True(t, ok)
	assert.Equal(t, TierEnterprise, tier)

	admin := &User{Role: RoleAdmin, Entitlements: AdminEntitlements{}}
	_, ok = admin.KYC()
	assert.False(t, ok)
	_, ok = admin.Tier()
	assert.False(t, ok)
}

func TestDashboardView(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"customer without approval", User{Role: RoleCustomer, Entitlements: CustomerEntitlements{KYC: KYCPending}}, ViewVerification},
		{"customer rejected", User{Role: RoleCustomer, Entitlements: CustomerEntitlements{KYC: KYCRejected}}, ViewVerification},
		{"customer needs more info", User{Role: RoleCustomer, Entitlements: CustomerEntitlements{KYC: KYCNeedsMoreInfo}}, ViewVerification},
		{"approved customer", User{Role: RoleCustomer, Entitlements: CustomerEntitlements{KYC: KYCApproved}}, ViewDashboard},
		{"trader", User{Role: RoleTrader, Entitlements: TraderEntitlements{}}, ViewDashboard},
		{"admin", User{Role: RoleAdmin, Entitlements: AdminEntitlements{}}, ViewDashboard},
		{"staff", User{Role: RoleStaff, Entitlements: StaffEntitlements{}}, ViewDashboard},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.DashboardView())
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleCustomer, RoleTrader, RoleAdmin, RoleStaff} {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestClone_IsIndependent(t *testing.T) {
	u := &User{ID: "u-1", Name: "Original", Role: RoleCustomer, Entitlements: CustomerEntitlements{}}
	cp := u.Clone()
	cp.Name = "Changed"
	cp.Entitlements = AdminEntitlements{}

	assert.Equal(t, "Original", u.Name)
	assert.Equal(t, CustomerEntitlements{}, u.Entitlements)
}
