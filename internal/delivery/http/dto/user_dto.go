package dto

import (
	"quantdesk/internal/domain"
)

// UserOutput represents user data in API responses. Entitlement fields are
// flattened per role, so kyc_status and subscription_tier appear only for
// roles that carry them.
type UserOutput struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	KYCStatus        *string `json:"kyc_status,omitempty"`
	SubscriptionTier *string `json:"subscription_tier,omitempty"`
	IsTestAccount    bool    `json:"is_test_account"`
	DashboardView    string  `json:"dashboard_view"`
}

// FromUser converts a domain user to its API shape
func FromUser(user *domain.User) UserOutput {
	out := UserOutput{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          string(user.Role),
		IsTestAccount: user.IsTestAccount,
		DashboardView: user.DashboardView(),
	}
	if kyc, ok := user.KYC(); ok {
		s := string(kyc)
		out.KYCStatus = &s
	}
	if tier, ok := user.Tier(); ok {
		s := string(tier)
		out.SubscriptionTier = &s
	}
	return out
}

// UpdateProfileRequest replaces the mutable profile fields wholesale
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// SwitchRoleRequest is the role-testing tool's payload
type SwitchRoleRequest struct {
	Role string `json:"role"`
}

// MenuOutput is the navigation menu for the session's role
type MenuOutput struct {
	Role  string            `json:"role"`
	Items []domain.MenuItem `json:"items"`
}
