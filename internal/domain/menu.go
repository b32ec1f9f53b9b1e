package domain

// MenuItem is one entry in the role-specific navigation menu.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon,omitempty"`
}

// roleMenus is the static role -> menu lookup table. The menu is a UI
// rendering switch, not a security boundary; route access is enforced by
// the middleware role gates.
var roleMenus = map[Role][]MenuItem{
	RoleCustomer: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Onboarding", Path: "/onboarding", Icon: "check-circle"},
		{Label: "Portfolio", Path: "/portfolio", Icon: "briefcase"},
		{Label: "Paper Trading", Path: "/paper-trading", Icon: "activity"},
		{Label: "Markets", Path: "/markets", Icon: "trending-up"},
		{Label: "Support", Path: "/support", Icon: "help-circle"},
	},
	RoleTrader: {
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Trading Terminal", Path: "/terminal", Icon: "monitor"},
		{Label: "Paper Trading", Path: "/paper-trading", Icon: "activity"},
		{Label: "Backtesting", Path: "/backtesting", Icon: "rewind"},
		{Label: "Markets", Path: "/markets", Icon: "trending-up"},
	},
	RoleAdmin: {
		{Label: "Dashboard", Path: "/admin/dashboard", Icon: "home"},
		{Label: "User Management", Path: "/admin/users", Icon: "users"},
		{Label: "System Health", Path: "/admin/system", Icon: "server"},
		{Label: "Reports", Path: "/admin/reports", Icon: "file-text"},
	},
	RoleStaff: {
		{Label: "Dashboard", Path: "/staff/dashboard", Icon: "home"},
		{Label: "Support Tickets", Path: "/staff/tickets", Icon: "inbox"},
		{Label: "Customers", Path: "/staff/customers", Icon: "users"},
		{Label: "Knowledge Base", Path: "/staff/kb", Icon: "book"},
	},
}

// MenuForRole returns the navigation menu for a role. Unknown roles get
// the customer menu, matching the front-end's default route tree.
func MenuForRole(role Role) []MenuItem {
	items, ok := roleMenus[role]
	if !ok {
		items = roleMenus[RoleCustomer]
	}
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}
