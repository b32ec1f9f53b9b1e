package http

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"quantdesk/internal/delivery/http/dto"
	"quantdesk/internal/domain"
	"quantdesk/internal/service"
)

// AdminHandler handles the admin console's API
type AdminHandler struct {
	userRepo domain.UserRepository
	feed     domain.QuoteFeed
	market   *service.MockMarketService
	started  time.Time
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo domain.UserRepository, feed domain.QuoteFeed, market *service.MockMarketService) *AdminHandler {
	return &AdminHandler{
		userRepo: userRepo,
		feed:     feed,
		market:   market,
		started:  time.Now(),
	}
}

// GetUsers lists all registered users
// GET /api/admin/users
func (h *AdminHandler) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.userRepo.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to list users")
	}

	out := make([]dto.UserOutput, 0, len(users))
	for _, user := range users {
		out = append(out, dto.FromUser(user))
	}

	return SuccessResponse(c, map[string]interface{}{
		"users": out,
		"count": len(out),
	})
}

// UpdateUserRole changes a registered user's role; entitlements reset to
// the new role's defaults
// PUT /api/admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	id := c.Param("id")

	var req dto.SwitchRoleRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	role := domain.Role(req.Role)
	if !role.Valid() {
		return BadRequestResponse(c, "Unknown role")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.userRepo.GetByID(ctx, id); err != nil {
		return NotFoundResponse(c, "User not found")
	}
	if err := h.userRepo.UpdateRole(ctx, id, role); err != nil {
		return InternalServerErrorResponse(c, "Failed to update role")
	}

	return SuccessMessageResponse(c, "Role updated", map[string]string{
		"id":   id,
		"role": string(role),
	})
}

// GetStatistics returns headline numbers for the admin dashboard
// GET /api/admin/statistics
func (h *AdminHandler) GetStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.userRepo.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load statistics")
	}

	byRole := make(map[string]int)
	pendingKYC := 0
	for _, user := range users {
		byRole[string(user.Role)]++
		if kyc, ok := user.KYC(); ok && (kyc == domain.KYCPending || kyc == domain.KYCNeedsMoreInfo) {
			pendingKYC++
		}
	}

	return SuccessResponse(c, map[string]interface{}{
		"total_users":     len(users),
		"users_by_role":   byRole,
		"pending_kyc":     pendingKYC,
		"tracked_symbols": len(h.feed.Snapshot()),
	})
}

// GetSystemHealth reports feed and process status for the admin console
// GET /api/admin/system/health
func (h *AdminHandler) GetSystemHealth(c echo.Context) error {
	snapshot := h.feed.Snapshot()

	return SuccessResponse(c, map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": strconv.FormatInt(int64(time.Since(h.started).Seconds()), 10),
		"feed_symbols":   len(snapshot),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// GetTickets returns mock support tickets for staff and admins
// GET /api/support/tickets
func (h *AdminHandler) GetTickets(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	return SuccessResponse(c, map[string]interface{}{
		"tickets": h.market.Tickets(limit),
	})
}
