package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"quantdesk/internal/auth"
	"quantdesk/internal/delivery/http/dto"
	"quantdesk/internal/domain"
	"quantdesk/internal/middleware"
)

// UserHandler handles user/session-related requests
type UserHandler struct {
	authService *auth.Service
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetMe returns current user details
// GET /api/user/me
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}
	return SuccessResponse(c, dto.FromUser(user))
}

// UpdateMe replaces the mutable profile fields wholesale
// PUT /api/user/me
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Name == "" {
		return BadRequestResponse(c, "Name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patched := user.Clone()
	patched.Name = req.Name
	if err := h.authService.UpdateUser(ctx, patched); err != nil {
		return InternalServerErrorResponse(c, "Failed to update profile")
	}

	return SuccessResponse(c, dto.FromUser(patched))
}

// SwitchRole is the built-in role-testing tool. Only test accounts may use
// it; the client swaps its rendered navigation tree on the returned user.
// POST /api/user/role
func (h *UserHandler) SwitchRole(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.SwitchRoleRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	patched, err := h.authService.SwitchRole(user, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, auth.ErrRoleSwitchForbidden) {
			return ForbiddenResponse(c, "Role switching is limited to test accounts")
		}
		return BadRequestResponse(c, "Unknown role")
	}

	return SuccessResponse(c, dto.FromUser(patched))
}

// GetMenu returns the navigation menu for the session's role
// GET /api/user/menu
func (h *UserHandler) GetMenu(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	return SuccessResponse(c, dto.MenuOutput{
		Role:  string(user.Role),
		Items: domain.MenuForRole(user.Role),
	})
}

// GetDashboard returns which landing view the user is routed to. Customers
// without an approved KYC status get the verification view.
// GET /api/user/dashboard
func (h *UserHandler) GetDashboard(c echo.Context) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	return SuccessResponse(c, map[string]interface{}{
		"view": user.DashboardView(),
		"user": dto.FromUser(user),
	})
}
