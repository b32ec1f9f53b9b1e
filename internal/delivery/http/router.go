package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "quantdesk/internal/middleware"
	"quantdesk/internal/domain"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	QuoteHandler     *QuoteHandler
	WatchlistHandler *WatchlistHandler
	MarketHandler    *MarketHandler
	AdminHandler     *AdminHandler
	TokenResolver    custommiddleware.TokenResolver
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Polling and streaming endpoints would drown the log.
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/quotes" || path == "/api/quotes/stream"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "quantdesk-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", config.AuthHandler.Login)
		authGroup.POST("/logout", config.AuthHandler.Logout)
		authGroup.POST("/register", config.AuthHandler.Register)
	}

	authRequired := custommiddleware.Auth(config.TokenResolver)

	// User routes (protected)
	user := api.Group("/user", authRequired)
	{
		user.GET("/me", config.UserHandler.GetMe)
		user.PUT("/me", config.UserHandler.UpdateMe)
		user.POST("/role", config.UserHandler.SwitchRole)
		user.GET("/menu", config.UserHandler.GetMenu)
		user.GET("/dashboard", config.UserHandler.GetDashboard)
	}

	// Quote routes (protected; the stream authenticates like any other
	// route so the SPA reuses its token)
	quotesGroup := api.Group("/quotes", authRequired)
	{
		quotesGroup.GET("", config.QuoteHandler.GetQuotes)
		quotesGroup.POST("/:symbol/favorite", config.QuoteHandler.ToggleFavorite)
		quotesGroup.GET("/stream", config.QuoteHandler.Stream)
	}

	// Watch-list routes (protected)
	watchlist := api.Group("/watchlist", authRequired)
	{
		watchlist.GET("", config.WatchlistHandler.Get)
		watchlist.POST("/:symbol", config.WatchlistHandler.Add)
		watchlist.DELETE("/:symbol", config.WatchlistHandler.Remove)
		watchlist.POST("/:symbol/favorite", config.WatchlistHandler.Favorite)
	}

	// Market/backtest data (protected; mock payloads passed through to
	// charts unchanged)
	market := api.Group("/market", authRequired)
	{
		market.GET("/candles", config.MarketHandler.GetCandles)
		market.GET("/signals", config.MarketHandler.GetSignals)
	}
	api.GET("/backtest/results", config.MarketHandler.GetBacktest, authRequired)

	// Support routes (staff and admin)
	support := api.Group("/support", authRequired,
		custommiddleware.RequireRole(domain.RoleStaff, domain.RoleAdmin))
	{
		support.GET("/tickets", config.AdminHandler.GetTickets)
	}

	// Admin routes (admin only)
	admin := api.Group("/admin", authRequired,
		custommiddleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/users", config.AdminHandler.GetUsers)
		admin.PUT("/users/:id/role", config.AdminHandler.UpdateUserRole)
		admin.GET("/statistics", config.AdminHandler.GetStatistics)
		admin.GET("/system/health", config.AdminHandler.GetSystemHealth)
	}
}
