package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "tradejoy/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler   *AuthHandler
	BrokerHandler *BrokerHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	api := e.Group("/api")

	// Public routes
	api.GET("/health", func(c echo.Context) error {
		return Success(c, echo.Map{
			"status":  "healthy",
			"service": "tradejoy-broker",
		})
	})
	api.POST("/register", config.AuthHandler.Register)
	api.POST("/login", config.AuthHandler.Login)
	api.POST("/logout", config.AuthHandler.Logout)
	api.GET("/stock/:symbol", config.BrokerHandler.GetStock)

	// Protected routes
	protected := api.Group("", custommiddleware.AuthMiddleware)
	{
		protected.GET("/portfolio", config.BrokerHandler.GetPortfolio)
		protected.POST("/trade", config.BrokerHandler.ExecuteTrade)
		protected.GET("/trades", config.BrokerHandler.GetTrades)
		protected.GET("/watchlist", config.BrokerHandler.GetWatchlist)
		protected.POST("/watchlist/add", config.BrokerHandler.AddToWatchlist)
		protected.DELETE("/watchlist/:symbol", config.BrokerHandler.RemoveFromWatchlist)
	}
}
