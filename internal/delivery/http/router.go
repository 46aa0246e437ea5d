package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "papertrader/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler   *AuthHandler
	EngineHandler *EngineHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Status endpoints get polled; keep them out of the access log
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/status" || path == "/api/positions"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "papertrader-api",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := e.Group("/api")

	// Auth routes (public)
	api.POST("/auth/login", config.AuthHandler.Login)

	// Engine routes (protected)
	engine := api.Group("", custommiddleware.AuthMiddleware)
	{
		engine.GET("/status", config.EngineHandler.GetStatus)
		engine.GET("/learning-status", config.EngineHandler.GetLearningStatus)
		engine.GET("/positions", config.EngineHandler.GetPositions)
		engine.GET("/history", config.EngineHandler.GetHistory)
		engine.GET("/events/ws", config.EngineHandler.Events)

		engine.POST("/trading/start", config.EngineHandler.StartTrading)
		engine.POST("/trading/stop", config.EngineHandler.StopTrading)
		engine.POST("/mode/toggle", config.EngineHandler.ToggleMode)

		engine.POST("/orders/market", config.EngineHandler.MarketOrder)
		engine.POST("/orders/limit", config.EngineHandler.LimitOrder)
		engine.POST("/orders/futures", config.EngineHandler.FuturesOrder)
	}
}
