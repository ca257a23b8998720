package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/innovinitylabs/x402/internal/interfaces/http/handlers"
)

// SessionRouteConfig holds dependencies for the session query routes.
type SessionRouteConfig struct {
	SessionHandler *handlers.SessionHandler
	HealthHandler  *handlers.HealthHandler
}

// SetupSessionRoutes configures the session query API and the health check.
func SetupSessionRoutes(engine *gin.Engine, cfg *SessionRouteConfig) {
	api := engine.Group("/api")
	{
		api.GET("/session/:id", cfg.SessionHandler.GetSession)
		api.GET("/sessions", cfg.SessionHandler.ListSessions)
		api.GET("/health", cfg.HealthHandler.Health)
	}
}
