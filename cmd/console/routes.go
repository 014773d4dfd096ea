package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GTDGit/vendor_console/internal/config"
	"github.com/GTDGit/vendor_console/internal/handler"
	"github.com/GTDGit/vendor_console/internal/middleware"
	"github.com/GTDGit/vendor_console/internal/session"
)

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Console *handler.ConsoleHandler
	SSE     *handler.SSEHandler
	Audit   *handler.AuditHandler // nil without an audit database
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, operatorAuth *middleware.OperatorAuth, creds *session.Credentials, limits config.RateLimitConfig) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := router.Group("/v1/console")
	root.Use(operatorAuth.Handle())

	auth := root.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimit(limits.LoginPerMinute), handlers.Auth.Login)
		auth.POST("/logout", handlers.Auth.Logout)
	}

	vendors := root.Group("/vendors")
	vendors.Use(middleware.RequireSession(creds))
	{
		mutation := middleware.MutationRateLimit(limits.MutationPerSecond)

		vendors.GET("", handlers.Console.ListVendors)
		vendors.POST("/refresh", handlers.Console.Refresh)
		vendors.PATCH("/:id/freeze", mutation, handlers.Console.ToggleFreeze)
		vendors.PATCH("/:id/role", mutation, handlers.Console.ChangeRole)
		vendors.DELETE("/:id", mutation, handlers.Console.DeleteVendor)
	}

	root.GET("/stream", handlers.SSE.Stream)

	if handlers.Audit != nil {
		root.GET("/audit", handlers.Audit.ListAudit)
	}
}
