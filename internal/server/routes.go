package server

import (
	"github.com/OFFIS-RIT/actorlink/internal/server/middleware"
	"github.com/OFFIS-RIT/actorlink/internal/server/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiRoutes := e.Group("/api")

	// Search routes
	apiRoutes.POST("/actor-link", routes.ActorLinkHandler)
	apiRoutes.GET("/actors/:id", routes.GetActorHandler)
	apiRoutes.GET("/stats", routes.GetStatsHandler)

	adminRoutes := apiRoutes.Group("/admin", middleware.AuthMiddleware)

	// Ingest routes
	adminRoutes.POST("/ingest", routes.CreateIngestJobHandler, middleware.RequirePermission("ingest.create"))
}
