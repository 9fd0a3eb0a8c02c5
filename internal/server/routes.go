package server

import (
	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Network routes
	apiRoutes.GET("/network", routes.GetNetworkHandler)
	apiRoutes.GET("/network/partners", routes.GetPartnersHandler)
	apiRoutes.GET("/network/search", routes.GetSearchHandler)
	apiRoutes.GET("/network/partner/:id", routes.GetPartnerHandler)
	apiRoutes.GET("/network/similar/:id", routes.GetSimilarHandler)
	apiRoutes.GET("/network/insights", routes.GetInsightsHandler)
	apiRoutes.GET("/network/entity/:id", routes.GetEntityHandler)
	apiRoutes.GET("/network/edge/:id", routes.GetEdgeHandler)

	// Ranking routes
	apiRoutes.GET("/network/investigators", routes.GetInvestigatorsHandler)
	apiRoutes.GET("/network/sponsors/:id/profile", routes.GetSponsorProfileHandler)

	// Dataset routes
	apiRoutes.POST("/network/refresh", routes.RefreshHandler)
}
