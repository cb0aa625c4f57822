package server

import (
	"github.com/unet360/unet360/backend/internal/metrics"
	"github.com/unet360/unet360/backend/internal/server/middleware"
	"github.com/unet360/unet360/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, reg *metrics.Registry) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(reg.Handler()))

	publicRoutes := e.Group("/api")

	// Graph routes
	publicRoutes.GET("/graph/shortest-path/:source/:target", routes.ShortestPathHandler)
	publicRoutes.GET("/graph/nodes", routes.GetGraphNodesHandler)
	publicRoutes.GET("/graph/nodes/:name/adjacent", routes.GetAdjacentHandler)

	// Read-only node, location and tag routes
	publicRoutes.GET("/nodes", routes.GetNodesHandler)
	publicRoutes.GET("/nodes/:name", routes.GetNodeHandler)
	publicRoutes.GET("/locations", routes.GetLocationsHandler)
	publicRoutes.GET("/locations/:name", routes.GetLocationHandler)
	publicRoutes.GET("/tags", routes.GetTagsHandler)
	publicRoutes.GET("/tags/:name", routes.GetTagHandler)

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	apiRoutes.POST("/graph/refresh", routes.RefreshGraphHandler, middleware.RequirePermission(middleware.PermGraphRefresh))

	// Node routes
	apiRoutes.GET("/nodes/statuses", routes.GetNodeStatusesHandler, middleware.RequirePermission(middleware.PermNodeAudit))
	apiRoutes.POST("/nodes", routes.CreateNodeHandler, middleware.RequirePermission(middleware.PermNodeCreate))
	apiRoutes.PATCH("/nodes/:name", routes.EditNodeHandler, middleware.RequirePermission(middleware.PermNodeUpdate))
	apiRoutes.DELETE("/nodes/:name", routes.DeleteNodeHandler, middleware.RequirePermission(middleware.PermNodeDelete))

	// Location routes
	apiRoutes.POST("/locations", routes.CreateLocationHandler, middleware.RequirePermission(middleware.PermLocationCreate))
	apiRoutes.PATCH("/locations/:name", routes.EditLocationHandler, middleware.RequirePermission(middleware.PermLocationUpdate))
	apiRoutes.DELETE("/locations/:name", routes.DeleteLocationHandler, middleware.RequirePermission(middleware.PermLocationDelete))

	// Tag routes
	apiRoutes.POST("/tags", routes.CreateTagHandler, middleware.RequirePermission(middleware.PermTagCreate))
	apiRoutes.PATCH("/tags/:name", routes.EditTagHandler, middleware.RequirePermission(middleware.PermTagUpdate))
	apiRoutes.DELETE("/tags/:name", routes.DeleteTagHandler, middleware.RequirePermission(middleware.PermTagDelete))

	// Tenant routes
	apiRoutes.GET("/tenants/statuses", routes.GetTenantStatusesHandler, middleware.RequirePermission(middleware.PermTenantAudit))
	apiRoutes.GET("/tenants", routes.GetTenantsHandler, middleware.RequirePermission(middleware.PermTenantRead))
	apiRoutes.GET("/tenants/:user_id", routes.GetTenantHandler, middleware.RequirePermission(middleware.PermTenantRead))
	apiRoutes.POST("/tenants", routes.CreateTenantHandler, middleware.RequirePermission(middleware.PermTenantWrite))
	apiRoutes.PATCH("/tenants/:user_id", routes.EditTenantHandler, middleware.RequirePermission(middleware.PermTenantWrite))
	apiRoutes.DELETE("/tenants/:user_id", routes.DeleteTenantHandler, middleware.RequirePermission(middleware.PermTenantWrite))

	// Upload routes. Node editors upload the panoramas they link.
	apiRoutes.POST("/upload/image", routes.UploadImageHandler,
		middleware.RequireAnyPermission(middleware.PermUploadImage, middleware.PermNodeCreate, middleware.PermNodeUpdate))
}
