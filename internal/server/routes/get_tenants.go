package routes

import (
	"net/http"
	"time"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/audit"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

func tenantsUnavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Tenant management is not available"})
}

func GetTenantsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if app.Tenants == nil {
		return tenantsUnavailable(c)
	}

	tenants, err := app.Tenants.GetAllTenants(c.Request().Context())
	if err != nil {
		logger.Error("[Tenants] Failed to list tenants", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, tenants)
}

func GetTenantHandler(c echo.Context) error {
	type getTenantParams struct {
		UserID string `param:"user_id" validate:"required"`
	}

	params := new(getTenantParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if app.Tenants == nil {
		return tenantsUnavailable(c)
	}

	tenant, err := app.Tenants.GetTenantByUserID(c.Request().Context(), params.UserID)
	if err != nil {
		return c.JSON(serverutil.StatusFor(err), map[string]string{"error": serverutil.RecordErrorMessage("Tenant", err)})
	}

	return c.JSON(http.StatusOK, tenant)
}

// GetTenantStatusesHandler rates every tenant by e-mail confirmation and
// how recently its user signed in.
func GetTenantStatusesHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	if app.Tenants == nil {
		return tenantsUnavailable(c)
	}

	tenants, err := app.Tenants.GetAllTenants(c.Request().Context())
	if err != nil {
		logger.Error("[Tenants] Failed to load tenants for audit", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to audit tenants"})
	}

	statuses := audit.AuditTenants(tenants, time.Now(), app.TenantActiveWindow)
	if app.Metrics != nil {
		app.Metrics.RecordTenantAudit(statuses)
	}

	return c.JSON(http.StatusOK, statuses)
}
