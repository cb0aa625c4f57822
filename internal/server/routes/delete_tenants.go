package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeleteTenantHandler removes the tenant record. The user stays with the
// identity provider.
func DeleteTenantHandler(c echo.Context) error {
	type deleteTenantParams struct {
		UserID string `param:"user_id" validate:"required"`
	}

	params := new(deleteTenantParams)
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

	if err := app.Tenants.DeleteTenant(c.Request().Context(), params.UserID); err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Tenants] Failed to delete tenant", "user", params.UserID, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), map[string]string{"error": serverutil.RecordErrorMessage("Tenant", err)})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Tenant deleted"})
}
