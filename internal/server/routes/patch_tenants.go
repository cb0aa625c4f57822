package routes

import (
	"net/http"
	"strings"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

func EditTenantHandler(c echo.Context) error {
	type editTenantBody struct {
		Name *string `json:"name" validate:"omitempty,max=100"`
		Role *string `json:"role" validate:"omitempty,max=50"`
	}

	userID := c.Param("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	data := new(editTenantBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, tenantResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, tenantResponse{Message: "Invalid request body"})
	}

	var update store.TenantUpdate
	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, tenantResponse{Message: "Invalid request body"})
		}
		update.Name = &name
	}
	if data.Role != nil {
		role := strings.TrimSpace(*data.Role)
		if role == "" {
			return c.JSON(http.StatusBadRequest, tenantResponse{Message: "Invalid request body"})
		}
		update.Role = &role
	}

	app := c.(*middleware.AppContext).App
	if app.Tenants == nil {
		return tenantsUnavailable(c)
	}

	tenant, err := app.Tenants.UpdateTenant(c.Request().Context(), userID, update)
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Tenants] Failed to update tenant", "user", userID, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), tenantResponse{Message: serverutil.RecordErrorMessage("Tenant", err)})
	}

	return c.JSON(http.StatusOK, tenantResponse{
		Message: "Tenant updated",
		Tenant:  &tenant,
	})
}
