package routes

import (
	"net/http"
	"strings"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

type tenantResponse struct {
	Message string         `json:"message"`
	Tenant  *common.Tenant `json:"tenant,omitempty"`
}

// CreateTenantHandler registers an operator account for an existing
// identity provider user.
func CreateTenantHandler(c echo.Context) error {
	type createTenantBody struct {
		UserID string `json:"user_id" validate:"required,max=200"`
		Name   string `json:"name" validate:"required,max=100"`
		Role   string `json:"role" validate:"required,max=50"`
	}

	data := new(createTenantBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, tenantResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, tenantResponse{Message: "Invalid request body"})
	}

	tenant := common.Tenant{
		UserID: strings.TrimSpace(data.UserID),
		Name:   strings.TrimSpace(data.Name),
		Role:   strings.TrimSpace(data.Role),
	}
	if tenant.UserID == "" || tenant.Name == "" || tenant.Role == "" {
		return c.JSON(http.StatusBadRequest, tenantResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	if app.Tenants == nil {
		return tenantsUnavailable(c)
	}

	created, err := app.Tenants.CreateTenant(c.Request().Context(), tenant)
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Tenants] Failed to create tenant", "user", tenant.UserID, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), tenantResponse{Message: serverutil.RecordErrorMessage("Tenant", err)})
	}

	return c.JSON(http.StatusCreated, tenantResponse{
		Message: "Tenant created",
		Tenant:  &created,
	})
}
