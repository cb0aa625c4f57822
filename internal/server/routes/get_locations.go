package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

func GetLocationsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	locations, err := app.Store.GetAllLocations(ctx)
	if err != nil {
		logger.Error("[Locations] Failed to list locations", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, locations)
}

func GetLocationHandler(c echo.Context) error {
	type getLocationParams struct {
		Name string `param:"name" validate:"required"`
	}

	params := new(getLocationParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	location, err := app.Store.GetLocationByName(c.Request().Context(), params.Name)
	if err != nil {
		return c.JSON(serverutil.StatusFor(err), map[string]string{"error": "Location not found"})
	}

	return c.JSON(http.StatusOK, location)
}
