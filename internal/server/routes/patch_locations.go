package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	iutil "github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EditLocationHandler renames a location. Nodes follow the new name.
func EditLocationHandler(c echo.Context) error {
	type editLocationBody struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	data := new(editLocationBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, locationResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, locationResponse{Message: "Invalid request body"})
	}

	newName := iutil.NormalizeName(data.Name)
	if newName == "" {
		return c.JSON(http.StatusBadRequest, locationResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	location, err := app.Store.RenameLocation(c.Request().Context(), name, newName)
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Locations] Failed to rename location", "location", name, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), locationResponse{Message: serverutil.RecordErrorMessage("Location", err)})
	}

	return c.JSON(http.StatusOK, locationResponse{
		Message:  "Location updated",
		Location: &location,
	})
}
