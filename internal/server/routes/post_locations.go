package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	iutil "github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

type locationResponse struct {
	Message  string           `json:"message"`
	Location *common.Location `json:"location,omitempty"`
}

func CreateLocationHandler(c echo.Context) error {
	type createLocationBody struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	data := new(createLocationBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, locationResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, locationResponse{Message: "Invalid request body"})
	}

	name := iutil.NormalizeName(data.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, locationResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	location, err := app.Store.CreateLocation(c.Request().Context(), common.Location{Name: name})
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Locations] Failed to create location", "location", name, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), locationResponse{Message: serverutil.RecordErrorMessage("Location", err)})
	}

	return c.JSON(http.StatusCreated, locationResponse{
		Message:  "Location created",
		Location: &location,
	})
}
