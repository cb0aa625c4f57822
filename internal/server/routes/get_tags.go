package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

func GetTagsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	tags, err := app.Store.GetAllTags(c.Request().Context())
	if err != nil {
		logger.Error("[Tags] Failed to list tags", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, tags)
}

func GetTagHandler(c echo.Context) error {
	type getTagParams struct {
		Name string `param:"name" validate:"required"`
	}

	params := new(getTagParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	tag, err := app.Store.GetTagByName(c.Request().Context(), params.Name)
	if err != nil {
		return c.JSON(serverutil.StatusFor(err), map[string]string{"error": serverutil.RecordErrorMessage("Tag", err)})
	}

	return c.JSON(http.StatusOK, tag)
}
