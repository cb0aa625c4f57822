package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeleteTagHandler removes a tag and detaches it from every node.
func DeleteTagHandler(c echo.Context) error {
	type deleteTagParams struct {
		Name string `param:"name" validate:"required"`
	}

	params := new(deleteTagParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	if err := app.Store.DeleteTag(c.Request().Context(), params.Name); err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Tags] Failed to delete tag", "tag", params.Name, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), map[string]string{"error": serverutil.RecordErrorMessage("Tag", err)})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Tag deleted"})
}
