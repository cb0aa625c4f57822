package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	iutil "github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// EditTagHandler renames a tag or changes its icon. Nodes carrying the tag
// are moved to the new name.
func EditTagHandler(c echo.Context) error {
	type editTagBody struct {
		Name     *string `json:"name" validate:"omitempty,max=100"`
		IconName *string `json:"icon_name" validate:"omitempty,max=100"`
	}

	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	data := new(editTagBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, tagResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, tagResponse{Message: "Invalid request body"})
	}

	update := store.TagUpdate{IconName: data.IconName}
	if data.Name != nil {
		newName := iutil.NormalizeName(*data.Name)
		if newName == "" {
			return c.JSON(http.StatusBadRequest, tagResponse{Message: "Invalid request body"})
		}
		update.Name = &newName
	}

	app := c.(*middleware.AppContext).App
	tag, err := app.Store.UpdateTag(c.Request().Context(), name, update)
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Tags] Failed to update tag", "tag", name, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), tagResponse{Message: serverutil.RecordErrorMessage("Tag", err)})
	}

	return c.JSON(http.StatusOK, tagResponse{
		Message: "Tag updated",
		Tag:     &tag,
	})
}
