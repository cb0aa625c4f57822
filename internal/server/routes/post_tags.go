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

type tagResponse struct {
	Message string      `json:"message"`
	Tag     *common.Tag `json:"tag,omitempty"`
}

func CreateTagHandler(c echo.Context) error {
	type createTagBody struct {
		Name     string  `json:"name" validate:"required,max=100"`
		IconName *string `json:"icon_name" validate:"omitempty,max=100"`
	}

	data := new(createTagBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, tagResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, tagResponse{Message: "Invalid request body"})
	}

	name := iutil.NormalizeName(data.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, tagResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	tag, err := app.Store.CreateTag(c.Request().Context(), common.Tag{Name: name, IconName: data.IconName})
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Tags] Failed to create tag", "tag", name, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), tagResponse{Message: serverutil.RecordErrorMessage("Tag", err)})
	}

	return c.JSON(http.StatusCreated, tagResponse{
		Message: "Tag created",
		Tag:     &tag,
	})
}
