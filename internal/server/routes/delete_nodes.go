package routes

import (
	"errors"
	"net/http"

	"github.com/unet360/unet360/backend/internal/queue"
	"github.com/unet360/unet360/backend/internal/server/middleware"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// DeleteNodeHandler removes a node. Neighbours that still point at it are
// left as they are and show up as dangling in the audit.
func DeleteNodeHandler(c echo.Context) error {
	type deleteNodeParams struct {
		Name string `param:"name" validate:"required"`
	}

	params := new(deleteNodeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	if err := app.Store.DeleteNode(ctx, params.Name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Node not found"})
		}
		logger.Error("[Nodes] Failed to delete node", "node", params.Name, "user", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	app.GraphChanged(ctx, queue.ReasonNodeDeleted, params.Name)

	return c.JSON(http.StatusOK, map[string]string{"message": "Node deleted"})
}
