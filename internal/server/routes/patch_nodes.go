package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/queue"
	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EditNodeHandler applies a partial update to a node. Renaming a node does
// not rewrite references held by other nodes; the audit reports them.
func EditNodeHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	data := new(serverutil.NodePatch)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, nodeResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, nodeResponse{Message: "Invalid request body"})
	}
	if data.Adjacency != nil {
		if err := serverutil.CheckWeights(common.Adjacency(*data.Adjacency)); err != nil {
			return c.JSON(http.StatusBadRequest, nodeResponse{Message: err.Error()})
		}
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, nodeResponse{Message: "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	update := data.Update()
	self := []string{name}
	if update.Name != nil {
		self = append(self, *update.Name)
	}
	if err := checkReferences(ctx, app.Store, data.References(self...)); err != nil {
		return c.JSON(serverutil.StatusFor(err), nodeResponse{Message: serverutil.ErrorMessage(err)})
	}

	node, err := app.Store.UpdateNode(ctx, name, update)
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Nodes] Failed to update node", "node", name, "user", user.UserID, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), nodeResponse{Message: serverutil.RecordErrorMessage("Node", err)})
	}

	app.GraphChanged(ctx, queue.ReasonNodeUpdated, node.Name)

	return c.JSON(http.StatusOK, nodeResponse{
		Message: "Node updated",
		Node:    &node,
	})
}
