package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/audit"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

func GetNodesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	nodes, err := app.Store.GetAllNodes(ctx)
	if err != nil {
		logger.Error("[Nodes] Failed to list nodes", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, nodes)
}

func GetNodeHandler(c echo.Context) error {
	type getNodeParams struct {
		Name string `param:"name" validate:"required"`
	}

	params := new(getNodeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	node, err := app.Store.GetNodeByName(ctx, params.Name)
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Nodes] Failed to load node", "node", params.Name, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), map[string]string{"error": serverutil.RecordErrorMessage("Node", err)})
	}

	return c.JSON(http.StatusOK, node)
}

// GetNodeStatusesHandler audits every stored node.
func GetNodeStatusesHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	statuses, err := audit.New(app.Store).Run(ctx)
	if err != nil {
		logger.Error("[Nodes] Audit failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if app.Metrics != nil {
		app.Metrics.RecordAudit(statuses)
	}

	return c.JSON(http.StatusOK, statuses)
}
