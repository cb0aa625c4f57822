package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/unet360/unet360/backend/internal/queue"
	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

type nodeResponse struct {
	Message string             `json:"message"`
	Node    *common.NodeRecord `json:"node,omitempty"`
}

// CreateNodeHandler stores a new node and rebuilds the graph.
func CreateNodeHandler(c echo.Context) error {
	data := new(serverutil.NodeInput)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, nodeResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, nodeResponse{Message: "Invalid request body"})
	}
	if err := serverutil.CheckWeights(common.Adjacency(data.Adjacency)); err != nil {
		return c.JSON(http.StatusBadRequest, nodeResponse{Message: err.Error()})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, nodeResponse{Message: "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	rec := data.Record()
	if err := checkReferences(ctx, app.Store, serverutil.ReferencesOf(rec)); err != nil {
		return c.JSON(serverutil.StatusFor(err), nodeResponse{Message: serverutil.ErrorMessage(err)})
	}

	node, err := app.Store.CreateNode(ctx, rec)
	if err != nil {
		if serverutil.StatusFor(err) == http.StatusInternalServerError {
			logger.Error("[Nodes] Failed to create node", "node", rec.Name, "user", user.UserID, "err", err)
		}
		return c.JSON(serverutil.StatusFor(err), nodeResponse{Message: serverutil.RecordErrorMessage("Node", err)})
	}

	app.GraphChanged(ctx, queue.ReasonNodeCreated, node.Name)

	return c.JSON(http.StatusCreated, nodeResponse{
		Message: "Node created",
		Node:    &node,
	})
}

// checkReferences verifies that everything refs names is stored.
func checkReferences(ctx context.Context, st store.NodeStorage, refs serverutil.References) error {
	if refs.Location != "" {
		if _, err := st.GetLocationByName(ctx, refs.Location); err != nil {
			return referenceError("location", refs.Location, err)
		}
	}
	for _, tag := range refs.Tags {
		if _, err := st.GetTagByName(ctx, tag); err != nil {
			return referenceError("tag", tag, err)
		}
	}
	for _, name := range refs.Neighbors {
		if _, err := st.GetNodeByName(ctx, name); err != nil {
			return referenceError("adjacent node", name, err)
		}
	}
	return nil
}

func referenceError(kind, name string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s '%s' %w", kind, name, store.ErrNotFound)
	}
	return fmt.Errorf("failed to look up %s '%s': %w", kind, name, err)
}
