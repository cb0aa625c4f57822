package routes

import (
	"errors"
	"net/http"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/pkg/graph"

	"github.com/labstack/echo/v4"
)

// ShortestPathHandler returns the least-weight route between two nodes of
// the installed graph.
func ShortestPathHandler(c echo.Context) error {
	type shortestPathParams struct {
		Source string `param:"source" validate:"required"`
		Target string `param:"target" validate:"required"`
	}

	params := new(shortestPathParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	path, err := app.Navigator.ShortestPath(params.Source, params.Target)
	if app.Metrics != nil {
		app.Metrics.RecordPathQuery(pathResult(err))
	}
	if err != nil {
		return c.JSON(serverutil.StatusFor(err), map[string]string{"error": serverutil.ErrorMessage(err)})
	}

	return c.JSON(http.StatusOK, path)
}

func pathResult(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, graph.ErrNodeNotFound):
		return "node_not_found"
	case errors.Is(err, graph.ErrNoPath):
		return "no_path"
	default:
		return "error"
	}
}

// GetGraphNodesHandler lists every graph member with its neighbours.
func GetGraphNodesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Navigator.AllGraphNodes())
}

// GetAdjacentHandler returns the neighbours of one graph member.
func GetAdjacentHandler(c echo.Context) error {
	type adjacentParams struct {
		Name string `param:"name" validate:"required"`
	}

	params := new(adjacentParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	g := app.Navigator.Graph()
	if !g.Has(params.Name) {
		err := &graph.NodeNotFoundError{Name: params.Name}
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, g.Adjacent(params.Name))
}
