package routes

import (
	"net/http"

	"github.com/unet360/unet360/backend/internal/queue"
	"github.com/unet360/unet360/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// RefreshGraphHandler rebuilds the graph from storage on demand.
func RefreshGraphHandler(c echo.Context) error {
	type refreshGraphResponse struct {
		Message string `json:"message"`
		Nodes   int    `json:"nodes"`
		Edges   int    `json:"edges"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()
	if err := app.RefreshGraph(ctx, "manual"); err != nil {
		return c.JSON(http.StatusInternalServerError, refreshGraphResponse{
			Message: "Failed to refresh graph",
		})
	}

	app.AnnounceChange(ctx, queue.ReasonRefresh, "")

	g := app.Navigator.Graph()
	return c.JSON(http.StatusOK, refreshGraphResponse{
		Message: "Graph refreshed",
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
	})
}
