package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/network"
)

// GetEdgeHandler returns one edge with the trials behind it.
func GetEdgeHandler(c echo.Context) error {
	type getEdgeParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getEdgeResponse struct {
		Edge   *network.Edge         `json:"edge"`
		Trials []network.SharedTrial `json:"trials"`
	}

	params := new(getEdgeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	snapshot, _, err := snapshotFor(c)
	if snapshot == nil {
		return err
	}

	edge, found := snapshot.Edge(params.ID)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Edge not found"})
	}

	detail, found := snapshot.Partner(edge.Target, edge.Source)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Edge not found"})
	}

	return c.JSON(http.StatusOK, getEdgeResponse{
		Edge:   edge,
		Trials: detail.SharedTrials,
	})
}
