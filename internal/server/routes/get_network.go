package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/network"
)

// GetNetworkHandler returns the full graph snapshot for a filter-set.
func GetNetworkHandler(c echo.Context) error {
	type getNetworkResponse struct {
		SnapshotID string            `json:"snapshot_id"`
		Nodes      []*network.Entity `json:"nodes"`
		Edges      []*network.Edge   `json:"edges"`
		NodeCount  int               `json:"node_count"`
		EdgeCount  int               `json:"edge_count"`
		Truncated  bool              `json:"truncated"`
		Message    string            `json:"message,omitempty"`
		BuiltAt    time.Time         `json:"built_at"`
	}

	snapshot, _, err := snapshotFor(c)
	if snapshot == nil {
		return err
	}

	response := getNetworkResponse{
		SnapshotID: snapshot.ID,
		Nodes:      snapshot.Nodes(),
		Edges:      snapshot.Edges(),
		NodeCount:  snapshot.NodeCount(),
		EdgeCount:  snapshot.EdgeCount(),
		Truncated:  snapshot.Truncated,
		BuiltAt:    snapshot.BuiltAt,
	}
	if snapshot.Truncated {
		response.Message = "Graph truncated, narrow your filters"
	}

	return c.JSON(http.StatusOK, response)
}
