package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/network"
)

// GetPartnersHandler returns the top-K collaboration partners of the
// anchor entity.
func GetPartnersHandler(c echo.Context) error {
	type getPartnersResponse struct {
		Partners []network.Partner `json:"partners"`
		Message  string            `json:"message,omitempty"`
	}

	snapshot, params, err := snapshotFor(c)
	if snapshot == nil {
		return err
	}

	if params.AnchorID == "" {
		return c.JSON(http.StatusOK, getPartnersResponse{
			Partners: []network.Partner{},
			Message:  "No anchor selected",
		})
	}

	topK := params.TopK
	if topK <= 0 {
		topK = 10
	}

	partners, found := snapshot.Partners(params.AnchorID, topK)
	if !found {
		return c.JSON(http.StatusNotFound, getPartnersResponse{
			Partners: []network.Partner{},
			Message:  "Entity not found",
		})
	}

	return c.JSON(http.StatusOK, getPartnersResponse{Partners: partners})
}
