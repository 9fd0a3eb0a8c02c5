package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/network"
)

// GetSimilarHandler ranks entities by neighbor overlap with the given
// entity.
func GetSimilarHandler(c echo.Context) error {
	type getSimilarParams struct {
		ID string `param:"id" validate:"required"`
		K  int    `query:"k"`
	}

	type getSimilarResponse struct {
		Similar []network.SimilarEntity `json:"similar"`
		Message string                  `json:"message,omitempty"`
	}

	params := new(getSimilarParams)
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

	topK := params.K
	if topK <= 0 {
		topK = 10
	}

	similar, found := snapshot.Similar(params.ID, topK)
	if !found {
		return c.JSON(http.StatusNotFound, getSimilarResponse{
			Similar: []network.SimilarEntity{},
			Message: "Entity not found",
		})
	}
	if similar == nil {
		similar = []network.SimilarEntity{}
	}

	return c.JSON(http.StatusOK, getSimilarResponse{Similar: similar})
}
