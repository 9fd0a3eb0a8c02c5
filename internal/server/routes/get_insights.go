package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetInsightsHandler returns the derived snapshot-level insight lists.
func GetInsightsHandler(c echo.Context) error {
	type getInsightsParams struct {
		Limit int `query:"limit"`
	}

	params := new(getInsightsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	snapshot, _, err := snapshotFor(c)
	if snapshot == nil {
		return err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	return c.JSON(http.StatusOK, snapshot.Insights(limit))
}
