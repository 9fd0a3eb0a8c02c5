package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/network"
)

// GetSearchHandler suggests entities matching a text query.
func GetSearchHandler(c echo.Context) error {
	type getSearchResponse struct {
		Results []network.SearchResult `json:"results"`
	}

	snapshot, _, err := snapshotFor(c)
	if snapshot == nil {
		return err
	}

	return c.JSON(http.StatusOK, getSearchResponse{
		Results: snapshot.Search(c.QueryParam("q")),
	})
}
