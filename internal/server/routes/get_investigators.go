package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/network"
)

// GetInvestigatorsHandler ranks investigators by trial involvement.
func GetInvestigatorsHandler(c echo.Context) error {
	type getInvestigatorsParams struct {
		Limit int `query:"limit"`
	}

	type getInvestigatorsResponse struct {
		Investigators []network.InvestigatorRanking `json:"investigators"`
	}

	params := new(getInvestigatorsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	snapshot, _, err := snapshotFor(c)
	if snapshot == nil {
		return err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	rankings := snapshot.Investigators(limit)
	if rankings == nil {
		rankings = []network.InvestigatorRanking{}
	}

	return c.JSON(http.StatusOK, getInvestigatorsResponse{Investigators: rankings})
}
