package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/network"
	"github.com/trialatlas/backend/internal/server/middleware"
)

// filterParams is the query-parameter set shared by the network routes.
type filterParams struct {
	AnchorID        string `query:"anchor_id"`
	Timeframe       string `query:"timeframe"`
	TherapeuticArea string `query:"therapeutic_area"`
	Phase           string `query:"phase"`
	Country         string `query:"country"`
	NodeTypes       string `query:"node_types"`
	WeightingMode   string `query:"weighting_mode"`
	TopK            int    `query:"top_k"`
}

func (p *filterParams) filters() network.Filters {
	var types []network.EntityType
	for _, token := range strings.Split(p.NodeTypes, ",") {
		switch network.EntityType(strings.ToLower(strings.TrimSpace(token))) {
		case network.EntityTypeSponsor:
			types = append(types, network.EntityTypeSponsor)
		case network.EntityTypeInstitution:
			types = append(types, network.EntityTypeInstitution)
		case network.EntityTypeInvestigator:
			types = append(types, network.EntityTypeInvestigator)
		}
	}

	return network.Filters{
		Timeframe:       p.Timeframe,
		TherapeuticArea: p.TherapeuticArea,
		Phase:           p.Phase,
		Country:         p.Country,
		NodeTypes:       types,
		Mode:            network.ParseWeightingMode(p.WeightingMode),
	}
}

// snapshotFor binds the shared filter params and returns the cached or
// freshly built snapshot. A non-nil error has already been written to
// the response.
func snapshotFor(c echo.Context) (*network.Snapshot, *filterParams, error) {
	params := new(filterParams)
	if err := c.Bind(params); err != nil {
		return nil, nil, c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	service := c.(*middleware.AppContext).App.Network
	snapshot, err := service.Snapshot(params.filters())
	if err != nil {
		if errors.Is(err, network.ErrNoDataset) {
			return nil, nil, c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Trial dataset not loaded"})
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return snapshot, params, nil
}
