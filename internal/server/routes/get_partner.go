package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetPartnerHandler returns a partner profile and its shared trials
// with the anchor.
func GetPartnerHandler(c echo.Context) error {
	type getPartnerParams struct {
		ID       string `param:"id" validate:"required"`
		AnchorID string `query:"anchor_id"`
	}

	params := new(getPartnerParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.AnchorID == "" {
		return c.JSON(http.StatusOK, map[string]string{"message": "No anchor selected"})
	}

	snapshot, _, err := snapshotFor(c)
	if snapshot == nil {
		return err
	}

	detail, found := snapshot.Partner(params.ID, params.AnchorID)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Entity not found"})
	}

	return c.JSON(http.StatusOK, detail)
}
