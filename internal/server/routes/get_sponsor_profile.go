package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSponsorProfileHandler aggregates one sponsor's trial portfolio.
func GetSponsorProfileHandler(c echo.Context) error {
	type getSponsorProfileParams struct {
		ID string `param:"id" validate:"required"`
	}

	params := new(getSponsorProfileParams)
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

	profile, found := snapshot.Sponsor(params.ID)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Sponsor not found"})
	}

	return c.JSON(http.StatusOK, profile)
}
