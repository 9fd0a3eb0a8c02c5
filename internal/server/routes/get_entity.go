package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetEntityHandler returns the standalone profile of one entity.
func GetEntityHandler(c echo.Context) error {
	type getEntityParams struct {
		ID string `param:"id" validate:"required"`
	}

	params := new(getEntityParams)
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

	detail, found := snapshot.Entity(params.ID)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Entity not found"})
	}

	return c.JSON(http.StatusOK, detail)
}
