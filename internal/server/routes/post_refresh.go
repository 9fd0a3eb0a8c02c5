package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trialatlas/backend/internal/queue"
	"github.com/trialatlas/backend/internal/server/middleware"
)

// RefreshHandler triggers a dataset reload. With a queue configured the
// reload is asynchronous; otherwise it happens inline.
func RefreshHandler(c echo.Context) error {
	type refreshBody struct {
		Reason string `json:"reason"`
	}

	type refreshResponse struct {
		Message string `json:"message"`
		Records int    `json:"records,omitempty"`
	}

	data := new(refreshBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, refreshResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App

	if app.Queue != nil {
		msg, err := json.Marshal(queue.RefreshMsg{Reason: data.Reason})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, refreshResponse{Message: "Internal server error"})
		}
		if err := queue.PublishFIFO(app.Queue, queue.RefreshQueue, msg); err != nil {
			return c.JSON(http.StatusInternalServerError, refreshResponse{Message: "Failed to enqueue refresh"})
		}
		return c.JSON(http.StatusAccepted, refreshResponse{Message: "Refresh enqueued"})
	}

	ctx := c.Request().Context()
	records, err := app.Source.Load(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, refreshResponse{Message: "Failed to reload trial dataset"})
	}
	app.Network.SetRecords(records)

	return c.JSON(http.StatusOK, refreshResponse{
		Message: "Trial dataset reloaded",
		Records: len(records),
	})
}
