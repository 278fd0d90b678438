package routes

import (
	"net/http"
	"strconv"

	"github.com/OFFIS-RIT/actorlink/internal/queue"
	"github.com/OFFIS-RIT/actorlink/internal/server/middleware"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateIngestJobHandler queues ingestion of the catalog IDs [from, to).
func CreateIngestJobHandler(c echo.Context) error {
	type createIngestBody struct {
		From int64 `json:"from" validate:"min=0"`
		To   int64 `json:"to" validate:"required,gtfield=From"`
	}

	type createIngestResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	data := new(createIngestBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createIngestResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createIngestResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, createIngestResponse{Message: "Ingest queue is not configured"})
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createIngestResponse{Message: "Internal server error"})
	}

	user := c.(*middleware.AppContext).User
	requestedBy := ""
	if user != nil && user.UserID != 0 {
		requestedBy = strconv.FormatInt(user.UserID, 10)
	}

	err = queue.PublishIngestJob(c.Request().Context(), app.Queue, queue.IngestJobMsg{
		JobID:       jobID,
		From:        data.From,
		To:          data.To,
		RequestedBy: requestedBy,
	})
	if err != nil {
		logger.Error("[Server][Ingest] Failed to queue job", "err", err)
		return c.JSON(http.StatusInternalServerError, createIngestResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, createIngestResponse{
		Message: "Ingest job queued",
		JobID:   jobID,
	})
}
