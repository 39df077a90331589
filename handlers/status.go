package handlers

import (
	"net/http"

	"github.com/alena0604/data-techniques/models"
)

type StatusProvider interface {
	Status() models.StatusResponse
}

type StatusHandler struct {
	pipeline StatusProvider
}

func NewStatusHandler(pipeline StatusProvider) *StatusHandler {
	return &StatusHandler{pipeline}
}

// GetStatus reports 503 until the high-water mark has been seeded.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) Result {
	status := h.pipeline.Status()
	if !status.Seeded {
		return ServiceUnavailable(status)
	}
	return Ok(status)
}
