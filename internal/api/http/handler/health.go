package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/jobtracker-server/internal/api/http/response"
	"github.com/dtroode/jobtracker-server/internal/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers liveness probes.
type Health struct {
	pinger Pinger
	logger *logger.Logger
}

// NewHealth creates a Health handler. pinger may be nil.
func NewHealth(pinger Pinger, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, logger: logger}
}

type healthResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Error("Health handler: database unreachable",
				"error", err.Error())
			response.WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}

	response.WriteJSON(w, http.StatusOK, healthResponse{
		Message:   "Job Tracker API Is Running!",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
