package api

import (
	"net/http"
	"time"

	"task-registry/config"
	"task-registry/logger"
)

var startTime = time.Now()

// TaskCounter reports how many tasks are registered
type TaskCounter interface {
	Len() int
}

// HealthResponse provides detailed health information
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Uptime        string `json:"uptime"`
	TaskCount     int    `json:"task_count"`
	EventsEnabled bool   `json:"events_enabled"`
	Version       string `json:"version,omitempty"`
}

// NewHealthHandler returns a health check handler
func NewHealthHandler(cfg *config.Config, counter TaskCounter, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:        "healthy",
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Uptime:        time.Since(startTime).String(),
			TaskCount:     counter.Len(),
			EventsEnabled: cfg.Events.Enabled,
			Version:       cfg.Version,
		}, lg)
	}
}
