package api

import (
	"net/http"
	"strconv"

	"task-registry/errors"
	"task-registry/logger"
	"task-registry/tasks/events"
)

const defaultEventsLimit = 50

// EventHistory is the read side of the event recorder
type EventHistory interface {
	Recent(limit int) []events.Event
}

// EventsResponse lists recent task events, newest first
type EventsResponse struct {
	Events []events.Event `json:"events"`
	Count  int            `json:"count"`
}

// NewEventsHandler returns the most recent processed task events.
func NewEventsHandler(history EventHistory, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultEventsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				RespondWithError(w, errors.NewValidationError("limit must be a positive integer", map[string]any{
					"limit": raw,
				}), lg)
				return
			}
			limit = parsed
		}

		recent := history.Recent(limit)
		respondWithJSON(w, http.StatusOK, EventsResponse{
			Events: recent,
			Count:  len(recent),
		}, lg)
	}
}
