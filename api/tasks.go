package api

import (
	"net/http"

	"task-registry/errors"
	"task-registry/logger"
	"task-registry/tasks"
	"task-registry/tasks/manager"

	"github.com/go-chi/chi/v5"
)

// createTaskRequest is the body of POST /tasks
type createTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// updateStatusRequest is the body of PATCH /tasks/{id}/status
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// listTasksQuery holds the optional GET /tasks filters
type listTasksQuery struct {
	Status string `validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	Search string
}

// NewListTasksHandler lists tasks, narrowed by the status and search query parameters.
func NewListTasksHandler(mgr manager.Manager, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := listTasksQuery{
			Status: r.URL.Query().Get("status"),
			Search: r.URL.Query().Get("search"),
		}
		if taskErr := validateRequest(&query); taskErr != nil {
			RespondWithError(w, taskErr, lg)
			return
		}

		found, err := mgr.ListTasks(r.Context(), tasks.Filter{
			Status: tasks.TaskStatus(query.Status),
			Search: query.Search,
		})
		if err != nil {
			respondWithFailure(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusOK, found, lg)
	}
}

// NewGetTaskHandler returns a single task by id.
func NewGetTaskHandler(mgr manager.Manager, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := mgr.GetTask(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondWithFailure(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusOK, task, lg)
	}
}

// NewCreateTaskHandler registers a new task from a JSON body.
func NewCreateTaskHandler(mgr manager.Manager, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTaskRequest
		if taskErr := decodeJSON(w, r, &req); taskErr != nil {
			RespondWithError(w, taskErr, lg)
			return
		}

		task, err := mgr.CreateTask(r.Context(), req.Title, req.Description)
		if err != nil {
			respondWithFailure(w, err, lg)
			return
		}

		w.Header().Set("Location", "/tasks/"+task.ID)
		respondWithJSON(w, http.StatusCreated, task, lg)
	}
}

// NewDeleteTaskHandler removes a task.
func NewDeleteTaskHandler(mgr manager.Manager, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := mgr.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondWithFailure(w, err, lg)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewUpdateTaskStatusHandler sets the status of a task.
func NewUpdateTaskStatusHandler(mgr manager.Manager, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStatusRequest
		if taskErr := decodeJSON(w, r, &req); taskErr != nil {
			RespondWithError(w, taskErr, lg)
			return
		}

		status, err := tasks.ParseStatus(req.Status)
		if err != nil {
			RespondWithError(w, errors.NewValidationError(err.Error(), map[string]any{
				"status":  req.Status,
				"allowed": tasks.Statuses,
			}), lg)
			return
		}

		task, err := mgr.UpdateTaskStatus(r.Context(), chi.URLParam(r, "id"), status)
		if err != nil {
			respondWithFailure(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusOK, task, lg)
	}
}
