package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"task-registry/errors"
	"task-registry/logger"

	"github.com/go-playground/validator/v10"
)

const maxBodySize = 1024 * 1024 // 1 MB

var validate = validator.New()

// ErrorResponse defines the JSON structure for error responses
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    string         `json:"type,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// decodeJSON reads a size-limited JSON body into v and validates it
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) *errors.TaskError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewValidationError("request body too large", map[string]any{
				"max_size_bytes": maxBodySize,
			})
		}
		return errors.NewValidationError("invalid JSON payload", map[string]any{
			"error": err.Error(),
		})
	}

	return validateRequest(v)
}

// validateRequest runs the struct tags of v and reports every failing field
func validateRequest(v any) *errors.TaskError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error())
	}

	fields := make(map[string]any, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "is required"
			messages = append(messages, name+" is required")
		case "oneof":
			allowed := strings.ReplaceAll(fe.Param(), " ", ", ")
			fields[name] = "must be one of " + allowed
			messages = append(messages, fmt.Sprintf("%s must be one of %s", name, allowed))
		default:
			fields[name] = "failed " + fe.Tag()
			messages = append(messages, fmt.Sprintf("%s failed %s", name, fe.Tag()))
		}
	}

	return errors.NewValidationError(strings.Join(messages, "; "), fields)
}

// respondWithJSON writes body with the given status code
func respondWithJSON(w http.ResponseWriter, status int, body any, lg *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// headers are already sent
		lg.Error("failed to encode response", map[string]any{
			"error":       err,
			"status_code": status,
		})
	}
}

// respondWithFailure renders err, hiding anything that is not a TaskError
func respondWithFailure(w http.ResponseWriter, err error, lg *logger.Logger) {
	if taskErr, ok := errors.IsTaskError(err); ok {
		RespondWithError(w, taskErr, lg)
		return
	}
	lg.Error("unexpected handler error", map[string]any{
		"error": err,
	})
	RespondWithError(w, errors.NewInternalError("internal server error"), lg)
}

// RespondWithError sends a structured error response
func RespondWithError(w http.ResponseWriter, taskErr *errors.TaskError, lg *logger.Logger) {
	fields := map[string]any{
		"error_type":    string(taskErr.Type),
		"error_message": taskErr.Message,
		"status_code":   taskErr.Code,
		"error_details": taskErr.Details,
	}
	if taskErr.Code >= http.StatusInternalServerError {
		lg.Error("HTTP error response", fields)
	} else {
		lg.Warn("HTTP error response", fields)
	}

	respondWithJSON(w, taskErr.Code, ErrorResponse{
		Error:   taskErr.Message,
		Type:    string(taskErr.Type),
		Details: taskErr.Details,
	}, lg)
}
