package middleware

import (
	"net/http"
	"time"

	"task-registry/logger"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware logs one structured entry per request once the response is written.
func LoggingMiddleware(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// WriteHeader is not always called
				status = http.StatusOK
			}

			lg.HTTP(
				r.Method,
				r.URL.Path,
				status,
				time.Since(startTime),
				map[string]any{
					"request_id":    chimiddleware.GetReqID(r.Context()),
					"remote_addr":   r.RemoteAddr,
					"user_agent":    r.UserAgent(),
					"bytes_written": ww.BytesWritten(),
				},
			)
		})
	}
}
