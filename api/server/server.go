package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"task-registry/api"
	"task-registry/api/middleware"
	"task-registry/config"
	taskerrors "task-registry/errors"
	"task-registry/logger"
	"task-registry/tasks/manager"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wraps http.Server with graceful shutdown capabilities
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *logger.Logger
}

// Dependencies contains everything the HTTP layer needs
type Dependencies struct {
	Manager manager.Manager
	Counter api.TaskCounter
	// History is nil when task events are disabled
	History api.EventHistory
	Config  *config.Config
	Logger  *logger.Logger
}

// New creates a new server with all HTTP configuration
func New(deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         deps.Config.Address(),
			Handler:      NewRouter(deps),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			ErrorLog:     zap.NewStdLog(deps.Logger.Zap()),
		},
		config: deps.Config,
		logger: deps.Logger,
	}
}

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(deps Dependencies) http.Handler {
	lg := deps.Logger

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(lg))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, taskerrors.NewNotFoundError("route not found"), lg)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, &taskerrors.TaskError{
			Type:    taskerrors.ValidationError,
			Message: "method not allowed",
			Code:    http.StatusMethodNotAllowed,
		}, lg)
	})

	r.Get("/health", api.NewHealthHandler(deps.Config, deps.Counter, lg))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", api.NewListTasksHandler(deps.Manager, lg))
		r.Post("/", api.NewCreateTaskHandler(deps.Manager, lg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", api.NewGetTaskHandler(deps.Manager, lg))
			r.Delete("/", api.NewDeleteTaskHandler(deps.Manager, lg))
			r.Patch("/status", api.NewUpdateTaskStatusHandler(deps.Manager, lg))
		})
	})

	if deps.History != nil {
		r.Get("/events", api.NewEventsHandler(deps.History, lg))
	}

	return r
}

// Start serves until ctx is cancelled or the listener fails, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", map[string]any{
			"address": listener.Addr().String(),
		})

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			s.logger.Error("Server failed", map[string]any{
				"error": err,
			})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	return s.shutdown()
}

// shutdown gracefully shuts down the server
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", map[string]any{
			"error": err,
		})
		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
