// Package server exposes room validation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"roomcheck/internal/config"
	"roomcheck/internal/loader"
	"roomcheck/internal/logger"
	"roomcheck/internal/models"
)

const shutdownTimeout = 10 * time.Second

// Server serves the validation API.
type Server struct {
	loader   *loader.Loader
	log      *logger.Logger
	mode     models.Mode
	cfg      config.ServerConfig
	maxBatch int
}

// New creates a server that validates through l using the defaults in cfg.
func New(l *loader.Loader, cfg *config.Config, log *logger.Logger) *Server {
	return &Server{
		loader:   l,
		log:      log,
		mode:     cfg.Mode(),
		cfg:      cfg.Server,
		maxBatch: cfg.Validator.MaxBatchSize,
	}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/rooms/{id}/validate", s.validateStored)

	r.With(s.limitBody).Post("/validate", s.validateRaw)
	r.With(s.limitBody).Post("/validate/batch", s.validateBatch)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server listening", "addr", s.cfg.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
