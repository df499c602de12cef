// Package httpapi serves the recommendation API over HTTP.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/registrar-labs/courserec/internal/core/ports/driving"
	"github.com/registrar-labs/courserec/internal/logger"
)

// Default server values.
const (
	DefaultPort         = 8080
	readHeaderTimeout   = 5 * time.Second
	shutdownGracePeriod = 10 * time.Second
)

// Server hosts the recommendation API.
type Server struct {
	recommender driving.RecommenderService
	log         zerolog.Logger
	srv         *http.Server
}

// NewServer creates a server bound to the given port.
func NewServer(recommender driving.RecommenderService, port int) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		recommender: recommender,
		log:         logger.Base(),
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// routes assembles the router and middleware stack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/courses/{id}/recommendations", s.handleRecommendations)
	})

	return r
}

// Start listens until the context is cancelled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.Info().Str("addr", s.srv.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Handler exposes the assembled router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
