// Package web serves a finished mapping report and the reference pool over a
// read-only JSON API for manual review.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/golfmapper/coursemap/internal/match"
	"github.com/golfmapper/coursemap/internal/report"
	"github.com/golfmapper/coursemap/internal/web/handlers"
	"github.com/golfmapper/coursemap/internal/web/middleware"
)

const shutdownTimeout = 30 * time.Second

// Server represents the web server
type Server struct {
	config     *Config
	doc        *report.Document
	pool       *match.Pool
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a server over a loaded report and reference pool.
func NewServer(config *Config, doc *report.Document, pool *match.Pool) (*Server, error) {
	if doc == nil {
		return nil, errors.New("web: report is required")
	}
	if pool == nil {
		return nil, errors.New("web: reference pool is required")
	}

	server := &Server{
		config: config,
		doc:    doc,
		pool:   pool,
	}
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	mappingsHandler := handlers.NewMappingsHandler(s.doc)
	coursesHandler := &handlers.CoursesHandler{Pool: s.pool}

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/mappings", mappingsHandler.ListMappings).Methods("GET")
	api.HandleFunc("/mappings/{id:[0-9]+}", mappingsHandler.GetMapping).Methods("GET")
	api.HandleFunc("/summary", mappingsHandler.GetSummary).Methods("GET")

	api.HandleFunc("/courses", coursesHandler.SearchCourses).Methods("GET")
	api.HandleFunc("/stats", coursesHandler.GetStats).Methods("GET")

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging())
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Int("mappings", len(s.doc.Mappings)).
			Int("courses", s.pool.Len()).Msg("Starting review server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", s.httpServer.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}
