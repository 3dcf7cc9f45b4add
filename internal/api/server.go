// Package api provides the HTTP API server and handlers for the Shelfwise application.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfwise/shelfwise-server/internal/ai"
	"github.com/shelfwise/shelfwise-server/internal/domain"
	"github.com/shelfwise/shelfwise-server/internal/ratelimit"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

// DiscoveryService is the book discovery surface the handlers depend on.
type DiscoveryService interface {
	NewSearch(ctx context.Context, query string) (*domain.Search, error)
	MoreBooks(ctx context.Context, searchID int64, count int) (*domain.Search, error)
	History(ctx context.Context) ([]*domain.Search, error)
}

// Narrator streams reading-profile narrations.
type Narrator interface {
	Narrate(ctx context.Context, queries []string) <-chan ai.Fragment
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	discovery       DiscoveryService
	narrator        Narrator
	db              Pinger
	validator       *validation.Validator
	generateLimiter *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(discovery DiscoveryService, narrator Narrator, db Pinger, logger *slog.Logger) *Server {
	s := &Server{
		discovery:       discovery,
		narrator:        narrator,
		db:              db,
		validator:       validation.New(),
		generateLimiter: newGenerateLimiter(),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// The web client is served from arbitrary origins.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/history", s.handleHistory)

		// Model-backed endpoints are throttled per client IP.
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimitMiddleware)
			r.Post("/search", s.handleSearch)
			r.Post("/more-books", s.handleMoreBooks)
			r.Post("/generate-profile", s.handleGenerateProfile)
		})
	})
}
