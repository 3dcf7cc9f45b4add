package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/shelfwise/shelfwise-server/internal/http/response"
)

// SearchRequest represents the request body for starting a new search.
type SearchRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

// MoreBooksRequest represents the request body for extending a search.
// Count <= 0 selects the server default.
type MoreBooksRequest struct {
	SearchID int64 `json:"searchId" validate:"required,gt=0"`
	Count    int   `json:"count" validate:"lte=50"`
}

// handleRoot returns a welcome message.
// GET /
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"message": "Welcome to the Shelfwise API",
	}, s.logger)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// handleHealthCheck reports overall server health.
// GET /health
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	dbHealth := s.checkDatabase(r.Context())
	components["database"] = dbHealth
	if dbHealth.Status != "healthy" {
		overall = "unhealthy"
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}

	response.JSON(w, status, HealthResponse{
		Status:     overall,
		Components: components,
	}, s.logger)
}

// checkDatabase verifies SQLite is accessible.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.db == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "database not configured",
		}
	}

	start := time.Now()
	err := s.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "database ping failed",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// handleSearch starts a new discovery for the submitted query.
// POST /api/search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SearchRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	search, err := s.discovery.NewSearch(ctx, req.Query)
	if err != nil {
		s.logger.Error("Failed to run search", "error", err, "query", req.Query)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, search, s.logger)
}

// handleMoreBooks extends an existing search with more recommendations.
// POST /api/more-books
func (s *Server) handleMoreBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MoreBooksRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	search, err := s.discovery.MoreBooks(ctx, req.SearchID, req.Count)
	if err != nil {
		s.logger.Error("Failed to extend search", "error", err, "search_id", req.SearchID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, search, s.logger)
}

// handleHistory returns every recorded search with its books.
// GET /api/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	searches, err := s.discovery.History(r.Context())
	if err != nil {
		s.logger.Error("Failed to load history", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, searches, s.logger)
}
