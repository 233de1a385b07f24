// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/maven/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Match runs the full matching pipeline for a problem statement.
	Match(ctx context.Context, problem string) (types.MatchResult, error)

	// Team returns the current assignment of a live session.
	Team(ctx context.Context, sessionID string) (types.TeamView, error)

	// Reassign moves tags between experts inside a live session.
	Reassign(ctx context.Context, sessionID string, tags []string, from, to string) (types.ReassignResult, error)

	// AllTags lists every declared roster tag, sorted.
	AllTags(ctx context.Context) ([]string, error)

	// InvalidateExpert drops a cached expert embedding.
	InvalidateExpert(ctx context.Context, expertID string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchHandler   *MatchHandler
	sessionHandler *SessionHandler
	tagsHandler    *TagsHandler
	expertsHandler *ExpertsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		matchHandler:   NewMatchHandler(deps),
		sessionHandler: NewSessionHandler(deps),
		tagsHandler:    NewTagsHandler(deps),
		expertsHandler: NewExpertsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	matchLimiter := NewRateLimiter(matchRateLimit, rateLimitWindow)
	readLimiter := NewRateLimiter(readRateLimit, rateLimitWindow)

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(readLimiter.Wrap(s.statsHandler.HandleStats), "stats"))
	mux.HandleFunc("/match", MetricsMiddleware(matchLimiter.Wrap(s.matchHandler.HandlePostMatch), "match"))
	mux.HandleFunc("/tags", MetricsMiddleware(readLimiter.Wrap(s.tagsHandler.HandleGetTags), "tags"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(readLimiter.Wrap(s.sessionHandler.HandleSession), "sessions"))
	mux.HandleFunc("/experts/", MetricsMiddleware(readLimiter.Wrap(s.expertsHandler.HandleExpert), "experts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
