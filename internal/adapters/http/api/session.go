// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/maven/internal/domain/types"
)

// SessionDependencies defines the interface for team session operations.
type SessionDependencies interface {
	Team(ctx context.Context, sessionID string) (types.TeamView, error)
	Reassign(ctx context.Context, sessionID string, tags []string, from, to string) (types.ReassignResult, error)
}

// SessionHandler handles team session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// reassignRequest mirrors the request schema for POST /sessions/{id}/reassign.
type reassignRequest struct {
	Tags []string `json:"tags,omitempty"`
	From string   `json:"from"`
	To   string   `json:"to"`
}

func (r reassignRequest) validate() error {
	switch {
	case strings.TrimSpace(r.From) == "":
		return errors.New("missing from")
	case strings.TrimSpace(r.To) == "":
		return errors.New("missing to")
	}
	return nil
}

// HandleSession routes GET /sessions/{id} and POST /sessions/{id}/reassign.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	sessionID, rest, _ := strings.Cut(path, "/")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.handleGetTeam(w, r, sessionID)
	case rest == "reassign" && r.Method == http.MethodPost:
		h.handleReassign(w, r, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) handleGetTeam(w http.ResponseWriter, r *http.Request, sessionID string) {
	view, err := h.deps.Team(r.Context(), sessionID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) handleReassign(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req reassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.deps.Reassign(r.Context(), sessionID, req.Tags, req.From, req.To)
	if err != nil {
		switch {
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", err)
		case strings.Contains(strings.ToLower(err.Error()), "not in roster"):
			writeError(w, http.StatusBadRequest, "unknown_expert", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	// Rejections are a valid outcome, not an error: the body carries the
	// reason and the unchanged team.
	writeJSON(w, http.StatusOK, result)
}
