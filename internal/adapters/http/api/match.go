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

// Maximum accepted problem statement length in bytes.
const maxProblemLength = 8192

// MatchDependencies defines the interface for match operations.
type MatchDependencies interface {
	Match(ctx context.Context, problem string) (types.MatchResult, error)
}

// MatchHandler handles problem matching requests.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// matchRequest mirrors the request schema for POST /match.
type matchRequest struct {
	Problem string `json:"problem_statement"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.Problem) == "":
		return errors.New("missing problem")
	case len(m.Problem) > maxProblemLength:
		return errors.New("problem too long")
	}
	return nil
}

// HandlePostMatch handles POST /match requests.
func (h *MatchHandler) HandlePostMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.deps.Match(r.Context(), req.Problem)
	if err != nil {
		writeError(w, http.StatusBadGateway, "extraction_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
