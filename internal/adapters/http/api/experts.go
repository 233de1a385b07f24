// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// ExpertsDependencies defines the interface for expert maintenance operations.
type ExpertsDependencies interface {
	InvalidateExpert(ctx context.Context, expertID string) error
}

// ExpertsHandler handles expert maintenance requests.
type ExpertsHandler struct {
	deps ExpertsDependencies
}

// NewExpertsHandler creates a new experts handler.
func NewExpertsHandler(deps ExpertsDependencies) *ExpertsHandler {
	return &ExpertsHandler{deps: deps}
}

type invalidateResponse struct {
	Status string `json:"status"`
}

// HandleExpert routes POST /experts/{id}/invalidate.
func (h *ExpertsHandler) HandleExpert(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/experts/")
	expertID, rest, _ := strings.Cut(path, "/")
	if expertID == "" || rest != "invalidate" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := h.deps.InvalidateExpert(r.Context(), expertID); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, invalidateResponse{Status: "invalidated"})
}
