// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// TagsDependencies defines the interface for tag listing.
type TagsDependencies interface {
	AllTags(ctx context.Context) ([]string, error)
}

// TagsHandler handles roster tag listing requests.
type TagsHandler struct {
	deps TagsDependencies
}

// NewTagsHandler creates a new tags handler.
func NewTagsHandler(deps TagsDependencies) *TagsHandler {
	return &TagsHandler{deps: deps}
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// HandleGetTags handles GET /tags requests.
func (h *TagsHandler) HandleGetTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	tags, err := h.deps.AllTags(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: tags})
}
