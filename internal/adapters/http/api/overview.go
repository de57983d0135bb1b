// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// OverviewDependencies defines the interface for overview operations.
type OverviewDependencies interface {
	Overview(ctx context.Context, n int) ([]OverviewEntry, error)
}

// OverviewHandler handles ranked overview requests.
type OverviewHandler struct {
	deps     OverviewDependencies
	maxLimit int
}

// NewOverviewHandler creates a new overview handler.
func NewOverviewHandler(deps OverviewDependencies, maxLimit int) *OverviewHandler {
	return &OverviewHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetOverview handles GET /overview?limit=N requests.
func (h *OverviewHandler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_overview"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.Overview(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
