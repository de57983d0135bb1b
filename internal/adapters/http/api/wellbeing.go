// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// WellbeingDependencies defines the interface for on-demand evaluation.
type WellbeingDependencies interface {
	Wellbeing(ctx context.Context, userID string) (Evaluation, error)
}

// WellbeingHandler handles on-demand wellbeing requests.
type WellbeingHandler struct {
	deps WellbeingDependencies
}

// NewWellbeingHandler creates a new wellbeing handler.
func NewWellbeingHandler(deps WellbeingDependencies) *WellbeingHandler {
	return &WellbeingHandler{deps: deps}
}

// HandleGetWellbeing handles GET /wellbeing/{user_id} requests.
func (h *WellbeingHandler) HandleGetWellbeing(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_wellbeing"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /wellbeing/
	path := strings.TrimPrefix(r.URL.Path, "/wellbeing/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	eval, err := h.deps.Wellbeing(r.Context(), path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, eval)
}
