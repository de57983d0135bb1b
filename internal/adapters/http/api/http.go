// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/halcyard/pulse/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Wellbeing computes, stores, and returns a fresh evaluation for a user.
	Wellbeing(ctx context.Context, userID string) (Evaluation, error)

	// Latest returns the most recent stored evaluation for a user.
	Latest(ctx context.Context, userID string) (Evaluation, error)

	// Overview returns the top n users by composite score.
	Overview(ctx context.Context, n int) ([]OverviewEntry, error)

	// EnqueueRefresh submits an async re-evaluation. Returns acceptance and
	// whether the request collapsed into an already-queued job.
	EnqueueRefresh(ctx context.Context, userID string) (accepted, duplicate bool)
}

// Evaluation mirrors the read shape returned by evaluation queries.
type Evaluation = types.Evaluation

// OverviewEntry mirrors the read shape returned by overview queries.
type OverviewEntry = types.OverviewEntry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	wellbeingHandler   *WellbeingHandler
	evaluationsHandler *EvaluationsHandler
	overviewHandler    *OverviewHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxOverviewLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		wellbeingHandler:   NewWellbeingHandler(deps),
		evaluationsHandler: NewEvaluationsHandler(deps),
		overviewHandler:    NewOverviewHandler(deps, maxOverviewLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/wellbeing/", MetricsMiddleware(s.wellbeingHandler.HandleGetWellbeing, "wellbeing"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(s.evaluationsHandler.HandlePostEvaluation, "evaluations"))
	mux.HandleFunc("/evaluations/", MetricsMiddleware(s.evaluationsHandler.HandleGetEvaluation, "evaluations"))
	mux.HandleFunc("/overview", MetricsMiddleware(s.overviewHandler.HandleGetOverview, "overview"))
}

// evaluationRequest is the POST /evaluations request body.
type evaluationRequest struct {
	UserID string `json:"user_id"`
}

func (e evaluationRequest) validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return errors.New("missing user_id")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
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
