// Package types contains common read shapes shared between the service and
// the HTTP API.
package types

import "time"

// Score is the composite wellbeing score view.
type Score struct {
	Value  int    `json:"value"`
	Status string `json:"status"`
}

// Adjustment is the per-source audit view of one score contribution.
type Adjustment struct {
	Source string `json:"source"`
	Delta  int    `json:"delta"`
	Detail string `json:"detail"`
}

// Recommendation is one actionable suggestion, in rule-evaluation order.
type Recommendation struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// SourceStatus summarizes how one source entered an evaluation.
type SourceStatus struct {
	Source    string  `json:"source"`
	Magnitude float64 `json:"magnitude"`
	Degraded  bool    `json:"degraded"`
}

// Evaluation is the full per-user evaluation view.
type Evaluation struct {
	EvaluationID    string           `json:"evaluation_id"`
	UserID          string           `json:"user_id"`
	Score           Score            `json:"score"`
	Adjustments     []Adjustment     `json:"adjustments"`
	Recommendations []Recommendation `json:"recommendations"`
	Sources         []SourceStatus   `json:"sources"`
	EvaluatedAt     time.Time        `json:"evaluated_at"`
}

// OverviewEntry is one row of the ranked overview.
type OverviewEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"user_id"`
	Score       int       `json:"score"`
	Status      string    `json:"status"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}
