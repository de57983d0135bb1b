// Package engine is the pure aggregation and scoring core: raw per-source
// payloads in, composite score plus adjustments plus recommendations out.
//
// The engine holds no state, reads no clock, and uses no randomness, so two
// calls with identical inputs produce identical outputs and concurrent use
// needs no coordination.
package engine

import (
	"github.com/halcyard/pulse/internal/domain/model"
	"github.com/halcyard/pulse/internal/domain/normalize"
	"github.com/halcyard/pulse/internal/domain/recommend"
	"github.com/halcyard/pulse/internal/domain/score"
)

// Outcome is one complete scoring pass, before the caller stamps identity
// and time onto it.
type Outcome struct {
	Metrics         []model.SourceMetric
	Score           model.CompositeScore
	Adjustments     []model.ScoreAdjustment
	Recommendations []model.Recommendation
}

// Engine composes the normalizer, combiner, and recommendation rules.
type Engine struct{}

// New returns the scoring engine.
func New() *Engine {
	return &Engine{}
}

// Evaluate scores whatever subset of sources is present, including the empty
// subset. Payload order is preserved in the metric and adjustment lists, so
// callers that need deterministic output should pass sources in a fixed
// order (model.KindOrder).
func (e *Engine) Evaluate(payloads []model.RawPayload) Outcome {
	metrics := make([]model.SourceMetric, 0, len(payloads))
	for _, p := range payloads {
		metrics = append(metrics, normalize.Normalize(p))
	}

	composite, adjustments := score.Combine(metrics)
	recs := recommend.Evaluate(metrics, composite)

	return Outcome{
		Metrics:         metrics,
		Score:           composite,
		Adjustments:     adjustments,
		Recommendations: recs,
	}
}
