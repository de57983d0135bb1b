package model

import "time"

// Supporting counter keys carried on a SourceMetric. Integer counters live in
// Counts; continuous supporting values live in Gauges.
const (
	CountUrgent      = "urgent_count"
	CountTotalEmails = "total_emails"
	CountUnread      = "unread_count"
	CountMeetings    = "meeting_count"
	CountTotalEvents = "total_events"
	CountDeclinable  = "declinable_count"
	CountDailySteps  = "daily_steps"
	CountActiveMin   = "active_minutes"

	GaugeFocusHours    = "focus_time_hours"
	GaugeSleepDuration = "sleep_duration"
	GaugeSleepQuality  = "sleep_quality"
	GaugeStressLevel   = "stress_level"
)

// SourceMetric is the canonical normalized record for one source.
// Magnitude is always clamped to [0,1] before leaving the normalizer.
type SourceMetric struct {
	Kind       SourceKind         `json:"kind"`
	Magnitude  float64            `json:"magnitude"`
	Counts     map[string]int     `json:"counts"`
	Gauges     map[string]float64 `json:"gauges"`
	Degraded   bool               `json:"degraded"`
	CapturedAt time.Time          `json:"captured_at"`
}

// Count returns the named counter and whether it was reported.
func (m SourceMetric) Count(key string) (int, bool) {
	v, ok := m.Counts[key]
	return v, ok
}

// Gauge returns the named supporting value and whether it was reported.
func (m SourceMetric) Gauge(key string) (float64, bool) {
	v, ok := m.Gauges[key]
	return v, ok
}

// ScoreAdjustment is the signed contribution of one present source.
type ScoreAdjustment struct {
	Kind   SourceKind `json:"source"`
	Delta  int        `json:"delta"`
	Detail string     `json:"detail"`
}

// CompositeScore is the bounded wellbeing score plus its status band.
type CompositeScore struct {
	Value  int    `json:"value"`
	Status string `json:"status"`
}

// Priority orders recommendations by severity.
type Priority string

// Recommendation priorities, least to most severe.
const (
	PriorityInfo     Priority = "info"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Recommendation is one actionable suggestion derived from the rule table.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Category string   `json:"category"`
	Action   string   `json:"action"`
	Reason   string   `json:"reason"`
}

// Evaluation is one complete scoring pass for a user.
type Evaluation struct {
	ID              string            `json:"evaluation_id"`
	UserID          string            `json:"user_id"`
	Score           CompositeScore    `json:"score"`
	Adjustments     []ScoreAdjustment `json:"adjustments"`
	Recommendations []Recommendation  `json:"recommendations"`
	Metrics         []SourceMetric    `json:"metrics"`
	EvaluatedAt     time.Time         `json:"evaluated_at"`
}

// RefreshJob asks the pipeline to re-fetch and re-score one user.
// JobID is time-bucketed by the caller so repeat requests inside one cache
// window collapse into a single job.
type RefreshJob struct {
	JobID     string
	UserID    string
	Requested time.Time
}
