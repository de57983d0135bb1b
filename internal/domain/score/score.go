// Package score combines normalized source metrics into a bounded composite
// wellbeing score.
//
// Each present source contributes exactly one signed adjustment against a
// neutral baseline of 50; absent sources are omitted, not zeroed. Bands use
// strict < thresholds in ascending order, so a magnitude exactly on a
// boundary falls into the lower-severity band.
package score

import "github.com/halcyard/pulse/internal/domain/model"

// Scoring constants.
const (
	Baseline = 50
	MinScore = 0
	MaxScore = 100

	urgentBacklogThreshold = 3   // urgent emails beyond this add penalty
	focusBonusHours        = 3.0 // protected focus hours that earn a bonus
)

// Status labels by descending band.
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusFair      = "Fair"
	StatusPoor      = "Poor"
	StatusCritical  = "Critical"
)

// Combine folds the present metrics into a composite score and one
// adjustment per source, in input order. Degraded metrics keep their place in
// the audit trail but contribute a zero delta.
func Combine(metrics []model.SourceMetric) (model.CompositeScore, []model.ScoreAdjustment) {
	adjustments := make([]model.ScoreAdjustment, 0, len(metrics))
	total := Baseline

	for _, m := range metrics {
		adj := adjust(m)
		total += adj.Delta
		adjustments = append(adjustments, adj)
	}

	if total < MinScore {
		total = MinScore
	}
	if total > MaxScore {
		total = MaxScore
	}

	return model.CompositeScore{Value: total, Status: StatusFor(total)}, adjustments
}

// StatusFor maps a composite value onto its status band.
func StatusFor(value int) string {
	switch {
	case value >= 80:
		return StatusExcellent
	case value >= 60:
		return StatusGood
	case value >= 40:
		return StatusFair
	case value >= 20:
		return StatusPoor
	default:
		return StatusCritical
	}
}

// adjust computes the single signed adjustment for one metric.
func adjust(m model.SourceMetric) model.ScoreAdjustment {
	if m.Degraded {
		return model.ScoreAdjustment{Kind: m.Kind, Delta: 0, Detail: "degraded data"}
	}

	switch m.Kind {
	case model.SourceEmail:
		return adjustEmail(m)
	case model.SourceCalendar:
		return adjustCalendar(m)
	case model.SourceActivity:
		return adjustActivity(m)
	}
	return model.ScoreAdjustment{Kind: m.Kind, Delta: 0, Detail: "unknown source"}
}

func adjustEmail(m model.SourceMetric) model.ScoreAdjustment {
	var delta int
	var detail string
	switch {
	case m.Magnitude < 0.3:
		delta, detail = +20, "inbox calm"
	case m.Magnitude < 0.5:
		delta, detail = +10, "inbox manageable"
	case m.Magnitude < 0.7:
		delta, detail = -10, "inbox heavy"
	default:
		delta, detail = -25, "inbox overloaded"
	}

	if urgent, ok := m.Count(model.CountUrgent); ok && urgent > urgentBacklogThreshold {
		delta -= 10
		detail += ", urgent backlog"
	}
	return model.ScoreAdjustment{Kind: model.SourceEmail, Delta: delta, Detail: detail}
}

func adjustCalendar(m model.SourceMetric) model.ScoreAdjustment {
	var delta int
	var detail string
	switch {
	case m.Magnitude < 0.4:
		delta, detail = +20, "schedule light"
	case m.Magnitude < 0.6:
		delta, detail = +5, "schedule moderate"
	case m.Magnitude < 0.8:
		delta, detail = -15, "schedule packed"
	default:
		delta, detail = -30, "schedule overloaded"
	}

	if focus, ok := m.Gauge(model.GaugeFocusHours); ok && focus >= focusBonusHours {
		delta += 10
		detail += ", focus time protected"
	}
	return model.ScoreAdjustment{Kind: model.SourceCalendar, Delta: delta, Detail: detail}
}

// adjustActivity sums four sub-bandings (sleep duration, sleep quality,
// steps, stress) into one adjustment. Sub-bandings whose counter was not
// reported are skipped.
func adjustActivity(m model.SourceMetric) model.ScoreAdjustment {
	var delta int
	var details []byte

	add := func(d int, label string) {
		delta += d
		if len(details) > 0 {
			details = append(details, ", "...)
		}
		details = append(details, label...)
	}

	if duration, ok := m.Gauge(model.GaugeSleepDuration); ok {
		switch {
		case duration >= 7 && duration <= 9:
			add(+20, "sleep optimal")
		case duration >= 6:
			add(+5, "sleep adequate")
		default:
			add(-20, "sleep short")
		}
	}

	if quality, ok := m.Gauge(model.GaugeSleepQuality); ok {
		switch {
		case quality > 0.7:
			add(+10, "sleep restful")
		case quality < 0.5:
			add(-10, "sleep restless")
		}
	}

	if steps, ok := m.Count(model.CountDailySteps); ok {
		switch {
		case steps >= 8000:
			add(+10, "active")
		case steps < 3000:
			add(-10, "sedentary")
		}
	}

	if stress, ok := m.Gauge(model.GaugeStressLevel); ok && stress > 0.7 {
		add(-15, "stress elevated")
	}

	detail := string(details)
	if detail == "" {
		detail = "activity neutral"
	}
	return model.ScoreAdjustment{Kind: model.SourceActivity, Delta: delta, Detail: detail}
}
