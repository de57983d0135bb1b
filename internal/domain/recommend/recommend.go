// Package recommend derives ranked, human-readable recommendations from
// normalized metrics and the composite score.
//
// Rules are evaluated in a fixed order and the output list preserves that
// order; it is deliberately not re-sorted by priority. Rules are independent
// and may co-fire. A rule whose trigger source is absent or degraded emits
// nothing.
package recommend

import (
	"fmt"

	"github.com/halcyard/pulse/internal/domain/model"
)

// Rule trigger thresholds.
const (
	emailMagnitudeTrigger    = 0.7
	calendarMagnitudeTrigger = 0.6
	shortSleepHours          = 6.0
	lowStepCount             = 5000
	lowScoreTrigger          = 40
	highScoreTrigger         = 80
)

// Evaluate runs the rule table against the metrics and score.
func Evaluate(metrics []model.SourceMetric, composite model.CompositeScore) []model.Recommendation {
	byKind := make(map[model.SourceKind]model.SourceMetric, len(metrics))
	for _, m := range metrics {
		if !m.Degraded {
			byKind[m.Kind] = m
		}
	}

	var recs []model.Recommendation

	// 1. Email pressure.
	if email, ok := byKind[model.SourceEmail]; ok && email.Magnitude > emailMagnitudeTrigger {
		recs = append(recs,
			model.Recommendation{
				Priority: model.PriorityHigh,
				Category: "email",
				Action:   "Block out two hours of uninterrupted focus time",
				Reason:   "Email pressure is high enough to fragment the whole day",
			},
			model.Recommendation{
				Priority: model.PriorityMedium,
				Category: "email",
				Action:   "Set up filters for newsletters and low-priority senders",
				Reason:   "Reducing inbox noise lowers the urgent-to-total ratio",
			},
		)
	}

	// 2. Meeting density.
	if cal, ok := byKind[model.SourceCalendar]; ok && cal.Magnitude > calendarMagnitudeTrigger {
		action := "Decline optional meetings where possible"
		if n, reported := cal.Count(model.CountDeclinable); reported && n > 0 {
			action = fmt.Sprintf("Decline %d optional meetings", n)
		}
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityHigh,
			Category: "calendar",
			Action:   action,
			Reason:   "Meetings are consuming most of the working day",
		})
	}

	// 3. Short sleep.
	activity, hasActivity := byKind[model.SourceActivity]
	if hasActivity {
		if duration, reported := activity.Gauge(model.GaugeSleepDuration); reported && duration < shortSleepHours {
			recs = append(recs,
				model.Recommendation{
					Priority: model.PriorityCritical,
					Category: "sleep",
					Action:   "Prioritize a full night of sleep tonight",
					Reason:   "Sleep duration fell below six hours",
				},
				model.Recommendation{
					Priority: model.PriorityMedium,
					Category: "sleep",
					Action:   "Reduce screen time in the hour before bed",
					Reason:   "Winding down earlier improves sleep quality",
				},
			)
		}
	}

	// 4. Low movement.
	if hasActivity {
		if steps, reported := activity.Count(model.CountDailySteps); reported && steps < lowStepCount {
			recs = append(recs, model.Recommendation{
				Priority: model.PriorityMedium,
				Category: "movement",
				Action:   "Take a twenty minute walk",
				Reason:   "Daily step count is well below target",
			})
		}
	}

	// 5. Low composite score.
	if composite.Value < lowScoreTrigger {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityCritical,
			Category: "wellbeing",
			Action:   "Schedule a self-review of this week's workload",
			Reason:   "The combined wellbeing score is in a concerning range",
		})
	}

	// 6. Positive reinforcement.
	if composite.Value >= highScoreTrigger {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityInfo,
			Category: "wellbeing",
			Action:   "Keep up the current routine",
			Reason:   "All tracked signals look healthy",
		})
	}

	return recs
}
