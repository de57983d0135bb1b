// Package normalize converts raw per-source payloads into canonical metrics.
//
// The normalizer never fails: malformed input degrades to a zero-magnitude
// metric so that partial data from one source cannot block scoring of the
// others.
package normalize

import (
	"math"

	"github.com/halcyard/pulse/internal/domain/model"
)

// Normalization constants.
const (
	workdayMinutes = 480 // standard workday used for meeting density

	emailUrgentWeight = 0.6
	emailUnreadWeight = 0.4

	ratioPrecision = 3 // decimal places for [0,1] ratios
	hourPrecision  = 1 // decimal places for hour-denominated values
)

// Normalize produces one SourceMetric from a raw payload. A payload missing
// its required fields yields a degraded metric with magnitude 0 and empty
// supporting maps.
func Normalize(p model.RawPayload) model.SourceMetric {
	switch p.Kind {
	case model.SourceEmail:
		return normalizeEmail(p)
	case model.SourceCalendar:
		return normalizeCalendar(p)
	case model.SourceActivity:
		return normalizeActivity(p)
	}
	return degraded(p)
}

// normalizeEmail derives inbox pressure from urgent and unread ratios.
// totalEmails == 0 is a valid empty inbox, not an error.
func normalizeEmail(p model.RawPayload) model.SourceMetric {
	e := p.Email
	if e == nil || e.TotalEmails == nil || e.UrgentCount == nil || e.UnreadCount == nil {
		return degraded(p)
	}

	m := fresh(p)
	m.Counts[model.CountTotalEmails] = *e.TotalEmails
	m.Counts[model.CountUrgent] = *e.UrgentCount
	m.Counts[model.CountUnread] = *e.UnreadCount
	if e.StressLevel != nil {
		m.Gauges[model.GaugeStressLevel] = roundTo(clamp01(*e.StressLevel), ratioPrecision)
	}

	if *e.TotalEmails > 0 {
		total := float64(*e.TotalEmails)
		urgentRatio := float64(*e.UrgentCount) / total
		unreadRatio := float64(*e.UnreadCount) / total
		m.Magnitude = roundTo(clamp01(emailUrgentWeight*urgentRatio+emailUnreadWeight*unreadRatio), ratioPrecision)
	}
	return m
}

// normalizeCalendar derives meeting density against a standard workday and
// carries focus time as a supporting gauge, not part of the magnitude.
func normalizeCalendar(p model.RawPayload) model.SourceMetric {
	c := p.Calendar
	if c == nil || (c.MeetingMinutes == nil && c.MeetingDensity == nil) {
		return degraded(p)
	}

	m := fresh(p)

	var minutes float64
	switch {
	case c.MeetingMinutes != nil:
		minutes = float64(*c.MeetingMinutes)
	default:
		minutes = clamp01(*c.MeetingDensity) * workdayMinutes
	}
	m.Magnitude = roundTo(clamp01(minutes/workdayMinutes), ratioPrecision)

	focus := math.Max(0, (workdayMinutes-minutes)/60)
	if c.FocusTimeHours != nil {
		focus = math.Max(0, *c.FocusTimeHours)
	}
	m.Gauges[model.GaugeFocusHours] = roundTo(focus, hourPrecision)

	if c.MeetingCount != nil {
		m.Counts[model.CountMeetings] = *c.MeetingCount
	}
	if c.TotalEvents != nil {
		m.Counts[model.CountTotalEvents] = *c.TotalEvents
	}
	if c.DeclinableCount != nil {
		m.Counts[model.CountDeclinable] = *c.DeclinableCount
	}
	return m
}

// normalizeActivity uses inverse sleep quality as the magnitude; duration,
// steps and stress ride along for the threshold rules.
func normalizeActivity(p model.RawPayload) model.SourceMetric {
	a := p.Activity
	if a == nil || a.SleepQuality == nil {
		return degraded(p)
	}

	m := fresh(p)
	quality := roundTo(clamp01(*a.SleepQuality), ratioPrecision)
	m.Magnitude = quality
	m.Gauges[model.GaugeSleepQuality] = quality

	if a.SleepDuration != nil {
		m.Gauges[model.GaugeSleepDuration] = roundTo(math.Max(0, *a.SleepDuration), hourPrecision)
	}
	if a.StressLevel != nil {
		m.Gauges[model.GaugeStressLevel] = roundTo(clamp01(*a.StressLevel), ratioPrecision)
	}
	if a.DailySteps != nil {
		m.Counts[model.CountDailySteps] = *a.DailySteps
	}
	if a.ActiveMinutes != nil {
		m.Counts[model.CountActiveMin] = *a.ActiveMinutes
	}
	return m
}

// fresh returns an empty non-degraded metric for the payload's source.
func fresh(p model.RawPayload) model.SourceMetric {
	return model.SourceMetric{
		Kind:       p.Kind,
		Counts:     make(map[string]int),
		Gauges:     make(map[string]float64),
		CapturedAt: p.CapturedAt,
	}
}

// degraded returns the zero-magnitude fallback for malformed payloads.
func degraded(p model.RawPayload) model.SourceMetric {
	return model.SourceMetric{
		Kind:       p.Kind,
		Counts:     make(map[string]int),
		Gauges:     make(map[string]float64),
		Degraded:   true,
		CapturedAt: p.CapturedAt,
	}
}

// clamp01 bounds v to [0,1]. Out-of-range ratios are clamped, never surfaced
// as errors.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// roundTo rounds v to the given number of decimal places so fixtures stay
// reproducible across platforms.
func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
