// Package model contains domain models passed between layers.
package model

import "time"

// SourceKind identifies one external wellbeing data source.
type SourceKind string

// Known source kinds.
const (
	SourceEmail    SourceKind = "email"
	SourceCalendar SourceKind = "calendar"
	SourceActivity SourceKind = "activity"
)

// KindOrder is the canonical evaluation order of sources. Combining is
// associative, but a fixed order keeps outputs byte-identical across calls.
var KindOrder = []SourceKind{SourceEmail, SourceCalendar, SourceActivity}

// Valid reports whether k names a known source.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceEmail, SourceCalendar, SourceActivity:
		return true
	}
	return false
}

// EmailPayload is the raw shape served by the email collaborator.
// All fields are optional; nil means the upstream did not report the value.
type EmailPayload struct {
	StressLevel *float64 `json:"stress_level,omitempty"`
	UrgentCount *int     `json:"urgent_count,omitempty"`
	TotalEmails *int     `json:"total_emails,omitempty"`
	UnreadCount *int     `json:"unread_count,omitempty"`
}

// CalendarPayload is the raw shape served by the calendar collaborator.
// MeetingMinutes is the primary signal; MeetingDensity is accepted as a
// pre-computed fallback from upstreams that do not expose minutes.
type CalendarPayload struct {
	MeetingMinutes  *int     `json:"meeting_minutes,omitempty"`
	MeetingDensity  *float64 `json:"meeting_density,omitempty"`
	TotalEvents     *int     `json:"total_events,omitempty"`
	MeetingCount    *int     `json:"meeting_count,omitempty"`
	FocusTimeHours  *float64 `json:"focus_time_hours,omitempty"`
	DeclinableCount *int     `json:"declinable_count,omitempty"`
}

// ActivityPayload is the raw shape served by the activity/sleep collaborator.
type ActivityPayload struct {
	SleepDuration *float64 `json:"sleep_duration,omitempty"`
	SleepQuality  *float64 `json:"sleep_quality,omitempty"`
	DailySteps    *int     `json:"daily_steps,omitempty"`
	ActiveMinutes *int     `json:"active_minutes,omitempty"`
	StressLevel   *float64 `json:"stress_level,omitempty"`
}

// RawPayload wraps one per-source payload together with its kind and capture
// time. Exactly one of Email/Calendar/Activity is set, matching Kind.
type RawPayload struct {
	Kind       SourceKind       `json:"kind"`
	Email      *EmailPayload    `json:"email,omitempty"`
	Calendar   *CalendarPayload `json:"calendar,omitempty"`
	Activity   *ActivityPayload `json:"activity,omitempty"`
	CapturedAt time.Time        `json:"captured_at"`
}

// IntPtr returns a pointer to v. Convenience for building payload fixtures.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v. Convenience for building payload fixtures.
func FloatPtr(v float64) *float64 { return &v }
