package source

import (
	"context"
	"time"

	"github.com/halcyard/pulse/internal/domain/model"
)

// Simulation bounds. Values are shaped to cover every scoring band.
const (
	simMaxEmails         = 60
	simMaxMeetingMinutes = 540 // can exceed the workday to exercise clamping
	simMaxSteps          = 14000
	simMinSleepHours     = 4.5
	simMaxSleepHours     = 9.5
)

// EmailSimulator fabricates inbox metadata in place of a mail integration.
type EmailSimulator struct {
	seed int64
	now  func() time.Time
}

// NewEmailSimulator creates an email simulator with the given seed.
func NewEmailSimulator(seed int64) *EmailSimulator {
	return &EmailSimulator{seed: seed, now: time.Now}
}

// Kind identifies which source this provider serves.
func (s *EmailSimulator) Kind() model.SourceKind { return model.SourceEmail }

// Fetch fabricates a deterministic inbox snapshot for userID.
func (s *EmailSimulator) Fetch(ctx context.Context, userID string) (model.RawPayload, error) {
	if err := ctx.Err(); err != nil {
		return model.RawPayload{}, err
	}

	rng := userRNG(s.seed, userID)
	total := rng.Intn(simMaxEmails + 1)
	urgent := 0
	unread := 0
	if total > 0 {
		urgent = rng.Intn(total + 1)
		unread = rng.Intn(total + 1)
	}

	return model.RawPayload{
		Kind: model.SourceEmail,
		Email: &model.EmailPayload{
			TotalEmails: model.IntPtr(total),
			UrgentCount: model.IntPtr(urgent),
			UnreadCount: model.IntPtr(unread),
		},
		CapturedAt: s.now().UTC(),
	}, nil
}

// CalendarSimulator fabricates meeting load in place of a calendar
// integration.
type CalendarSimulator struct {
	seed int64
	now  func() time.Time
}

// NewCalendarSimulator creates a calendar simulator with the given seed.
func NewCalendarSimulator(seed int64) *CalendarSimulator {
	return &CalendarSimulator{seed: seed, now: time.Now}
}

// Kind identifies which source this provider serves.
func (s *CalendarSimulator) Kind() model.SourceKind { return model.SourceCalendar }

// Fetch fabricates a deterministic calendar snapshot for userID.
func (s *CalendarSimulator) Fetch(ctx context.Context, userID string) (model.RawPayload, error) {
	if err := ctx.Err(); err != nil {
		return model.RawPayload{}, err
	}

	rng := userRNG(s.seed+1, userID)
	minutes := rng.Intn(simMaxMeetingMinutes + 1)
	meetings := minutes / 30
	declinable := 0
	if meetings > 0 {
		declinable = rng.Intn(meetings + 1)
	}

	return model.RawPayload{
		Kind: model.SourceCalendar,
		Calendar: &model.CalendarPayload{
			MeetingMinutes:  model.IntPtr(minutes),
			MeetingCount:    model.IntPtr(meetings),
			TotalEvents:     model.IntPtr(meetings),
			DeclinableCount: model.IntPtr(declinable),
		},
		CapturedAt: s.now().UTC(),
	}, nil
}

// ActivitySimulator fabricates sleep and movement data in place of a fitness
// integration. It is a stand-in with no deterministic upstream contract, so
// the seed is injected and the whole provider is swappable.
type ActivitySimulator struct {
	seed int64
	now  func() time.Time
}

// NewActivitySimulator creates an activity simulator with the given seed.
func NewActivitySimulator(seed int64) *ActivitySimulator {
	return &ActivitySimulator{seed: seed, now: time.Now}
}

// Kind identifies which source this provider serves.
func (s *ActivitySimulator) Kind() model.SourceKind { return model.SourceActivity }

// Fetch fabricates a deterministic activity snapshot for userID.
func (s *ActivitySimulator) Fetch(ctx context.Context, userID string) (model.RawPayload, error) {
	if err := ctx.Err(); err != nil {
		return model.RawPayload{}, err
	}

	rng := userRNG(s.seed+2, userID)
	sleep := simMinSleepHours + rng.Float64()*(simMaxSleepHours-simMinSleepHours)
	quality := rng.Float64()
	steps := rng.Intn(simMaxSteps + 1)
	stress := rng.Float64()

	return model.RawPayload{
		Kind: model.SourceActivity,
		Activity: &model.ActivityPayload{
			SleepDuration: model.FloatPtr(sleep),
			SleepQuality:  model.FloatPtr(quality),
			DailySteps:    model.IntPtr(steps),
			ActiveMinutes: model.IntPtr(steps / 200),
			StressLevel:   model.FloatPtr(stress),
		},
		CapturedAt: s.now().UTC(),
	}, nil
}
