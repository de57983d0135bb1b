package normalize_test

import (
	"testing"
	"time"

	"github.com/halcyard/pulse/internal/domain/model"
	"github.com/halcyard/pulse/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeEmail(t *testing.T) {
	Convey("Given email payloads", t, func() {
		capturedAt := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

		Convey("When the inbox has urgent and unread mail", func() {
			p := model.RawPayload{
				Kind: model.SourceEmail,
				Email: &model.EmailPayload{
					UrgentCount: model.IntPtr(5),
					TotalEmails: model.IntPtr(10),
					UnreadCount: model.IntPtr(2),
				},
				CapturedAt: capturedAt,
			}

			m := normalize.Normalize(p)

			Convey("Then magnitude blends the urgent and unread ratios", func() {
				// 0.6*0.5 + 0.4*0.2 = 0.38
				So(m.Magnitude, ShouldEqual, 0.38)
				So(m.Degraded, ShouldBeFalse)
				So(m.Kind, ShouldEqual, model.SourceEmail)
				So(m.CapturedAt, ShouldEqual, capturedAt)
			})

			Convey("And supporting counts are carried through", func() {
				So(m.Counts[model.CountUrgent], ShouldEqual, 5)
				So(m.Counts[model.CountTotalEmails], ShouldEqual, 10)
				So(m.Counts[model.CountUnread], ShouldEqual, 2)
			})
		})

		Convey("When the inbox is empty", func() {
			p := model.RawPayload{
				Kind: model.SourceEmail,
				Email: &model.EmailPayload{
					UrgentCount: model.IntPtr(0),
					TotalEmails: model.IntPtr(0),
					UnreadCount: model.IntPtr(0),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then the zero-division guard yields magnitude 0", func() {
				So(m.Magnitude, ShouldEqual, 0)
				So(m.Degraded, ShouldBeFalse)
			})
		})

		Convey("When every email is urgent and unread", func() {
			p := model.RawPayload{
				Kind: model.SourceEmail,
				Email: &model.EmailPayload{
					UrgentCount: model.IntPtr(20),
					TotalEmails: model.IntPtr(20),
					UnreadCount: model.IntPtr(20),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then magnitude is exactly 1", func() {
				So(m.Magnitude, ShouldEqual, 1)
			})
		})

		Convey("When counts exceed the total due to pathological input", func() {
			p := model.RawPayload{
				Kind: model.SourceEmail,
				Email: &model.EmailPayload{
					UrgentCount: model.IntPtr(50),
					TotalEmails: model.IntPtr(10),
					UnreadCount: model.IntPtr(40),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then magnitude is clamped to 1", func() {
				So(m.Magnitude, ShouldEqual, 1)
			})
		})

		Convey("When a required field is missing", func() {
			p := model.RawPayload{
				Kind: model.SourceEmail,
				Email: &model.EmailPayload{
					UrgentCount: model.IntPtr(3),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then the metric degrades instead of failing", func() {
				So(m.Degraded, ShouldBeTrue)
				So(m.Magnitude, ShouldEqual, 0)
				So(m.Counts, ShouldBeEmpty)
				So(m.Gauges, ShouldBeEmpty)
			})
		})

		Convey("When the payload body is absent entirely", func() {
			p := model.RawPayload{Kind: model.SourceEmail}

			m := normalize.Normalize(p)

			Convey("Then the metric degrades", func() {
				So(m.Degraded, ShouldBeTrue)
			})
		})
	})
}

func TestNormalizeCalendar(t *testing.T) {
	Convey("Given calendar payloads", t, func() {
		Convey("When meeting minutes fill most of the day", func() {
			p := model.RawPayload{
				Kind: model.SourceCalendar,
				Calendar: &model.CalendarPayload{
					MeetingMinutes:  model.IntPtr(360),
					MeetingCount:    model.IntPtr(7),
					DeclinableCount: model.IntPtr(2),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then magnitude is minutes over the standard workday", func() {
				So(m.Magnitude, ShouldEqual, 0.75) // 360/480
			})

			Convey("And focus time is derived from the remainder", func() {
				So(m.Gauges[model.GaugeFocusHours], ShouldEqual, 2.0) // (480-360)/60
			})

			Convey("And counters ride along", func() {
				So(m.Counts[model.CountMeetings], ShouldEqual, 7)
				So(m.Counts[model.CountDeclinable], ShouldEqual, 2)
			})
		})

		Convey("When the day is fully booked and beyond", func() {
			p := model.RawPayload{
				Kind: model.SourceCalendar,
				Calendar: &model.CalendarPayload{
					MeetingMinutes: model.IntPtr(600),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then magnitude caps at 1 and focus floors at 0", func() {
				So(m.Magnitude, ShouldEqual, 1)
				So(m.Gauges[model.GaugeFocusHours], ShouldEqual, 0)
			})
		})

		Convey("When only a pre-computed density is reported", func() {
			p := model.RawPayload{
				Kind: model.SourceCalendar,
				Calendar: &model.CalendarPayload{
					MeetingDensity: model.FloatPtr(0.5),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then the density is used directly", func() {
				So(m.Magnitude, ShouldEqual, 0.5)
				So(m.Gauges[model.GaugeFocusHours], ShouldEqual, 4.0)
			})
		})

		Convey("When an explicit focus time is reported", func() {
			p := model.RawPayload{
				Kind: model.SourceCalendar,
				Calendar: &model.CalendarPayload{
					MeetingMinutes: model.IntPtr(360),
					FocusTimeHours: model.FloatPtr(1.0),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then it overrides the derived value", func() {
				So(m.Gauges[model.GaugeFocusHours], ShouldEqual, 1.0)
			})
		})

		Convey("When neither minutes nor density is present", func() {
			p := model.RawPayload{
				Kind:     model.SourceCalendar,
				Calendar: &model.CalendarPayload{TotalEvents: model.IntPtr(4)},
			}

			m := normalize.Normalize(p)

			Convey("Then the metric degrades", func() {
				So(m.Degraded, ShouldBeTrue)
				So(m.Counts, ShouldBeEmpty)
			})
		})
	})
}

func TestNormalizeActivity(t *testing.T) {
	Convey("Given activity payloads", t, func() {
		Convey("When a full activity report is present", func() {
			p := model.RawPayload{
				Kind: model.SourceActivity,
				Activity: &model.ActivityPayload{
					SleepDuration: model.FloatPtr(7.5),
					SleepQuality:  model.FloatPtr(0.82),
					DailySteps:    model.IntPtr(9200),
					ActiveMinutes: model.IntPtr(45),
					StressLevel:   model.FloatPtr(0.3),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then magnitude is the sleep quality itself", func() {
				So(m.Magnitude, ShouldEqual, 0.82)
			})

			Convey("And supporting values are rounded to documented precision", func() {
				So(m.Gauges[model.GaugeSleepDuration], ShouldEqual, 7.5)
				So(m.Gauges[model.GaugeSleepQuality], ShouldEqual, 0.82)
				So(m.Gauges[model.GaugeStressLevel], ShouldEqual, 0.3)
				So(m.Counts[model.CountDailySteps], ShouldEqual, 9200)
				So(m.Counts[model.CountActiveMin], ShouldEqual, 45)
			})
		})

		Convey("When sleep quality is out of range", func() {
			p := model.RawPayload{
				Kind: model.SourceActivity,
				Activity: &model.ActivityPayload{
					SleepQuality: model.FloatPtr(1.4),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then it is clamped to 1", func() {
				So(m.Magnitude, ShouldEqual, 1)
			})
		})

		Convey("When sleep quality is missing", func() {
			p := model.RawPayload{
				Kind: model.SourceActivity,
				Activity: &model.ActivityPayload{
					DailySteps: model.IntPtr(4000),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then the metric degrades", func() {
				So(m.Degraded, ShouldBeTrue)
				So(m.Magnitude, ShouldEqual, 0)
			})
		})

		Convey("When duration has sub-decimal noise", func() {
			p := model.RawPayload{
				Kind: model.SourceActivity,
				Activity: &model.ActivityPayload{
					SleepDuration: model.FloatPtr(6.4499),
					SleepQuality:  model.FloatPtr(0.6),
				},
			}

			m := normalize.Normalize(p)

			Convey("Then duration is rounded to one decimal place", func() {
				So(m.Gauges[model.GaugeSleepDuration], ShouldEqual, 6.4)
			})
		})
	})
}

func TestNormalizeUnknownKind(t *testing.T) {
	Convey("Given a payload with an unknown kind", t, func() {
		p := model.RawPayload{Kind: model.SourceKind("wearable")}

		m := normalize.Normalize(p)

		Convey("Then it degrades rather than failing", func() {
			So(m.Degraded, ShouldBeTrue)
			So(m.Magnitude, ShouldEqual, 0)
		})
	})
}
