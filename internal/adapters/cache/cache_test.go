package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/halcyard/pulse/internal/adapters/cache"
	"github.com/halcyard/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory response cache with a stepped clock", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		store := cache.NewMemoryStore(
			cache.WithTTL(2*time.Minute),
			cache.WithClock(clock),
		)

		payload := model.RawPayload{
			Kind:  model.SourceEmail,
			Email: &model.EmailPayload{TotalEmails: model.IntPtr(12)},
		}
		key := cache.Key("alice", model.SourceEmail, now)

		Convey("When a payload is stored", func() {
			store.Set(ctx, key, payload)

			Convey("Then it is served back inside the TTL", func() {
				got, ok := store.Get(ctx, key)
				So(ok, ShouldBeTrue)
				So(got.Kind, ShouldEqual, model.SourceEmail)
				So(*got.Email.TotalEmails, ShouldEqual, 12)
			})

			Convey("And it expires after the TTL elapses", func() {
				now = now.Add(2*time.Minute + time.Second)

				_, ok := store.Get(ctx, key)
				So(ok, ShouldBeFalse)
				So(store.Len(), ShouldEqual, 0) // lazily evicted on read
			})

			Convey("And a refresh restarts the clock", func() {
				now = now.Add(90 * time.Second)
				store.Set(ctx, key, payload)
				now = now.Add(90 * time.Second)

				_, ok := store.Get(ctx, key)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When reading a key that was never stored", func() {
			_, ok := store.Get(ctx, "nobody|email|2025-06-02")

			Convey("Then it misses", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given the cache key builder", t, func() {
		at := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)

		Convey("Then keys bucket by user, source and UTC date", func() {
			So(cache.Key("alice", model.SourceCalendar, at), ShouldEqual, "alice|calendar|2025-06-02")
		})

		Convey("Then different sources for one user do not collide", func() {
			a := cache.Key("alice", model.SourceEmail, at)
			b := cache.Key("alice", model.SourceActivity, at)
			So(a, ShouldNotEqual, b)
		})

		Convey("Then local times fold into the UTC bucket", func() {
			east := at.In(time.FixedZone("UTC+3", 3*3600))
			So(cache.Key("alice", model.SourceEmail, east), ShouldEqual, cache.Key("alice", model.SourceEmail, at))
		})
	})
}
