package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/halcyard/pulse/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given an in-memory deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("When recording a new job id", func() {
			seen := d.SeenAndRecord(ctx, "alice@1700000000")

			Convey("Then it reports not seen and tracks the id", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording the same id again reports seen", func() {
				So(d.SeenAndRecord(ctx, "alice@1700000000"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording after a failed enqueue", func() {
			d.SeenAndRecord(ctx, "bob@1700000000")
			d.Unrecord(ctx, "bob@1700000000")

			Convey("Then the id can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "bob@1700000000"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown id", func() {
			d.Unrecord(ctx, "nobody")

			Convey("Then the size is unchanged", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestEviction(t *testing.T) {
	Convey("Given a deduper bounded to three ids", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		for i := 0; i < 3; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("job-%d", i))
		}

		Convey("When a fourth id arrives", func() {
			d.SeenAndRecord(ctx, "job-3")

			Convey("Then the oldest id is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "job-0"), ShouldBeFalse) // evicted, re-recordable
				So(d.SeenAndRecord(ctx, "job-3"), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given concurrent recorders of the same id", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		const goroutines = 32
		var wg sync.WaitGroup
		firstCount := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				firstCount <- !d.SeenAndRecord(ctx, "shared-job")
			}()
		}
		wg.Wait()
		close(firstCount)

		Convey("Then exactly one recorder wins", func() {
			wins := 0
			for first := range firstCount {
				if first {
					wins++
				}
			}
			So(wins, ShouldEqual, 1)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
