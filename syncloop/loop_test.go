package syncloop

import (
	"errors"
	"testing"
	"time"

	"github.com/framecast/framecast/frame"
	"github.com/framecast/framecast/platform"
	"github.com/framecast/framecast/player"
	"github.com/framecast/framecast/session"
	"github.com/framecast/framecast/session/sessiontest"
	"github.com/framecast/framecast/throttle"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type progress struct {
	values []float64
}

func (p *progress) SetProgress(f float64) {
	p.values = append(p.values, f)
}

type requests struct {
	frames []int
}

func (r *requests) Request(i int) {
	r.frames = append(r.frames, i)
}

type prefixResolver string

func (p prefixResolver) URL(ref string) string {
	return string(p) + ref
}

// clockedSession stamps accepted position reports with the tick time.
type clockedSession struct {
	*sessiontest.Recorder
	now      *time.Duration
	accepted []time.Duration
}

func (c *clockedSession) SetPositionState(p session.PositionState) error {
	if err := c.Recorder.SetPositionState(p); err != nil {
		return err
	}
	c.accepted = append(c.accepted, *c.now)
	return nil
}

func playing(pos, dur float64) player.Observation {
	return player.Observation{Position: pos, Duration: mo.Some(dur), Rate: 1}
}

func TestLoop(t *testing.T) {
	Convey("Given a loop on a desktop policy", t, func() {
		rec := sessiontest.NewRecorder()
		ind := &progress{}
		cache := &requests{}
		policy := throttle.Derive(platform.Profile{}, 30, throttle.DefaultTuning())

		newLoop := func(s session.Session, p throttle.Policy) *Loop {
			return New(Options{
				Policy:      p,
				FPS:         30,
				TotalFrames: 6571,
				Metadata:    session.Metadata{Title: "Bad Apple!!", Artist: "Alstroemeria Records", Album: "Traditional Remix"},
				Artwork:     session.Artwork{Sizes: "480x360", Type: "image/jpeg"},
				Session:     s,
				Indicator:   ind,
				Cache:       cache,
				Resolver:    prefixResolver("file:///frames/"),
			})
		}

		Convey("Position reports stay spaced for any tick density", func() {
			var now time.Duration
			cs := &clockedSession{Recorder: rec, now: &now}
			loop := newLoop(cs, policy)
			tok := loop.Start()

			for now = 0; now <= 5*time.Second; now += time.Millisecond {
				loop.Tick(tok, now, playing(now.Seconds(), 219))
			}

			So(len(cs.accepted), ShouldEqual, 6)
			for i := 1; i < len(cs.accepted); i++ {
				So(cs.accepted[i]-cs.accepted[i-1], ShouldBeGreaterThanOrEqualTo, policy.PositionReportInterval)
			}
		})

		Convey("Every tick with a known duration moves the indicator", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()

			loop.Tick(tok, 0, playing(0, 100))
			loop.Tick(tok, time.Millisecond, playing(50, 100))
			loop.Tick(tok, 2*time.Millisecond, playing(150, 100))

			So(ind.values, ShouldResemble, []float64{0, 0.5, 1})
		})

		Convey("Reports clamp the position into the duration", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()
			loop.Tick(tok, 0, player.Observation{Position: 250, Duration: mo.Some(219.0), Rate: 0})

			_, positions, _ := rec.Snapshot()
			So(positions, ShouldHaveLength, 1)
			So(positions[0].Position, ShouldEqual, 219.0)
			So(positions[0].PlaybackRate, ShouldEqual, 1.0)
		})

		Convey("An unchanged frame is not republished", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()

			for i := 0; i < 100; i++ {
				loop.Tick(tok, time.Duration(i)*time.Second, playing(0.01, 219))
			}

			So(rec.ArtURLs(), ShouldResemble, []string{"file:///frames/" + frame.Ref(1)})
			So(loop.Frame(), ShouldEqual, 1)
		})

		Convey("New frames publish artwork and prefetch ahead", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()

			loop.Tick(tok, 0, playing(0, 219))
			loop.Tick(tok, 100*time.Millisecond, playing(1.0, 219))

			meta, _, _ := rec.Snapshot()
			So(meta, ShouldHaveLength, 2)
			So(meta[1].ArtURL(), ShouldEqual, "file:///frames/output_0031.jpg")
			So(meta[1].Artwork[0].Sizes, ShouldEqual, "480x360")
			So(meta[1].Title, ShouldEqual, "Bad Apple!!")
			So(cache.frames, ShouldResemble, []int{2, 32})
		})

		Convey("Metadata swaps respect their interval", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()

			loop.Tick(tok, 0, playing(0, 219))
			loop.Tick(tok, time.Millisecond, playing(1.0, 219))
			So(rec.ArtURLs(), ShouldHaveLength, 1)

			loop.Tick(tok, policy.MetadataUpdateInterval, playing(1.0, 219))
			So(rec.ArtURLs(), ShouldHaveLength, 2)
		})

		Convey("The last frame prefetches nothing", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()
			loop.Tick(tok, 0, playing(6571.0/30, 6571.0/30))

			So(loop.Frame(), ShouldEqual, 6571)
			So(cache.frames, ShouldBeEmpty)
		})

		Convey("Strict policies prefetch a stride ahead", func() {
			strict := throttle.Derive(platform.Profile{TouchPrimary: true}, 30, throttle.DefaultTuning())
			loop := newLoop(rec, strict)
			tok := loop.Start()
			loop.Tick(tok, 0, playing(0, 219))

			So(cache.frames, ShouldResemble, []int{31})
		})

		Convey("Disabled metadata never publishes", func() {
			tuning := throttle.DefaultTuning()
			tuning.StrictMetadataDisabled = true
			strict := throttle.Derive(platform.Profile{TouchPrimary: true}, 30, tuning)
			loop := newLoop(rec, strict)
			tok := loop.Start()
			loop.Tick(tok, 0, playing(3, 219))

			So(rec.ArtURLs(), ShouldBeEmpty)
			_, positions, _ := rec.Snapshot()
			So(positions, ShouldHaveLength, 1)
		})

		Convey("An unknown duration skips progress and position", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()
			So(loop.Tick(tok, 0, player.Observation{Position: 1, Duration: mo.None[float64](), Rate: 1}), ShouldBeTrue)

			_, positions, _ := rec.Snapshot()
			So(positions, ShouldBeEmpty)
			So(ind.values, ShouldBeEmpty)
			So(rec.ArtURLs(), ShouldHaveLength, 1)
		})

		Convey("Rejected updates wait for the next interval", func() {
			strict := throttle.Derive(platform.Profile{TouchPrimary: true}, 30, throttle.DefaultTuning())
			loop := newLoop(rec, strict)
			tok := loop.Start()

			rec.FailMetadata(errors.New("too frequent"))
			rec.FailPosition(errors.New("too frequent"))

			step := time.Second / 60
			for i := 0; i < 60; i++ {
				now := time.Duration(i) * step
				loop.Tick(tok, now, playing(now.Seconds(), 219))
			}

			metaCalls, positionCalls := rec.Calls()
			So(metaCalls, ShouldEqual, 1)
			So(positionCalls, ShouldEqual, 1)
			So(loop.Frame(), ShouldEqual, 0)

			Convey("and the swap is retried once the interval has passed", func() {
				rec.FailMetadata(nil)
				rec.FailPosition(nil)

				loop.Tick(tok, time.Second, playing(1, 219))
				metaCalls, positionCalls = rec.Calls()
				So(metaCalls, ShouldEqual, 2)
				So(positionCalls, ShouldEqual, 1)
				So(loop.Frame(), ShouldEqual, frame.Index(1, 30, 6571))

				loop.Tick(tok, 2*time.Second, playing(2, 219))
				_, positions, _ := rec.Snapshot()
				So(positions, ShouldHaveLength, 1)
			})
		})

		Convey("A paused observation ends the run", func() {
			loop := newLoop(rec, policy)
			tok := loop.Start()
			obs := playing(1, 219)
			obs.Paused = true
			So(loop.Tick(tok, 0, obs), ShouldBeFalse)
		})

		Convey("Stale tokens do nothing", func() {
			loop := newLoop(rec, policy)
			stale := loop.Start()
			loop.Stop()
			So(loop.Current(stale), ShouldBeFalse)

			fresh := loop.Start()
			So(loop.Tick(stale, 0, playing(1, 219)), ShouldBeFalse)
			So(rec.ArtURLs(), ShouldBeEmpty)
			So(ind.values, ShouldBeEmpty)

			So(loop.Tick(fresh, 0, playing(1, 219)), ShouldBeTrue)
			So(rec.ArtURLs(), ShouldHaveLength, 1)
		})

		Convey("Prime publishes the first frame once", func() {
			loop := newLoop(rec, policy)
			loop.Prime()
			So(rec.ArtURLs(), ShouldResemble, []string{"file:///frames/output_0001.jpg"})

			tok := loop.Start()
			loop.Tick(tok, 0, playing(0, 219))
			So(rec.ArtURLs(), ShouldHaveLength, 1)
		})
	})
}
