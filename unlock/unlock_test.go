package unlock

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// scriptedTarget returns the queued play results in order, then succeeds.
type scriptedTarget struct {
	results []error
	plays   int
	mutes   []bool
	muteErr error
}

func (s *scriptedTarget) Play(context.Context) error {
	s.plays++
	if len(s.results) == 0 {
		return nil
	}
	err := s.results[0]
	s.results = s.results[1:]
	return err
}

func (s *scriptedTarget) SetMuted(m bool) error {
	s.mutes = append(s.mutes, m)
	if !m {
		return s.muteErr
	}
	return nil
}

type countingCue struct {
	fired int
	err   error
}

func (c *countingCue) Fire(context.Context) error {
	c.fired++
	return c.err
}

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func TestController(t *testing.T) {
	Convey("Given a locked controller", t, func() {
		target := &scriptedTarget{}
		cue := &countingCue{}
		opts := DefaultOptions()
		opts.After = immediate
		c := New(target, cue, opts)

		So(c.State(), ShouldEqual, Locked)

		Convey("A successful gesture starts muted then unmutes", func() {
			out := c.RequestPlay(context.Background())
			So(out.State, ShouldEqual, Unlocked)
			So(out.Err, ShouldBeNil)
			So(out.Notice, ShouldBeEmpty)
			So(target.plays, ShouldEqual, 1)
			So(target.mutes, ShouldResemble, []bool{true, false})
			So(c.State(), ShouldEqual, Unlocked)
		})

		Convey("The cue fires at most once", func() {
			c.RequestPlay(context.Background())
			c.RequestPlay(context.Background())
			c.RequestPlay(context.Background())
			So(cue.fired, ShouldEqual, 1)
			So(c.CueFired(), ShouldBeTrue)
		})

		Convey("A failing cue does not stop playback", func() {
			cue.err = errors.New("no audio device")
			So(c.RequestPlay(context.Background()).State, ShouldEqual, Unlocked)
		})

		Convey("A refused gesture gets exactly one muted retry", func() {
			target.results = []error{errors.New("not allowed")}
			out := c.RequestPlay(context.Background())

			So(target.plays, ShouldEqual, 2)
			So(out.State, ShouldEqual, MutedFallback)
			So(out.Notice, ShouldEqual, MutedNotice)
			So(out.Err, ShouldBeNil)
			So(target.mutes[len(target.mutes)-1], ShouldBeTrue)
		})

		Convey("A gesture refused even muted surfaces both errors", func() {
			first, second := errors.New("not allowed"), errors.New("still not allowed")
			target.results = []error{first, second, errors.New("never asked")}
			out := c.RequestPlay(context.Background())

			So(target.plays, ShouldEqual, 2)
			So(out.State, ShouldEqual, Locked)
			So(errors.Is(out.Err, ErrPlaybackBlocked), ShouldBeTrue)
			So(errors.Is(out.Err, first), ShouldBeTrue)
			So(errors.Is(out.Err, second), ShouldBeTrue)
			So(c.State(), ShouldEqual, Locked)

			Convey("The next gesture runs the full sequence again", func() {
				out := c.RequestPlay(context.Background())
				So(target.plays, ShouldEqual, 4)
				So(out.State, ShouldEqual, MutedFallback)
				So(cue.fired, ShouldEqual, 1)
			})
		})

		Convey("A refused unmute falls back to muted playback", func() {
			target.muteErr = errors.New("unmute refused")
			out := c.RequestPlay(context.Background())
			So(out.State, ShouldEqual, MutedFallback)
			So(out.Notice, ShouldEqual, MutedNotice)
		})

		Convey("Cancelling the unmute wait keeps playback muted", func() {
			opts.After = func(time.Duration) <-chan time.Time { return nil }
			c := New(target, nil, opts)
			ctx, cancel := context.WithCancel(context.Background())

			done := make(chan Outcome, 1)
			go func() { done <- c.RequestPlay(ctx) }()
			cancel()

			out := <-done
			So(out.State, ShouldEqual, MutedFallback)
			So(target.mutes, ShouldResemble, []bool{true})
		})

		Convey("Muted fallback is kept for later gestures", func() {
			target.results = []error{errors.New("not allowed")}
			c.RequestPlay(context.Background())

			out := c.RequestPlay(context.Background())
			So(out.State, ShouldEqual, MutedFallback)
			So(target.plays, ShouldEqual, 3)
			So(target.mutes[len(target.mutes)-1], ShouldBeTrue)
		})

		Convey("Unlocked playback that fails retries muted once", func() {
			c.RequestPlay(context.Background())
			target.results = []error{errors.New("interrupted"), errors.New("interrupted")}

			out := c.RequestPlay(context.Background())
			So(target.plays, ShouldEqual, 3)
			So(out.State, ShouldEqual, Locked)
			So(errors.Is(out.Err, ErrPlaybackBlocked), ShouldBeTrue)
		})

		Convey("Without a muted start no unmute is needed", func() {
			opts.StartMuted = false
			c := New(target, nil, opts)
			out := c.RequestPlay(context.Background())
			So(out.State, ShouldEqual, Unlocked)
			So(target.mutes, ShouldBeEmpty)
		})

		Convey("A zero delay unmutes without waiting", func() {
			opts.UnmuteDelay = 0
			opts.After = func(time.Duration) <-chan time.Time { return nil }
			c := New(target, nil, opts)
			So(c.RequestPlay(context.Background()).State, ShouldEqual, Unlocked)
		})
	})
}
