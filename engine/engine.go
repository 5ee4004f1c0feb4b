// Package engine owns playback. A single goroutine consumes player events, OS intents,
// UI commands and sync ticks, so there is exactly one authoritative play/pause state.
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/framecast/framecast/log"
	"github.com/framecast/framecast/player"
	"github.com/framecast/framecast/session"
	"github.com/framecast/framecast/syncloop"
	"github.com/framecast/framecast/unlock"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// refreshInterval paces status updates while no sync loop is running.
const refreshInterval = 250 * time.Millisecond

// Unlocker starts playback on behalf of a user gesture.
type Unlocker interface {
	RequestPlay(ctx context.Context) unlock.Outcome
	State() unlock.State
}

type Options struct {
	Player  player.Player
	Session session.Session
	// Sync configures the loop; its Session and Indicator are filled in by New.
	Sync      syncloop.Options
	Unlock    Unlocker
	Scheduler syncloop.Scheduler
	Clock     syncloop.Clock
	// Autoplay requests playback as soon as Run starts.
	Autoplay bool
}

// Status is what the presentation layer shows.
type Status struct {
	Progress mo.Option[float64]
	Position float64
	Duration mo.Option[float64]
	Playing  bool
	Frame    int
	Unlock   unlock.State
	// Message is a transient error, cleared by the next play gesture.
	Message string
	// Notice persists, e.g. while playback continues muted.
	Notice string
}

type tickMsg struct {
	tok syncloop.Token
}

type intentMsg struct {
	intent session.Intent
	// gesture marks intents that come from this program's own UI.
	gesture bool
}

type fractionMsg struct {
	fraction float64
}

type unlockMsg struct {
	outcome unlock.Outcome
}

type Engine struct {
	opts Options
	loop *syncloop.Loop
	log  *logrus.Entry

	msgs   chan any
	status chan Status
	done   chan struct{}

	// owned by the Run goroutine
	playing    bool
	unlocking  bool
	cancelTick func()
	cur        Status

	wg sync.WaitGroup
}

func New(opts Options) *Engine {
	if opts.Scheduler == nil {
		opts.Scheduler = syncloop.NewFrameScheduler(syncloop.DefaultTickHz)
	}
	if opts.Clock == nil {
		opts.Clock = syncloop.NewMonotonicClock()
	}

	e := &Engine{
		opts:   opts,
		log:    log.Component("engine"),
		msgs:   make(chan any, 16),
		status: make(chan Status, 1),
		done:   make(chan struct{}),
	}

	loopOpts := opts.Sync
	loopOpts.Session = opts.Session
	loopOpts.Indicator = e
	e.loop = syncloop.New(loopOpts)
	e.cur.Unlock = opts.Unlock.State()

	return e
}

// Status delivers the latest status. Older values are dropped when the reader is slow.
func (e *Engine) Status() <-chan Status {
	return e.status
}

// SetProgress implements syncloop.Indicator. It runs on the Run goroutine.
func (e *Engine) SetProgress(fraction float64) {
	e.cur.Progress = mo.Some(fraction)
}

// Toggle plays or pauses, as the space key does.
func (e *Engine) Toggle() {
	e.post(intentMsg{intent: session.Intent{Action: session.ActionToggle}, gesture: true})
}

// SeekBy moves relative to the current position, backwards when delta is negative.
func (e *Engine) SeekBy(delta float64) {
	action := session.ActionSeekForward
	if delta < 0 {
		action, delta = session.ActionSeekBackward, -delta
	}
	e.post(intentMsg{intent: session.Intent{Action: action, Offset: delta}, gesture: true})
}

// SeekFraction moves to the given fraction of the duration, as a click on the progress bar does.
func (e *Engine) SeekFraction(f float64) {
	e.post(fractionMsg{fraction: f})
}

// Quit stops playback and ends Run.
func (e *Engine) Quit() {
	e.post(intentMsg{intent: session.Intent{Action: session.ActionStop}, gesture: true})
}

func (e *Engine) post(m any) {
	select {
	case e.msgs <- m:
	case <-e.done:
	}
}

// Run processes messages until ctx ends, the player exits or a stop is requested.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		close(e.done)
		e.stopTicking()
		e.wg.Wait()
	}()

	refresh := time.NewTicker(refreshInterval)
	defer refresh.Stop()

	e.loop.Prime()
	e.setPlaybackState(session.Paused)
	e.refresh()

	if e.opts.Autoplay {
		e.requestPlay(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-e.opts.Player.Wait():
			e.log.Info("player exited")
			e.shutdown()
			return nil

		case ev := <-e.opts.Player.Events():
			e.handleEvent(ev)

		case in := <-e.opts.Session.Intents():
			if !e.handleIntent(ctx, in, false) {
				return nil
			}

		case m := <-e.msgs:
			if !e.handleMessage(ctx, m) {
				return nil
			}

		case <-refresh.C:
			if !e.playing {
				e.refresh()
			}
		}
	}
}

func (e *Engine) handleMessage(ctx context.Context, m any) bool {
	switch m := m.(type) {
	case tickMsg:
		e.tick(m.tok)
	case intentMsg:
		return e.handleIntent(ctx, m.intent, m.gesture)
	case fractionMsg:
		obs := e.opts.Player.Observe()
		if dur, ok := obs.KnownDuration(); ok {
			target, _ := PositionAt(m.fraction, dur)
			e.seek(target)
		}
	case unlockMsg:
		e.unlocking = false
		e.cur.Unlock = m.outcome.State
		if m.outcome.Notice != "" {
			e.cur.Notice = m.outcome.Notice
		}
		if m.outcome.Err != nil {
			e.cur.Message = "Error: " + m.outcome.Err.Error()
		}
		e.refresh()
	}
	return true
}

func (e *Engine) handleEvent(ev player.Event) {
	e.log.Debugf("player event: %s", ev.Kind)

	switch ev.Kind {
	case player.EventPlay:
		e.playing = true
		e.setPlaybackState(session.Playing)
		e.stopTicking()
		e.schedule(e.loop.Start())

	case player.EventPause, player.EventEnded:
		e.playing = false
		e.loop.Stop()
		e.stopTicking()
		e.setPlaybackState(session.Paused)

	case player.EventError:
		e.playing = false
		e.loop.Stop()
		e.stopTicking()
		e.setPlaybackState(session.Paused)
		if ev.Err != nil {
			e.cur.Message = "Playback Error: " + ev.Err.Error()
		}
	}

	e.refresh()
}

// handleIntent applies an intent. It returns false when Run should end.
func (e *Engine) handleIntent(ctx context.Context, in session.Intent, gesture bool) bool {
	obs := e.opts.Player.Observe()

	switch in.Action {
	case session.ActionPlay:
		e.requestPlay(ctx)
	case session.ActionPause:
		e.pause()
	case session.ActionToggle:
		if gesture {
			e.cur.Message = ""
		}
		if obs.Paused {
			e.requestPlay(ctx)
		} else {
			e.pause()
		}
	case session.ActionSeekBackward:
		e.seek(math.Max(obs.Position-in.OffsetOrDefault(), 0))
	case session.ActionSeekForward:
		target := obs.Position + in.OffsetOrDefault()
		if dur, ok := obs.KnownDuration(); ok {
			target = math.Min(target, dur)
		}
		e.seek(target)
	case session.ActionSeekTo:
		target := math.Max(in.Position, 0)
		if dur, ok := obs.KnownDuration(); ok {
			target = math.Min(target, dur)
		}
		e.seek(target)
	case session.ActionStop:
		e.pause()
		e.shutdown()
		return false
	}

	e.refresh()
	return true
}

func (e *Engine) requestPlay(ctx context.Context) {
	if e.unlocking {
		return
	}
	e.unlocking = true
	e.cur.Unlock = unlock.Unlocking

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.post(unlockMsg{outcome: e.opts.Unlock.RequestPlay(ctx)})
	}()
}

func (e *Engine) pause() {
	if err := e.opts.Player.Pause(); err != nil {
		e.log.Warnf("pause: %s", err)
	}
}

func (e *Engine) seek(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	if err := e.opts.Player.Seek(seconds); err != nil {
		e.log.Warnf("seek to %.2f: %s", seconds, err)
		return
	}
	e.reportSeek(seconds)
}

// reportSeek publishes the new position at once. No ticks run while paused.
func (e *Engine) reportSeek(seconds float64) {
	obs := e.opts.Player.Observe()
	dur, ok := obs.KnownDuration()
	if !ok {
		return
	}

	state := session.PositionState{
		Duration:     dur,
		PlaybackRate: obs.RateOrDefault(),
		Position:     math.Max(0, math.Min(seconds, dur)),
	}
	if err := e.opts.Session.SetPositionState(state); err != nil {
		e.log.Debugf("position after seek rejected: %s", err)
	}
}

func (e *Engine) schedule(tok syncloop.Token) {
	e.cancelTick = e.opts.Scheduler.Schedule(func() {
		e.post(tickMsg{tok: tok})
	})
}

func (e *Engine) stopTicking() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}

func (e *Engine) tick(tok syncloop.Token) {
	if !e.loop.Current(tok) {
		return
	}
	e.cancelTick = nil

	if e.loop.Tick(tok, e.opts.Clock.Now(), e.opts.Player.Observe()) {
		e.schedule(tok)
	}
	e.refresh()
}

func (e *Engine) setPlaybackState(s session.PlaybackState) {
	if err := e.opts.Session.SetPlaybackState(s); err != nil {
		e.log.Debugf("playback state rejected: %s", err)
	}
}

func (e *Engine) shutdown() {
	e.playing = false
	e.loop.Stop()
	e.stopTicking()
	e.setPlaybackState(session.None)
	if err := e.opts.Session.ClearPositionState(); err != nil {
		e.log.Debugf("clear position: %s", err)
	}
}

// refresh publishes the current status, replacing any unread one.
func (e *Engine) refresh() {
	obs := e.opts.Player.Observe()

	e.cur.Playing = e.playing
	e.cur.Duration = obs.Duration
	e.cur.Frame = e.loop.Frame()
	e.cur.Position = obs.Position
	if dur, ok := obs.KnownDuration(); ok {
		f, _ := ProgressFraction(obs.Position, dur)
		e.cur.Progress = mo.Some(f)
	}

	s := e.cur
	select {
	case e.status <- s:
		return
	default:
	}

	select {
	case <-e.status:
	default:
	}

	select {
	case e.status <- s:
	default:
	}
}

// ProgressFraction is pos/dur clamped to [0, 1]. It fails for unusable durations.
func ProgressFraction(pos, dur float64) (float64, bool) {
	if math.IsNaN(dur) || math.IsInf(dur, 0) || dur <= 0 {
		return 0, false
	}
	if math.IsNaN(pos) {
		return 0, true
	}
	return math.Max(0, math.Min(pos/dur, 1)), true
}

// PositionAt maps a fraction of the progress bar onto [0, dur].
func PositionAt(f, dur float64) (float64, bool) {
	if math.IsNaN(dur) || math.IsInf(dur, 0) || dur <= 0 {
		return 0, false
	}
	if math.IsNaN(f) {
		f = 0
	}
	return math.Max(0, math.Min(f, 1)) * dur, true
}
