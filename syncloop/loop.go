// Package syncloop keeps the OS media session in step with the video, one tick at a time.
package syncloop

import (
	"math"
	"time"

	"github.com/framecast/framecast/frame"
	"github.com/framecast/framecast/log"
	"github.com/framecast/framecast/player"
	"github.com/framecast/framecast/session"
	"github.com/framecast/framecast/throttle"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// Indicator receives the playback progress in [0, 1] on every tick.
type Indicator interface {
	SetProgress(fraction float64)
}

// Prefetcher accepts frame indices that will soon be shown.
type Prefetcher interface {
	Request(i int)
}

// Resolver maps an artwork reference to the URL published to the OS.
type Resolver interface {
	URL(ref string) string
}

type Options struct {
	Policy      throttle.Policy
	FPS         int
	TotalFrames int

	// Metadata holds the static fields; its artwork is replaced on every swap.
	Metadata session.Metadata
	// Artwork carries the declared size and type of every frame image.
	Artwork session.Artwork

	Session   session.Session
	Indicator Indicator
	Cache     Prefetcher
	Resolver  Resolver
}

// Token identifies one playback run. Ticks carrying an older token are ignored.
type Token uint64

// Loop is owned by a single goroutine and is not safe for concurrent use.
type Loop struct {
	opts Options
	log  *logrus.Entry

	generation         Token
	lastPositionReport mo.Option[time.Duration]
	lastMetadataUpdate mo.Option[time.Duration]
	lastRef            string
	lastFrame          int
}

func New(opts Options) *Loop {
	opts.FPS = max(opts.FPS, 1)
	opts.TotalFrames = max(opts.TotalFrames, 1)

	return &Loop{
		opts: opts,
		log:  log.Component("syncloop"),
	}
}

// Start begins a new run and returns its token.
func (l *Loop) Start() Token {
	l.generation++
	return l.generation
}

// Stop invalidates every tick scheduled so far.
func (l *Loop) Stop() {
	l.generation++
}

// Current reports whether tok belongs to the active run.
func (l *Loop) Current(tok Token) bool {
	return tok == l.generation
}

// Frame returns the index of the last published frame, 0 before any publish.
func (l *Loop) Frame() int {
	return l.lastFrame
}

// Prime publishes the first frame so the OS shows artwork before playback starts.
func (l *Loop) Prime() {
	l.publish(1, frame.Ref(1))
}

// Tick advances the loop for tok at the monotonic time now.
// It reports whether another tick should be scheduled.
func (l *Loop) Tick(tok Token, now time.Duration, obs player.Observation) bool {
	if !l.Current(tok) {
		return false
	}

	duration, known := obs.KnownDuration()
	if known && l.opts.Indicator != nil {
		l.opts.Indicator.SetProgress(clamp(obs.Position/duration, 0, 1))
	}

	if known && due(l.lastPositionReport, now, l.opts.Policy.PositionReportInterval) {
		l.reportPosition(now, obs, duration)
	}

	if !l.opts.Policy.MetadataDisabled && due(l.lastMetadataUpdate, now, l.opts.Policy.MetadataUpdateInterval) {
		l.updateMetadata(now, obs)
	}

	return !obs.Paused
}

func (l *Loop) reportPosition(now time.Duration, obs player.Observation, duration float64) {
	state := session.PositionState{
		Duration:     duration,
		PlaybackRate: obs.RateOrDefault(),
		Position:     clamp(obs.Position, 0, duration),
	}

	// A rejected report waits for the next interval like an accepted one.
	l.lastPositionReport = mo.Some(now)
	if err := l.opts.Session.SetPositionState(state); err != nil {
		l.log.Debugf("position report rejected: %s", err)
	}
}

func (l *Loop) updateMetadata(now time.Duration, obs player.Observation) {
	current := frame.Index(obs.Position, l.opts.FPS, l.opts.TotalFrames)
	ref := frame.Ref(current)
	if ref == l.lastRef {
		return
	}

	// lastRef only moves on success, so the next due tick retries the swap.
	l.lastMetadataUpdate = mo.Some(now)
	if !l.publish(current, ref) {
		return
	}

	if l.opts.Cache == nil {
		return
	}
	for k := 1; k <= l.opts.Policy.PrefetchDepth; k++ {
		next := current + k*l.opts.Policy.PrefetchStride
		if !frame.InRange(next, l.opts.TotalFrames) {
			break
		}
		l.opts.Cache.Request(next)
	}
}

func (l *Loop) publish(i int, ref string) bool {
	art := l.opts.Artwork
	art.Src = ref
	if l.opts.Resolver != nil {
		art.Src = l.opts.Resolver.URL(ref)
	}

	if err := l.opts.Session.SetMetadata(l.opts.Metadata.WithArtwork(art)); err != nil {
		l.log.Debugf("metadata for %s rejected: %s", ref, err)
		return false
	}

	l.lastRef = ref
	l.lastFrame = i
	return true
}

func due(last mo.Option[time.Duration], now, interval time.Duration) bool {
	at, ok := last.Get()
	return !ok || throttle.Due(at, now, interval)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
