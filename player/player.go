// Package player drives the external video player and reports what it is doing.
// The primary implementation targets mpv via its JSON-IPC interface.
package player

import (
	"context"
	"errors"
	"math"

	"github.com/samber/mo"
)

// ErrNotRunning is returned by commands issued before Load or after the player exited.
var ErrNotRunning = errors.New("player is not running")

// Observation is a snapshot of the playback element.
type Observation struct {
	// Position is the current time in seconds.
	Position float64
	// Duration is absent until the media reports a finite, positive length.
	Duration mo.Option[float64]
	Paused   bool
	Rate     float64
}

// KnownDuration returns the duration when it is finite and positive.
func (o Observation) KnownDuration() (float64, bool) {
	d, ok := o.Duration.Get()
	if !ok || math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0, false
	}
	return d, true
}

// RateOrDefault returns the playback rate, treating unusable values as 1.
func (o Observation) RateOrDefault() float64 {
	if o.Rate <= 0 || math.IsNaN(o.Rate) || math.IsInf(o.Rate, 0) {
		return 1
	}
	return o.Rate
}

type EventKind int

const (
	EventPlay EventKind = iota + 1
	EventPause
	EventError
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventError:
		return "error"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a playback transition. Err is set for EventError.
type Event struct {
	Kind EventKind
	Err  error
}

// Player encapsulates the capabilities required from a playback backend.
type Player interface {
	// Load opens target paused. Playback starts with Play.
	Load(target, title string) error

	// Play asks the backend to start playing. It fails when playback is refused.
	Play(ctx context.Context) error

	Pause() error

	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error

	SetMuted(muted bool) error

	// Observe returns the latest known state without blocking on the backend.
	Observe() Observation

	// Events delivers play, pause, error and ended transitions.
	Events() <-chan Event

	// Wait returns a channel closed when the backend process exits.
	Wait() <-chan struct{}

	Close() error
}

// Cue is a one-shot audio gesture fired before the first playback.
type Cue interface {
	Fire(ctx context.Context) error
}
