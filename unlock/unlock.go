// Package unlock gets playback started on platforms that may refuse it.
//
// The first request fires a one-shot cue, then tries to play muted and unmutes after a
// short delay. A refused attempt gets exactly one muted retry before the failure is surfaced.
package unlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/log"
	"github.com/framecast/framecast/player"
	"github.com/spf13/viper"
)

// MutedNotice is shown while playback continues muted.
const MutedNotice = "Playing muted (platform restriction)"

// ErrPlaybackBlocked wraps the errors of a request that failed even muted.
var ErrPlaybackBlocked = errors.New("playback blocked")

type State int

const (
	Locked State = iota
	Unlocking
	Unlocked
	MutedFallback
)

func (s State) String() string {
	switch s {
	case Unlocking:
		return "unlocking"
	case Unlocked:
		return "unlocked"
	case MutedFallback:
		return "muted"
	default:
		return "locked"
	}
}

// Target is the part of a player the controller drives.
type Target interface {
	Play(ctx context.Context) error
	SetMuted(muted bool) error
}

type Options struct {
	// UnmuteDelay is waited between a confirmed muted start and the unmute.
	UnmuteDelay time.Duration
	StartMuted  bool
	// After replaces time.After in tests.
	After func(time.Duration) <-chan time.Time
}

func DefaultOptions() Options {
	return Options{
		UnmuteDelay: 100 * time.Millisecond,
		StartMuted:  true,
		After:       time.After,
	}
}

func OptionsFromConfig() Options {
	opts := DefaultOptions()
	opts.UnmuteDelay = time.Duration(viper.GetInt(key.UnlockUnmuteDelayMs)) * time.Millisecond
	opts.StartMuted = viper.GetBool(key.UnlockStartMuted)
	return opts
}

// Outcome is the result of one play request.
type Outcome struct {
	State  State
	Notice string
	Err    error
}

// Controller serializes play requests. Use one per process.
type Controller struct {
	target Target
	cue    player.Cue
	opts   Options

	mu       sync.Mutex
	state    State
	cueFired bool
}

// New returns a locked controller. cue may be nil.
func New(target Target, cue player.Cue, opts Options) *Controller {
	if opts.After == nil {
		opts.After = time.After
	}
	if opts.UnmuteDelay < 0 {
		opts.UnmuteDelay = 0
	}

	return &Controller{target: target, cue: cue, opts: opts}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) CueFired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cueFired
}

// RequestPlay handles one play gesture.
func (c *Controller) RequestPlay(ctx context.Context) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fireCue(ctx)

	switch c.state {
	case Unlocked:
		err := c.target.Play(ctx)
		if err == nil {
			return Outcome{State: Unlocked}
		}
		return c.mutedRetry(ctx, err)

	case MutedFallback:
		c.mute(true)
		if err := c.target.Play(ctx); err != nil {
			return Outcome{State: MutedFallback, Notice: MutedNotice, Err: fmt.Errorf("%w: %w", ErrPlaybackBlocked, err)}
		}
		return Outcome{State: MutedFallback, Notice: MutedNotice}
	}

	c.state = Unlocking
	if c.opts.StartMuted {
		c.mute(true)
	}

	if err := c.target.Play(ctx); err != nil {
		return c.mutedRetry(ctx, err)
	}

	if !c.opts.StartMuted {
		c.state = Unlocked
		return Outcome{State: Unlocked}
	}

	if c.opts.UnmuteDelay > 0 {
		select {
		case <-ctx.Done():
			c.state = MutedFallback
			return Outcome{State: MutedFallback, Notice: MutedNotice}
		case <-c.opts.After(c.opts.UnmuteDelay):
		}
	}

	if err := c.target.SetMuted(false); err != nil {
		log.Debugf("unlock: unmute refused: %s", err)
		c.state = MutedFallback
		return Outcome{State: MutedFallback, Notice: MutedNotice}
	}

	c.state = Unlocked
	return Outcome{State: Unlocked}
}

// mutedRetry makes the single muted attempt that follows a refused one.
func (c *Controller) mutedRetry(ctx context.Context, first error) Outcome {
	log.Debugf("unlock: play refused, retrying muted: %s", first)

	c.mute(true)
	if err := c.target.Play(ctx); err != nil {
		c.state = Locked
		return Outcome{State: Locked, Err: fmt.Errorf("%w: %w", ErrPlaybackBlocked, errors.Join(first, err))}
	}

	c.state = MutedFallback
	return Outcome{State: MutedFallback, Notice: MutedNotice}
}

func (c *Controller) fireCue(ctx context.Context) {
	if c.cueFired || c.cue == nil {
		return
	}
	c.cueFired = true

	if err := c.cue.Fire(ctx); err != nil {
		log.Debugf("unlock: cue failed: %s", err)
	}
}

func (c *Controller) mute(muted bool) {
	if err := c.target.SetMuted(muted); err != nil {
		log.Debugf("unlock: set muted %t: %s", muted, err)
	}
}
