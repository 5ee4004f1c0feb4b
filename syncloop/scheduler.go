package syncloop

import (
	"sync"
	"time"

	"github.com/framecast/framecast/key"
	"github.com/spf13/viper"
)

// Scheduler runs fn once, at the next display frame. The returned func cancels it.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// DefaultTickHz is used when no tick rate is configured.
const DefaultTickHz = 60

// FrameScheduler fires callbacks a fixed frame period after scheduling.
type FrameScheduler struct {
	period time.Duration
}

func NewFrameScheduler(hz int) *FrameScheduler {
	if hz <= 0 {
		hz = DefaultTickHz
	}
	return &FrameScheduler{period: time.Second / time.Duration(hz)}
}

// FrameSchedulerFromConfig uses the configured tick rate.
func FrameSchedulerFromConfig() *FrameScheduler {
	return NewFrameScheduler(viper.GetInt(key.PlayerTickHz))
}

func (s *FrameScheduler) Period() time.Duration {
	return s.period
}

func (s *FrameScheduler) Schedule(fn func()) func() {
	t := time.AfterFunc(s.period, fn)
	var once sync.Once
	return func() {
		once.Do(func() { t.Stop() })
	}
}

// Clock returns monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock measures time since it was created.
type MonotonicClock struct {
	origin time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{origin: time.Now()}
}

func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.origin)
}
