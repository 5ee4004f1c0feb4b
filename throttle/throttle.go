// Package throttle encodes how fast it is safe to push updates into the OS media integration.
//
// Aggressive metadata churn destabilizes some mobile media-session integrations, so the safe
// frequencies live here as data instead of conditionals scattered through the sync loop.
package throttle

import (
	"time"

	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/platform"
	"github.com/spf13/viper"
)

// Tuning holds every constant the policy is derived from.
type Tuning struct {
	StrictPositionInterval time.Duration
	PositionInterval       time.Duration
	StrictMetadataInterval time.Duration
	StrictMetadataDisabled bool
	StrictPrefetchStride   int
	PrefetchStride         int
	PrefetchDepth          int
	StrictCacheCapacity    int
	CacheCapacity          int
}

// DefaultTuning returns the values the bundled sequence was tuned with.
func DefaultTuning() Tuning {
	return Tuning{
		StrictPositionInterval: 2 * time.Second,
		PositionInterval:       time.Second,
		StrictMetadataInterval: time.Second,
		StrictPrefetchStride:   30,
		PrefetchStride:         1,
		PrefetchDepth:          1,
		StrictCacheCapacity:    30,
		CacheCapacity:          150,
	}
}

// TuningFromConfig reads the tuning constants from configuration.
func TuningFromConfig() Tuning {
	ms := func(k string) time.Duration {
		return time.Duration(viper.GetInt(k)) * time.Millisecond
	}

	return Tuning{
		StrictPositionInterval: ms(key.ThrottleStrictPositionMs),
		PositionInterval:       ms(key.ThrottlePositionMs),
		StrictMetadataInterval: ms(key.ThrottleStrictMetadataMs),
		StrictMetadataDisabled: viper.GetBool(key.ThrottleStrictMetadataOff),
		StrictPrefetchStride:   viper.GetInt(key.ThrottleStrictPrefetchStride),
		PrefetchStride:         viper.GetInt(key.ThrottlePrefetchStride),
		PrefetchDepth:          viper.GetInt(key.ThrottlePrefetchDepth),
		StrictCacheCapacity:    viper.GetInt(key.ThrottleStrictCacheSize),
		CacheCapacity:          viper.GetInt(key.ThrottleCacheSize),
	}
}

// Policy is the per-session update policy. It never changes once derived.
type Policy struct {
	TargetFPS              int           `json:"target_fps"`
	PositionReportInterval time.Duration `json:"position_report_interval" jsonschema:"description=Minimum spacing between position reports in nanoseconds."`
	MetadataUpdateInterval time.Duration `json:"metadata_update_interval" jsonschema:"description=Minimum spacing between artwork swaps in nanoseconds."`
	MetadataDisabled       bool          `json:"metadata_disabled"`
	PrefetchStride         int           `json:"prefetch_stride"`
	PrefetchDepth          int           `json:"prefetch_depth"`
	CacheCapacity          int           `json:"cache_capacity"`
}

// FrameInterval is the nominal interval between frames at fps, rounded up so that
// fps frames never fit in less than a second. fps <= 0 is treated as 1.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 1
	}
	n := time.Duration(fps)
	return (time.Second + n - 1) / n
}

// Derive computes the policy for a profile and logical frame rate.
func Derive(profile platform.Profile, targetFPS int, t Tuning) Policy {
	if targetFPS <= 0 {
		targetFPS = 1
	}
	nominal := FrameInterval(targetFPS)

	p := Policy{
		TargetFPS:              targetFPS,
		PositionReportInterval: t.PositionInterval,
		MetadataUpdateInterval: nominal,
		PrefetchStride:         t.PrefetchStride,
		PrefetchDepth:          t.PrefetchDepth,
		CacheCapacity:          t.CacheCapacity,
	}

	if profile.Strict() {
		p.PositionReportInterval = t.StrictPositionInterval
		p.MetadataUpdateInterval = max(t.StrictMetadataInterval, nominal)
		p.MetadataDisabled = t.StrictMetadataDisabled
		p.PrefetchStride = t.StrictPrefetchStride
		p.CacheCapacity = t.StrictCacheCapacity
	}

	p.PositionReportInterval = max(p.PositionReportInterval, 0)
	p.PrefetchStride = max(p.PrefetchStride, 1)
	p.PrefetchDepth = max(p.PrefetchDepth, 1)
	p.CacheCapacity = max(p.CacheCapacity, 1)

	return p
}

// Due reports whether at least interval has passed between last and now.
func Due(last, now, interval time.Duration) bool {
	return now-last >= interval
}
