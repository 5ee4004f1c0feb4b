// Package platform classifies the device that renders the OS media controls.
//
// The classification happens once per process; everything downstream depends only on the
// derived booleans so detection stays swappable and testable in isolation.
package platform

import (
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/framecast/framecast/constant"
	"github.com/framecast/framecast/key"
	"github.com/spf13/viper"
)

var (
	touchUA   = regexp.MustCompile(`(?i)iPhone|iPad|iPod|Android`)
	androidUA = regexp.MustCompile(`(?i)Android`)
)

// Signals are the raw environment hints the classification is computed from.
type Signals struct {
	UserAgent      string
	MaxTouchPoints int
	GOOS           string
}

// Profile is the immutable platform classification.
type Profile struct {
	// TouchPrimary reports a phone or tablet class device.
	TouchPrimary bool `json:"touch_primary" jsonschema:"description=Device is phone/tablet-class."`
	// AndroidLike reports the touch sub-class with looser media-integration constraints.
	AndroidLike bool `json:"android_like" jsonschema:"description=Touch sub-class with looser OS media-integration constraints."`
}

// Strict reports the strictest mobile integration: touch-primary but not android-like.
func (p Profile) Strict() bool {
	return p.TouchPrimary && !p.AndroidLike
}

// String names the class for logs and CLI output.
func (p Profile) String() string {
	switch {
	case p.Strict():
		return "strict-mobile"
	case p.TouchPrimary:
		return "android-mobile"
	default:
		return "desktop"
	}
}

// Detect classifies the given signals. Missing signals yield the permissive desktop profile.
func Detect(s Signals) Profile {
	goos := strings.ToLower(s.GOOS)

	// iPadOS reports a desktop Mac user agent; touch points give it away.
	touch := touchUA.MatchString(s.UserAgent) ||
		(strings.Contains(s.UserAgent, "Mac") && s.MaxTouchPoints > 1) ||
		goos == constant.Android || goos == constant.IOS

	android := androidUA.MatchString(s.UserAgent) || goos == constant.Android

	return Profile{
		TouchPrimary: touch,
		AndroidLike:  android,
	}
}

var (
	current     Profile
	currentOnce sync.Once
)

// Current returns the process-wide profile, computed on first use from configuration and runtime.GOOS.
func Current() Profile {
	currentOnce.Do(func() {
		current = Detect(FromConfig())
	})
	return current
}

// FromConfig gathers signals from configuration and the running OS.
func FromConfig() Signals {
	return Signals{
		UserAgent:      viper.GetString(key.PlatformUserAgent),
		MaxTouchPoints: viper.GetInt(key.PlatformTouchPoints),
		GOOS:           runtime.GOOS,
	}
}
