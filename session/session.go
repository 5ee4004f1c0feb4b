// Package session describes the operating system's "now playing" integration.
//
// A Session receives metadata (title, artist, artwork), a position state for the scrubber
// and a playback state, and delivers the user's media-key and lock-screen actions back as
// Intents. Every setter may refuse its input; callers treat refusals as non-fatal.
package session

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSeekOffset is the skip distance in seconds when an intent carries none.
const DefaultSeekOffset = 10.0

var (
	// ErrInvalidPosition is returned for position states the OS would reject.
	ErrInvalidPosition = errors.New("invalid position state")

	// ErrClosed is returned by sessions that were closed.
	ErrClosed = errors.New("session closed")
)

// Artwork is one image the OS may show for the current item.
type Artwork struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type Metadata struct {
	Title   string    `json:"title"`
	Artist  string    `json:"artist"`
	Album   string    `json:"album"`
	Artwork []Artwork `json:"artwork"`
}

// WithArtwork returns a copy of m showing only a.
func (m Metadata) WithArtwork(a Artwork) Metadata {
	m.Artwork = []Artwork{a}
	return m
}

// ArtURL returns the source of the first artwork, if any.
func (m Metadata) ArtURL() string {
	if len(m.Artwork) == 0 {
		return ""
	}
	return m.Artwork[0].Src
}

// PositionState is the scrubber shown by the OS. All values are in seconds.
type PositionState struct {
	Duration     float64 `json:"duration"`
	PlaybackRate float64 `json:"playbackRate"`
	Position     float64 `json:"position"`
}

// Validate rejects states with a non-finite or non-positive duration, a non-finite rate
// or a position outside [0, Duration].
func (p PositionState) Validate() error {
	switch {
	case math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) || p.Duration <= 0:
		return fmt.Errorf("%w: duration %v", ErrInvalidPosition, p.Duration)
	case math.IsNaN(p.PlaybackRate) || math.IsInf(p.PlaybackRate, 0) || p.PlaybackRate == 0:
		return fmt.Errorf("%w: rate %v", ErrInvalidPosition, p.PlaybackRate)
	case math.IsNaN(p.Position) || p.Position < 0 || p.Position > p.Duration:
		return fmt.Errorf("%w: position %v outside [0, %v]", ErrInvalidPosition, p.Position, p.Duration)
	}
	return nil
}

type PlaybackState int

const (
	None PlaybackState = iota
	Playing
	Paused
)

func (s PlaybackState) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// Action is a media control the user invoked from the OS.
type Action string

const (
	ActionPlay         Action = "play"
	ActionPause        Action = "pause"
	ActionToggle       Action = "toggle"
	ActionSeekTo       Action = "seekto"
	ActionSeekBackward Action = "seekbackward"
	ActionSeekForward  Action = "seekforward"
	ActionStop         Action = "stop"
)

type Intent struct {
	Action Action
	// Offset is the skip distance for relative seeks; zero means DefaultSeekOffset.
	Offset float64
	// Position is the absolute target of ActionSeekTo.
	Position float64
}

// OffsetOrDefault returns the skip distance of a relative seek.
func (i Intent) OffsetOrDefault() float64 {
	if i.Offset > 0 && !math.IsInf(i.Offset, 0) {
		return i.Offset
	}
	return DefaultSeekOffset
}

// Session is the OS media-session collaborator.
type Session interface {
	SetMetadata(Metadata) error
	SetPositionState(PositionState) error
	ClearPositionState() error
	SetPlaybackState(PlaybackState) error
	Intents() <-chan Intent
	Close() error
}
