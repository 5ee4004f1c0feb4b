// Package sessiontest provides an in-memory session.Session for tests.
package sessiontest

import (
	"sync"

	"github.com/framecast/framecast/session"
)

// Recorder keeps every accepted call and can be told to refuse them.
type Recorder struct {
	mu sync.Mutex

	Metadata  []session.Metadata
	Positions []session.PositionState
	States    []session.PlaybackState
	Cleared   int

	// MetadataCalls and PositionCalls count every call, refused ones included.
	MetadataCalls int
	PositionCalls int

	// MetadataErr and PositionErr, when set, are returned instead of recording.
	MetadataErr error
	PositionErr error

	intents chan session.Intent
	closed  bool
}

func NewRecorder() *Recorder {
	return &Recorder{intents: make(chan session.Intent, 16)}
}

func (r *Recorder) SetMetadata(m session.Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.MetadataCalls++
	if r.MetadataErr != nil {
		return r.MetadataErr
	}
	r.Metadata = append(r.Metadata, m)
	return nil
}

func (r *Recorder) SetPositionState(p session.PositionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.PositionCalls++
	if r.PositionErr != nil {
		return r.PositionErr
	}
	if err := p.Validate(); err != nil {
		return err
	}
	r.Positions = append(r.Positions, p)
	return nil
}

func (r *Recorder) ClearPositionState() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cleared++
	return nil
}

func (r *Recorder) SetPlaybackState(s session.PlaybackState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, s)
	return nil
}

func (r *Recorder) Intents() <-chan session.Intent {
	return r.intents
}

// Send delivers an intent as if the user pressed a media control.
func (r *Recorder) Send(i session.Intent) {
	r.intents <- i
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// FailMetadata sets the error returned by SetMetadata.
func (r *Recorder) FailMetadata(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MetadataErr = err
}

// FailPosition sets the error returned by SetPositionState.
func (r *Recorder) FailPosition(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PositionErr = err
}

// Snapshot returns copies of the recorded calls.
func (r *Recorder) Snapshot() ([]session.Metadata, []session.PositionState, []session.PlaybackState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Metadata(nil), r.Metadata...),
		append([]session.PositionState(nil), r.Positions...),
		append([]session.PlaybackState(nil), r.States...)
}

// ArtURLs returns the artwork source of every accepted metadata update.
func (r *Recorder) ArtURLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	urls := make([]string, 0, len(r.Metadata))
	for _, m := range r.Metadata {
		urls = append(urls, m.ArtURL())
	}
	return urls
}

// Calls returns how often SetMetadata and SetPositionState were called.
func (r *Recorder) Calls() (metadata, position int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.MetadataCalls, r.PositionCalls
}

// LastState returns the most recent playback state.
func (r *Recorder) LastState() (session.PlaybackState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.States) == 0 {
		return session.None, false
	}
	return r.States[len(r.States)-1], true
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
