package session

import "github.com/framecast/framecast/log"

// Discard accepts everything and publishes nowhere.
// It stands in when no session bus is reachable.
type Discard struct {
	intents chan Intent
}

func NewDiscard() *Discard {
	return &Discard{intents: make(chan Intent)}
}

func (d *Discard) SetMetadata(m Metadata) error {
	log.Tracef("session: metadata %s", m.ArtURL())
	return nil
}

func (d *Discard) SetPositionState(p PositionState) error {
	if err := p.Validate(); err != nil {
		return err
	}
	log.Tracef("session: position %.2f/%.2f", p.Position, p.Duration)
	return nil
}

func (d *Discard) ClearPositionState() error {
	return nil
}

func (d *Discard) SetPlaybackState(s PlaybackState) error {
	log.Tracef("session: state %s", s)
	return nil
}

// Intents never delivers anything.
func (d *Discard) Intents() <-chan Intent {
	return d.intents
}

func (d *Discard) Close() error {
	return nil
}
