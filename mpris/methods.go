package mpris

import (
	"github.com/framecast/framecast/session"
	"github.com/godbus/dbus/v5"
)

// root serves org.mpris.MediaPlayer2.
type root struct {
	s *Session
}

func (r *root) Raise() *dbus.Error {
	return nil
}

func (r *root) Quit() *dbus.Error {
	r.s.send(session.Intent{Action: session.ActionStop})
	return nil
}

// player serves org.mpris.MediaPlayer2.Player.
type player struct {
	s *Session
}

func (p *player) Next() *dbus.Error {
	return nil
}

func (p *player) Previous() *dbus.Error {
	return nil
}

func (p *player) Pause() *dbus.Error {
	p.s.send(session.Intent{Action: session.ActionPause})
	return nil
}

func (p *player) Play() *dbus.Error {
	p.s.send(session.Intent{Action: session.ActionPlay})
	return nil
}

func (p *player) PlayPause() *dbus.Error {
	p.s.send(session.Intent{Action: session.ActionToggle})
	return nil
}

// Stop pauses and rewinds. Ending the program is Quit.
func (p *player) Stop() *dbus.Error {
	p.s.send(session.Intent{Action: session.ActionPause})
	p.s.send(session.Intent{Action: session.ActionSeekTo, Position: 0})
	return nil
}

// Seek moves by offset microseconds, backwards when negative.
func (p *player) Seek(offset int64) *dbus.Error {
	switch {
	case offset > 0:
		p.s.send(session.Intent{Action: session.ActionSeekForward, Offset: seconds(offset)})
	case offset < 0:
		p.s.send(session.Intent{Action: session.ActionSeekBackward, Offset: seconds(-offset)})
	}
	return nil
}

// SetPosition ignores stale track ids and negative positions.
func (p *player) SetPosition(track dbus.ObjectPath, position int64) *dbus.Error {
	if track != TrackID || position < 0 {
		return nil
	}
	p.s.send(session.Intent{Action: session.ActionSeekTo, Position: seconds(position)})
	return nil
}

func (p *player) OpenUri(string) *dbus.Error {
	return nil
}
