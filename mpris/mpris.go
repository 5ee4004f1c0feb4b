// Package mpris publishes the now-playing state on the D-Bus session bus using the
// MPRIS 2 interfaces, so desktop media controls show the current frame and a live scrubber.
package mpris

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/framecast/framecast/constant"
	"github.com/framecast/framecast/log"
	"github.com/framecast/framecast/session"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	BusName     = "org.mpris.MediaPlayer2." + constant.Framecast
	ObjectPath  = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	RootIface   = "org.mpris.MediaPlayer2"
	PlayerIface = "org.mpris.MediaPlayer2.Player"

	// TrackID identifies the single item ever played.
	TrackID = dbus.ObjectPath("/org/mpris/MediaPlayer2/" + constant.Framecast + "/track/0")
)

// ErrNameTaken is returned when another process already owns BusName.
var ErrNameTaken = errors.New("mpris: bus name already taken")

// properties is the part of *prop.Properties the session writes through.
type properties interface {
	SetMust(iface, property string, v interface{})
}

// emitter is the part of *dbus.Conn used for signals.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// Session implements session.Session over MPRIS.
type Session struct {
	conn    *dbus.Conn
	props   properties
	signals emitter
	intents chan session.Intent

	mu       sync.Mutex
	meta     session.Metadata
	length   int64
	seeking  bool
	closed   bool
	ownsConn bool
}

// Connect opens the session bus and publishes the player on it.
func Connect() (*Session, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("mpris: connect session bus: %w", err)
	}

	s, err := New(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	s.ownsConn = true
	return s, nil
}

// New exports the MPRIS objects on conn and claims BusName.
func New(conn *dbus.Conn) (*Session, error) {
	s := newSession(nil, conn)
	s.conn = conn

	root := &root{s: s}
	player := &player{s: s}

	if err := conn.Export(root, ObjectPath, RootIface); err != nil {
		return nil, fmt.Errorf("mpris: export root: %w", err)
	}
	if err := conn.Export(player, ObjectPath, PlayerIface); err != nil {
		return nil, fmt.Errorf("mpris: export player: %w", err)
	}

	props, err := prop.Export(conn, ObjectPath, propertyMap())
	if err != nil {
		return nil, fmt.Errorf("mpris: export properties: %w", err)
	}
	s.props = props

	node := &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       RootIface,
				Methods:    introspect.Methods(root),
				Properties: props.Introspection(RootIface),
			},
			{
				Name:       PlayerIface,
				Methods:    introspect.Methods(player),
				Properties: props.Introspection(PlayerIface),
				Signals: []introspect.Signal{{
					Name: "Seeked",
					Args: []introspect.Arg{{Name: "Position", Type: "x"}},
				}},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("mpris: export introspection: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("mpris: request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, ErrNameTaken
	}

	log.Infof("mpris: published as %s", BusName)
	return s, nil
}

func newSession(props properties, signals emitter) *Session {
	return &Session{
		props:   props,
		signals: signals,
		intents: make(chan session.Intent, 8),
	}
}

// Rate bounds follow the speeds mpv accepts.
const (
	MinimumRate = 0.01
	MaximumRate = 100.0
)

func propertyMap() prop.Map {
	return prop.Map{
		RootIface: {
			"CanQuit":             {Value: true, Emit: prop.EmitConst},
			"CanRaise":            {Value: false, Emit: prop.EmitConst},
			"HasTrackList":        {Value: false, Emit: prop.EmitConst},
			"Identity":            {Value: constant.Framecast, Emit: prop.EmitConst},
			"SupportedUriSchemes": {Value: []string{}, Emit: prop.EmitConst},
			"SupportedMimeTypes":  {Value: []string{}, Emit: prop.EmitConst},
		},
		PlayerIface: {
			"PlaybackStatus": {Value: session.None.String(), Emit: prop.EmitTrue},
			"Rate":           {Value: 1.0, Emit: prop.EmitTrue},
			"Metadata":       {Value: map[string]dbus.Variant{"mpris:trackid": dbus.MakeVariant(TrackID)}, Emit: prop.EmitTrue},
			"Volume":         {Value: 1.0, Emit: prop.EmitTrue},
			"Position":       {Value: int64(0), Emit: prop.EmitFalse},
			"MinimumRate":    {Value: MinimumRate, Emit: prop.EmitConst},
			"MaximumRate":    {Value: MaximumRate, Emit: prop.EmitConst},
			"CanGoNext":      {Value: false, Emit: prop.EmitConst},
			"CanGoPrevious":  {Value: false, Emit: prop.EmitConst},
			"CanPlay":        {Value: true, Emit: prop.EmitConst},
			"CanPause":       {Value: true, Emit: prop.EmitConst},
			"CanSeek":        {Value: true, Emit: prop.EmitConst},
			"CanControl":     {Value: true, Emit: prop.EmitConst},
		},
	}
}

// micros converts seconds to the microseconds MPRIS speaks.
func micros(seconds float64) int64 {
	return int64(math.Round(seconds * 1e6))
}

func seconds(us int64) float64 {
	return float64(us) / 1e6
}

// metadataMap renders m as MPRIS metadata. A non-positive length is omitted.
func metadataMap(m session.Metadata, length int64) map[string]dbus.Variant {
	out := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(TrackID),
	}
	if length > 0 {
		out["mpris:length"] = dbus.MakeVariant(length)
	}
	if m.Title != "" {
		out["xesam:title"] = dbus.MakeVariant(m.Title)
	}
	if m.Artist != "" {
		out["xesam:artist"] = dbus.MakeVariant([]string{m.Artist})
	}
	if m.Album != "" {
		out["xesam:album"] = dbus.MakeVariant(m.Album)
	}
	if art := m.ArtURL(); art != "" {
		out["mpris:artUrl"] = dbus.MakeVariant(art)
	}
	return out
}

func (s *Session) SetMetadata(m session.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return session.ErrClosed
	}

	s.meta = m
	s.props.SetMust(PlayerIface, "Metadata", metadataMap(m, s.length))
	return nil
}

func (s *Session) SetPositionState(p session.PositionState) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return session.ErrClosed
	}

	if length := micros(p.Duration); length != s.length {
		s.length = length
		s.props.SetMust(PlayerIface, "Metadata", metadataMap(s.meta, s.length))
	}

	position := micros(p.Position)
	s.props.SetMust(PlayerIface, "Rate", math.Max(MinimumRate, math.Min(p.PlaybackRate, MaximumRate)))
	s.props.SetMust(PlayerIface, "Position", position)

	if s.seeking {
		s.seeking = false
		if err := s.signals.Emit(ObjectPath, PlayerIface+".Seeked", position); err != nil {
			log.Debugf("mpris: emit Seeked: %s", err)
		}
	}
	return nil
}

func (s *Session) ClearPositionState() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return session.ErrClosed
	}

	s.length = 0
	s.seeking = false
	s.props.SetMust(PlayerIface, "Position", int64(0))
	s.props.SetMust(PlayerIface, "Metadata", metadataMap(s.meta, 0))
	return nil
}

func (s *Session) SetPlaybackState(state session.PlaybackState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return session.ErrClosed
	}

	s.props.SetMust(PlayerIface, "PlaybackStatus", state.String())
	return nil
}

func (s *Session) Intents() <-chan session.Intent {
	return s.intents
}

// Close releases the bus name. Later calls fail with session.ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.conn == nil {
		return nil
	}

	_, err := s.conn.ReleaseName(BusName)
	if s.ownsConn {
		err = errors.Join(err, s.conn.Close())
	}
	return err
}

// send hands an intent to the consumer, dropping it when the consumer is behind.
func (s *Session) send(i session.Intent) {
	if i.Action == session.ActionSeekTo || i.Action == session.ActionSeekForward || i.Action == session.ActionSeekBackward {
		s.mu.Lock()
		s.seeking = true
		s.mu.Unlock()
	}

	select {
	case s.intents <- i:
	default:
		log.Debugf("mpris: dropping %s intent", i.Action)
	}
}
