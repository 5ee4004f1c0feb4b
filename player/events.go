package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/framecast/framecast/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// EventCallback receives property changes by name and other events by their type.
type EventCallback func(name string, data interface{})

// observed are the properties the listener subscribes to.
var observed = []string{"time-pos", "duration", "pause", "speed", "eof-reached"}

// EventListener keeps one connection open to mpv and forwards what it reports.
// Observers are registered on that same connection, since mpv delivers
// property changes only to the client that asked for them.
type EventListener struct {
	socketPath string
	callback   EventCallback

	mu   sync.Mutex
	conn net.Conn
	done chan struct{}
}

func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start subscribes to the observed properties and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.conn != nil {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for id, name := range observed {
		if err := writeCommand(conn, []interface{}{"observe_property", id + 1, name}); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.done = make(chan struct{})
	go el.readLoop(conn, el.done)

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	conn, done := el.conn, el.done
	el.conn = nil
	el.mu.Unlock()

	if conn == nil {
		return
	}
	_ = conn.Close()
	<-done
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			el.processEvent(line)
		}
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Debugf("mpv event listener stopped: %v", err)
			}
			return
		}
	}
}

// processEvent dispatches a single mpv event line. Command replies are ignored.
func (el *EventListener) processEvent(line []byte) {
	var event map[string]interface{}
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		return
	}

	if eventType == "property-change" {
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event["data"])
		}
		return
	}

	el.callback(eventType, event)
}

// tracker folds mpv notifications into an Observation and playback Events.
type tracker struct {
	mu     sync.Mutex
	obs    Observation
	events chan Event
}

func newTracker() *tracker {
	return &tracker{
		obs:    Observation{Paused: true, Rate: 1, Duration: mo.None[float64]()},
		events: make(chan Event, 64),
	}
}

func (t *tracker) snapshot() Observation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.obs
}

func (t *tracker) emit(e Event) {
	select {
	case t.events <- e:
	default:
		log.Warnf("player event queue full, dropping %s", e.Kind)
	}
}

// handle is the EventCallback of an MPV instance.
func (t *tracker) handle(name string, data interface{}) {
	t.mu.Lock()
	var emit mo.Option[Event]

	switch name {
	case "time-pos":
		if pos, ok := data.(float64); ok {
			t.obs.Position = pos
		}
	case "duration":
		if d, ok := data.(float64); ok && d > 0 {
			t.obs.Duration = mo.Some(d)
		} else {
			t.obs.Duration = mo.None[float64]()
		}
	case "speed":
		if rate, ok := data.(float64); ok {
			t.obs.Rate = rate
		}
	case "pause":
		if paused, ok := data.(bool); ok && paused != t.obs.Paused {
			t.obs.Paused = paused
			emit = mo.Some(Event{Kind: lo.Ternary(paused, EventPause, EventPlay)})
		}
	case "eof-reached":
		if eof, _ := data.(bool); eof {
			t.obs.Paused = true
			emit = mo.Some(Event{Kind: EventEnded})
		}
	case "end-file":
		event, _ := data.(map[string]interface{})
		if reason, _ := event["reason"].(string); reason == "error" {
			msg, _ := event["file_error"].(string)
			if msg == "" {
				msg = "unknown error"
			}
			t.obs.Paused = true
			emit = mo.Some(Event{Kind: EventError, Err: errors.New(msg)})
		}
	}
	t.mu.Unlock()

	if e, ok := emit.Get(); ok {
		t.emit(e)
	}
}

