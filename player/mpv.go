package player

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/framecast/framecast/constant"
	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/log"
	"github.com/spf13/viper"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// Options configures the mpv process.
type Options struct {
	// Binary is the mpv executable, "mpv" when empty.
	Binary string
	Loop   bool
}

// OptionsFromConfig reads the player section of the configuration.
func OptionsFromConfig() Options {
	return Options{Loop: viper.GetBool(key.PlayerLoop)}
}

// MPV implements Player using mpv's JSON-IPC protocol.
type MPV struct {
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	listener   *EventListener
	state      *tracker

	ipcMu sync.Mutex
}

// NewMPV creates a player; nothing is started until Load.
func NewMPV(opts Options) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}

	return &MPV{
		opts:   opts,
		exited: make(chan struct{}),
		state:  newTracker(),
	}
}

// Available reports whether the mpv executable can be found.
func Available(binary string) bool {
	if binary == "" {
		binary = "mpv"
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

// args builds the mpv command line. The user's mpv.conf is left in charge of output.
func (m *MPV) args(target, title string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + m.socketPath,
		"--force-media-title=" + title,
		"--title=" + title,
		"--force-window=yes",
		"--idle=yes",
		"--pause",
	}

	if m.opts.Loop {
		args = append(args, "--loop-file=inf")
	} else {
		args = append(args, "--keep-open=yes")
	}

	return append(args, "--", target)
}

// Load starts mpv paused on target and begins tracking its state.
func (m *MPV) Load(target, title string) error {
	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Framecast, randomBytes))
	}

	m.cmd = exec.Command(m.opts.Binary, m.args(safeTarget, sanitizeTitle(title))...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.exited = exited
	go func(cmd *exec.Cmd) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd)

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.state.handle)
	if err := m.listener.Start(); err != nil {
		return err
	}

	log.Infof("mpv loaded %s", safeTarget)
	return nil
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Play unpauses. A refusal from mpv is returned as is.
func (m *MPV) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	return m.set("pause", true)
}

func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

func (m *MPV) SetMuted(muted bool) error {
	return m.set("mute", muted)
}

func (m *MPV) Observe() Observation {
	return m.state.snapshot()
}

func (m *MPV) Events() <-chan Event {
	return m.state.events
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Close quits mpv, killing it if it does not leave in time.
func (m *MPV) Close() error {
	if m.socketPath == "" || m.cmd == nil {
		return nil
	}

	if m.listener != nil {
		m.listener.Stop()
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// sanitizeMediaTarget keeps targets from being read as mpv flags.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty target")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("target must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		case "file":
			return filepath.FromSlash(u.Path), nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
