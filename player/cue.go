package player

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os/exec"
	"sync"

	"github.com/framecast/framecast/log"
)

//go:embed silence.mp3
var silence []byte

// SilentCue plays a short silent clip through a detached audio-only mpv.
type SilentCue struct {
	Binary string

	mu    sync.Mutex
	fired int
}

func (c *SilentCue) Fire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	binary := c.Binary
	if binary == "" {
		binary = "mpv"
	}

	cmd := exec.Command(binary, "--no-video", "--no-terminal", "--really-quiet", "--volume=0", "-")
	cmd.Stdin = bytes.NewReader(silence)
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start cue: %w", err)
	}

	c.mu.Lock()
	c.fired++
	c.mu.Unlock()

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debugf("cue exited: %s", err)
		}
	}()
	return nil
}

// Fired returns how many times the cue was started.
func (c *SilentCue) Fired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}
