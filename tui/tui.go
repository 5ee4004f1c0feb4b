// Package tui provides the now-playing terminal user interface.
package tui

import (
	"github.com/framecast/framecast/engine"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the part of the engine the interface drives.
type Controller interface {
	Toggle()
	SeekBy(delta float64)
	SeekFraction(f float64)
	Quit()
	Status() <-chan engine.Status
}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Controller  Controller
	Title       string
	Artist      string
	Album       string
	TotalFrames int
	// Done yields the engine's result once it stops.
	Done <-chan error
}

// Run executes the Bubble Tea program until the engine stops or the user forces a quit.
func Run(options *Options) error {
	bubble := newBubble(options)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	return bubble.engineErr
}
