package tui

import (
	"github.com/framecast/framecast/engine"
	tea "github.com/charmbracelet/bubbletea"
)

type statusMsg engine.Status

type engineDoneMsg struct {
	err error
}

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.waitForStatus(), b.waitForEngine())
}

func (b *statefulBubble) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-b.options.Controller.Status())
	}
}

func (b *statefulBubble) waitForEngine() tea.Cmd {
	if b.options.Done == nil {
		return nil
	}
	return func() tea.Msg {
		return engineDoneMsg{err: <-b.options.Done}
	}
}
