package tui

import (
	"context"
	"errors"

	"github.com/framecast/framecast/engine"
	"github.com/framecast/framecast/internal/ui"
	"github.com/framecast/framecast/session"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)

	case statusMsg:
		return b, tea.Batch(cmd, b.onStatus(engine.Status(msg)), b.waitForStatus())

	case engineDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			b.raiseError(msg.err)
			return b, cmd
		}
		return b, tea.Quit

	case tea.KeyMsg:
		return b, tea.Batch(cmd, b.onKey(msg))

	case tea.MouseMsg:
		if f, ok := b.clickFraction(msg); ok {
			b.options.Controller.SeekFraction(f)
		}
	}

	return b, cmd
}

func (b *statefulBubble) onStatus(s engine.Status) tea.Cmd {
	b.status = s
	if b.state == loadingState {
		b.setState(playingState)
	}

	if s.Message == b.lastMessage {
		return nil
	}
	b.lastMessage = s.Message
	if s.Message == "" {
		return nil
	}
	return ui.Notify(s.Message)
}

func (b *statefulBubble) onKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case bubblesKey.Matches(msg, b.keymap.forceQuit):
		return tea.Quit
	case bubblesKey.Matches(msg, b.keymap.quit):
		if b.state == errorState {
			return tea.Quit
		}
		b.options.Controller.Quit()
		if b.options.Done == nil {
			return tea.Quit
		}
	case bubblesKey.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	if b.state != playingState {
		return nil
	}

	switch {
	case bubblesKey.Matches(msg, b.keymap.playPause):
		b.options.Controller.Toggle()
	case bubblesKey.Matches(msg, b.keymap.back):
		b.options.Controller.SeekBy(-session.DefaultSeekOffset)
	case bubblesKey.Matches(msg, b.keymap.forward):
		b.options.Controller.SeekBy(session.DefaultSeekOffset)
	}
	return nil
}

// clickFraction maps a left click on the progress bar to a fraction of its width.
func (b *statefulBubble) clickFraction(msg tea.MouseMsg) (float64, bool) {
	if b.state != playingState || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return 0, false
	}

	top, _, _, left := paddingStyle.GetPadding()
	if msg.Y != top+b.barRow {
		return 0, false
	}

	x := msg.X - left
	if x < 0 || x >= b.progressC.Width {
		return 0, false
	}
	if b.progressC.Width == 1 {
		return 0, true
	}
	return float64(x) / float64(b.progressC.Width-1), true
}
