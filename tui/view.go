package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/engine"
	"github.com/framecast/framecast/icon"
	"github.com/framecast/framecast/style"
	"github.com/framecast/framecast/unlock"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

// defaultBarRow is the line of the bar below the padding when every header line fits.
const defaultBarRow = 6

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.renderLines(true, []string{style.Title(b.options.Title), "", style.Faint("Loading...")})
	case errorState:
		output = b.viewError()
	default:
		output = b.viewPlaying()
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewPlaying() string {
	s := b.status

	stateIcon, stateText := icon.Get(icon.Pause), "Paused"
	if s.Playing {
		stateIcon, stateText = icon.Get(icon.Play), "Playing"
	}
	if s.Unlock == unlock.MutedFallback {
		stateText += " " + icon.Get(icon.Muted)
	}

	frameText := fmt.Sprintf("%s %d/%d", icon.Get(icon.Frame), s.Frame, b.options.TotalFrames)

	clip := style.Truncate(max(b.width, 1))
	lines := []string{
		clip(style.Title(b.options.Title)),
		"",
		clip(style.Fg(color.Purple)(b.options.Artist) + style.Faint(" · "+b.options.Album)),
		"",
		clip(stateIcon + " " + stateText + "   " + style.Faint(frameText)),
		"",
	}
	b.barRow = lipgloss.Height(strings.Join(lines, "\n"))

	lines = append(lines,
		b.progressC.ViewAs(s.Progress.OrEmpty()),
		style.Faint(formatTime(s.Position)+" / "+formatDuration(s)),
	)

	if s.Notice != "" {
		lines = append(lines, "", style.Fg(color.Yellow)(s.Notice))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	body := style.Fg(color.Red)(fmt.Sprintf("Playback stopped: %v", b.engineErr))
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " An error occurred:",
		"",
		wrap.String(body, max(b.width, 1)),
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func formatDuration(s engine.Status) string {
	d, ok := s.Duration.Get()
	if !ok {
		return "--:--"
	}
	return formatTime(d)
}

func formatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
