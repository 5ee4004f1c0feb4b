package tui

import (
	"github.com/framecast/framecast/engine"
	"github.com/framecast/framecast/internal/ui"
	"github.com/framecast/framecast/style"
	"github.com/framecast/framecast/util"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// statefulBubble holds the now-playing screen.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	status      engine.Status
	lastMessage string
	engineErr   error

	width, height int
	// barRow is the line of the progress bar as last rendered.
	barRow int

	options *Options
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// raiseError shows a failure that ended playback.
func (b *statefulBubble) raiseError(err error) {
	b.engineErr = err
	b.setState(errorState)
}

// resize propagates terminal dimension changes to the child components.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.progressC.Width = max(b.width, 1)
	b.helpC.Width = b.width
}

func newBubble(options *Options) *statefulBubble {
	bubble := &statefulBubble{
		keymap:   newStatefulKeymap(),
		notifier: &ui.Model{},
		barRow:   defaultBarRow,
		options:  options,
	}

	bubble.helpC = help.New()
	bubble.progressC = progress.New(
		progress.WithGradient(string(style.AccentColor), string(style.SecondaryColor)),
		progress.WithoutPercentage(),
	)
	bubble.progressC.EmptyColor = string(style.BorderColor)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	} else {
		bubble.resize(80, 24)
	}

	bubble.setState(loadingState)
	return bubble
}

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)
