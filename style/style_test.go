package style

import (
	"testing"

	"github.com/framecast/framecast/color"
	"github.com/charmbracelet/lipgloss"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderers(t *testing.T) {
	Convey("Renderers", t, func() {
		Convey("Fg keeps the text", func() {
			So(Fg(color.Purple)("frame"), ShouldContainSubstring, "frame")
		})

		Convey("Truncate clips long text to one line", func() {
			out := Truncate(10)("Alstroemeria Records · Traditional Remix")
			So(out, ShouldNotContainSubstring, "\n")
			So(lipgloss.Width(out), ShouldBeLessThanOrEqualTo, 10)
			So(out, ShouldStartWith, "Alstroemer")
		})

		Convey("Title keeps the text", func() {
			So(Title("Now Playing"), ShouldContainSubstring, "Now Playing")
		})
	})
}
