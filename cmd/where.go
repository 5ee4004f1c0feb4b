package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/filesystem"
	"github.com/framecast/framecast/style"
	"github.com/framecast/framecast/where"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type location struct {
	name string
	path func() string
}

var locations = []location{
	{"config", where.Config},
	{"frames", where.Frames},
	{"counts", where.FrameCounts},
	{"logs", where.Logs},
}

// describe summarizes what currently exists at path.
func describe(path string) string {
	fs := filesystem.API()

	info, err := fs.Stat(path)
	switch {
	case os.IsNotExist(err):
		return style.Faint("(not created yet)")
	case err != nil:
		return style.Fg(color.Red)("(unreadable)")
	case !info.IsDir():
		return style.Faint(fmt.Sprintf("(%d bytes)", info.Size()))
	}

	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return style.Fg(color.Red)("(unreadable)")
	}
	return style.Faint(fmt.Sprintf("(%d entries)", len(entries)))
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.SetOut(os.Stdout)
}

// whereCmd prints the directories framecast reads and writes.
var whereCmd = &cobra.Command{
	Use:   "where [config|frames|counts|logs]",
	Short: "Print the directories framecast uses",
	Args:  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: lo.Map(locations, func(l location, _ int) string {
		return l.name
	}),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			l, _ := lo.Find(locations, func(l location) bool { return l.name == args[0] })
			cmd.Println(l.path())
			return
		}

		label := style.New().Bold(true).Foreground(color.HiPurple).Width(8).Render
		for _, l := range locations {
			path := l.path()
			cmd.Println(lipgloss.JoinHorizontal(lipgloss.Top, label(l.name), path+" ", describe(path)))
		}
	},
}
