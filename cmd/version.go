package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/constant"
	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/player"
	"github.com/framecast/framecast/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version")
}

// revision prefers the linker-injected revision and falls back to the VCS stamp.
func revision() string {
	if constant.Revision != "unknown" {
		return constant.Revision
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return constant.Revision
	}

	setting, found := lo.Find(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	if !found {
		return constant.Revision
	}

	return setting.Value
}

func sessionBackend() string {
	switch {
	case !viper.GetBool(key.SessionMPRIS):
		return "disabled"
	case runtime.GOOS == constant.Linux:
		return "mpris"
	default:
		return "none on " + runtime.GOOS
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the runtime it found",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			fmt.Println(constant.Version)
			return
		}

		mpv := style.Fg(color.Green)("found")
		if !player.Available("") {
			mpv = style.Fg(color.Red)("missing")
		}

		rows := [][2]string{
			{"Version", style.Bold(constant.Version)},
			{"Revision", revision()},
			{"Built", constant.BuiltAt + " by " + constant.BuiltBy},
			{"Go", runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH},
			{"mpv", mpv},
			{"Session", sessionBackend()},
		}

		label := style.New().Faint(true).Width(10).Render
		lines := lo.Map(rows, func(r [2]string, _ int) string {
			return "  " + lipgloss.JoinHorizontal(lipgloss.Top, label(r[0]), r[1])
		})

		fmt.Println(style.Fg(color.Purple)("▇▇▇ " + constant.Framecast))
		fmt.Println()
		fmt.Println(lipgloss.JoinVertical(lipgloss.Left, lines...))
	},
}
