package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/constant"
	"github.com/framecast/framecast/icon"
	"github.com/framecast/framecast/player"
	"github.com/framecast/framecast/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd reports whether the external dependencies can be found.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the external video player is installed",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()
		fmt.Printf("%s mpv found\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// CheckDependencies verifies that mpv is available in the system PATH.
func CheckDependencies() {
	if !player.Available("") {
		printMissingDependencyError("mpv")
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
