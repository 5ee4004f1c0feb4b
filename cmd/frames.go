package cmd

import (
	"os"
	"strconv"

	"github.com/framecast/framecast/artwork"
	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/frame"
	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(framesCmd)
}

// framesCmd groups helpers for inspecting the artwork sequence.
var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Inspect the frame artwork sequence",
}

func init() {
	framesCmd.AddCommand(framesRefCmd)
	framesRefCmd.SetOut(os.Stdout)
}

// framesRefCmd prints the artwork reference of each frame index.
var framesRefCmd = &cobra.Command{
	Use:     "ref [index...]",
	Short:   "Print the artwork file name of frame indices",
	Args:    cobra.MinimumNArgs(1),
	Example: "  framecast frames ref 1 42",
	Run: func(cmd *cobra.Command, args []string) {
		total := viper.GetInt(key.FramesTotal)

		for _, arg := range args {
			i, err := strconv.Atoi(arg)
			handleErr(err)

			ref := frame.Ref(i)
			if total > 0 && !frame.InRange(i, total) {
				ref = style.Fg(color.Red)(ref + " (out of range)")
			}
			cmd.Println(ref)
		}
	},
}

func init() {
	framesCmd.AddCommand(framesCountCmd)
	framesCountCmd.Flags().BoolP("fresh", "F", false, "Ignore the remembered count and scan again")
	framesCountCmd.SetOut(os.Stdout)
}

// framesCountCmd detects the length of a local frame sequence.
var framesCountCmd = &cobra.Command{
	Use:   "count [dir]",
	Short: "Detect the length of a local frame sequence",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := viper.GetString(key.FramesBase)
		if len(args) > 0 {
			dir = args[0]
		}

		src, err := artwork.ParseSource(dir)
		handleErr(err)
		if src.IsRemote() {
			handleErr(cmd.Help())
			return
		}

		var n int
		if lo.Must(cmd.Flags().GetBool("fresh")) {
			n, err = artwork.CountFrames(src.Dir)
		} else {
			n, err = artwork.CachedCountFrames(src.Dir, hours(key.FramesCount))
		}
		handleErr(err)

		cmd.Println(n)
	},
}
