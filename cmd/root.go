// Package cmd implements the command-line interface for framecast.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/constant"
	"github.com/framecast/framecast/icon"
	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/log"
	"github.com/framecast/framecast/style"
	"github.com/framecast/framecast/util"
	"github.com/framecast/framecast/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("frames", "f", "", "Directory or http(s) base URL holding the frame artwork")
	lo.Must0(viper.BindPFlag(key.FramesBase, rootCmd.Flags().Lookup("frames")))

	rootCmd.Flags().Int("fps", constant.FPS, "Logical frame rate of the artwork sequence")
	lo.Must0(viper.BindPFlag(key.FramesFPS, rootCmd.Flags().Lookup("fps")))

	rootCmd.Flags().IntP("total-frames", "n", constant.TotalFrames, "Length of the artwork sequence, 0 to detect it")
	lo.Must0(viper.BindPFlag(key.FramesTotal, rootCmd.Flags().Lookup("total-frames")))

	rootCmd.Flags().String("title", constant.DefaultTitle, "Title shown in the OS media controls")
	lo.Must0(viper.BindPFlag(key.MetadataTitle, rootCmd.Flags().Lookup("title")))

	rootCmd.Flags().String("artist", constant.DefaultArtist, "Artist shown in the OS media controls")
	lo.Must0(viper.BindPFlag(key.MetadataArtist, rootCmd.Flags().Lookup("artist")))

	rootCmd.Flags().String("album", constant.DefaultAlbum, "Album shown in the OS media controls")
	lo.Must0(viper.BindPFlag(key.MetadataAlbum, rootCmd.Flags().Lookup("album")))

	rootCmd.Flags().BoolP("autoplay", "a", false, "Start playing as soon as the video is loaded")
	lo.Must0(viper.BindPFlag(key.PlayerAutoplay, rootCmd.Flags().Lookup("autoplay")))

	rootCmd.Flags().Bool("headless", false, "Run without the terminal interface, controlled only from the OS media controls")

	// Clear transient artifacts left behind by previous runs.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd plays a video while mirroring its frames into the OS media controls.
var rootCmd = &cobra.Command{
	Use:   constant.Framecast + " [video]",
	Short: "Play a video and mirror its frames into the OS media controls",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play a video and mirror its frames into the OS media controls"),
	Args:    cobra.MaximumNArgs(1),
	Example: "  framecast ./bad_apple.mp4 --frames ./frames",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) > 0 {
			viper.Set(key.Video, args[0])
		}

		CheckDependencies()
		handleErr(play(cmd.Context(), lo.Must(cmd.Flags().GetBool("headless"))))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
