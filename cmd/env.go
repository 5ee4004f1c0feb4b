package cmd

import (
	"os"

	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/config"
	"github.com/framecast/framecast/style"
	"github.com/framecast/framecast/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().StringSliceP("section", "s", nil, "Only list variables of these sections")
	envCmd.Flags().Bool("set", false, "Only list variables present in the environment")
	_ = envCmd.RegisterFlagCompletionFunc("section", completionConfigSections)

	envCmd.SetOut(os.Stdout)
}

// envCmd lists the environment overrides, one block per config section.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			sections = lo.Must(cmd.Flags().GetStringSlice("section"))
			setOnly  = lo.Must(cmd.Flags().GetBool("set"))
			heading  = style.New().Bold(true).Foreground(color.HiPurple).Render
			name     = style.New().Bold(true).Foreground(color.Purple).Render
		)

		line := func(env string) {
			value, present := os.LookupEnv(env)
			if !present && setOnly {
				return
			}

			cmd.Print(name(env), "=")
			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}

		if len(sections) == 0 {
			cmd.Println(heading("[paths]"))
			line(where.EnvConfigPath)
			cmd.Println()
		}

		visible := lo.Filter(config.Sections(), func(s string, _ int) bool {
			return len(sections) == 0 || slices.Contains(sections, s)
		})

		for i, section := range visible {
			cmd.Println(heading("[" + section + "]"))
			for _, field := range config.InSection(section) {
				line(field.Env())
			}

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
