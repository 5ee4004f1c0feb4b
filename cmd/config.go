package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/config"
	"github.com/framecast/framecast/icon"
	"github.com/framecast/framecast/style"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func closestOf(name string, candidates []string) string {
	return lo.MinBy(candidates, func(a string, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
}

func errUnknownKey(key string) error {
	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closestOf(key, lo.Keys(config.Default))),
	)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func completionConfigSections(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return config.Sections(), cobra.ShellCompDirectiveNoFileComp
}

// persist writes the current viper state, creating the config file on first use.
func persist() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.SafeWriteConfig()
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.SetOut(os.Stdout)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and tune framecast settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("section", "s", nil, "Only show these sections, e.g. throttle,prefetch")
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only show these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	configInfoCmd.MarkFlagsMutuallyExclusive("section", "key")
	_ = configInfoCmd.RegisterFlagCompletionFunc("section", completionConfigSections)
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

}

// configInfoCmd lists settings grouped by section.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings grouped by section",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			sections = lo.Must(cmd.Flags().GetStringSlice("section"))
			keys     = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson   = lo.Must(cmd.Flags().GetBool("json"))
			groups   = make(map[string][]config.Field)
		)

		for _, section := range sections {
			if !lo.Contains(config.Sections(), section) {
				handleErr(fmt.Errorf(
					"unknown section %s, did you mean %s?",
					style.Fg(color.Red)(section),
					style.Fg(color.Yellow)(closestOf(section, config.Sections())),
				))
			}
		}

		if len(sections) == 0 {
			sections = config.Sections()
		}

		if len(keys) > 0 {
			sections = nil
			for _, k := range keys {
				field, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}

				section := config.Section(k)
				if _, seen := groups[section]; !seen {
					sections = append(sections, section)
				}
				groups[section] = append(groups[section], field)
			}
		} else {
			for _, section := range sections {
				groups[section] = config.InSection(section)
			}
		}

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			type group struct {
				Section string         `json:"section"`
				Fields  []config.Field `json:"fields"`
			}
			lo.Must0(encoder.Encode(lo.Map(sections, func(section string, _ int) group {
				return group{Section: section, Fields: groups[section]}
			})))
			return
		}

		heading := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, section := range sections {
			cmd.Println(heading("[" + section + "]"))
			for _, field := range groups[section] {
				cmd.Println()
				cmd.Println(field.Pretty())
			}

			if i < len(sections)-1 {
				cmd.Println()
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set key value...",
	Short:             "Validate and persist a setting",
	Example:           "  framecast config set throttle.strict_prefetch_stride 15",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k := args[0]
		if _, ok := config.Default[k]; !ok {
			handleErr(errUnknownKey(k))
		}

		v, err := config.Parse(k, args[1:])
		handleErr(err)

		viper.Set(k, v)
		handleErr(persist())

		cmd.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(k),
			style.Fg(color.Yellow)(fmt.Sprint(v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get key",
	Short:             "Print the effective value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if _, ok := config.Default[args[0]]; !ok {
			handleErr(errUnknownKey(args[0]))
		}

		cmd.Println(viper.Get(args[0]))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
}

// configResetCmd restores defaults for one key, a whole section or everything.
var configResetCmd = &cobra.Command{
	Use:   "reset [key|section]",
	Short: "Restore default values",
	Example: "  framecast config reset throttle\n" +
		"  framecast config reset prefetch.workers",
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return append(config.Sections(), lo.Keys(config.Default)...), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) == 1) {
			handleErr(errors.New("pass either a key, a section or --all"))
		}

		var fields []config.Field
		switch {
		case all:
			fields = lo.Values(config.Default)
		case lo.Contains(config.Sections(), args[0]):
			fields = config.InSection(args[0])
		default:
			field, ok := config.Default[args[0]]
			if !ok {
				handleErr(errUnknownKey(args[0]))
			}
			fields = []config.Field{field}
		}

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		handleErr(persist())

		names := lo.Map(fields, func(f config.Field, _ int) string { return f.Key })
		if all {
			names = []string{"all settings"}
		}
		cmd.Printf(
			"%s reset %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(strings.Join(names, ", ")),
		)
	},
}
