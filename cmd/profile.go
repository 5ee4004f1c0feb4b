package cmd

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/framecast/framecast/color"
	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/platform"
	"github.com/framecast/framecast/style"
	"github.com/framecast/framecast/throttle"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// profileOutput is what the profile command reports.
type profileOutput struct {
	Class   string           `json:"class" jsonschema:"enum=desktop,enum=android-mobile,enum=strict-mobile"`
	Profile platform.Profile `json:"profile"`
	Policy  throttle.Policy  `json:"policy"`
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	profileCmd.Flags().BoolP("schema", "s", false, "Print the JSON schema of the output")
	profileCmd.MarkFlagsMutuallyExclusive("json", "schema")
	profileCmd.SetOut(os.Stdout)
}

// profileCmd shows how the media controls will be throttled on this platform.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Display the detected platform class and the derived update policy",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			reflector.Namer = func(t reflect.Type) string {
				return t.Name()
			}
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(&profileOutput{})))
			return
		}

		p := platform.Current()
		out := profileOutput{
			Class:   p.String(),
			Profile: p,
			Policy:  throttle.Derive(p, viper.GetInt(key.FramesFPS), throttle.TuningFromConfig()),
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(out))
			return
		}

		label := style.New().Bold(true).Foreground(color.HiPurple).Render
		value := style.Fg(color.Yellow)

		cmd.Printf("%s %s\n\n", label("Platform"), value(out.Class))
		cmd.Printf("%s %d\n", label("Target FPS"), out.Policy.TargetFPS)
		cmd.Printf("%s %s\n", label("Position reports every"), value(out.Policy.PositionReportInterval.String()))
		if out.Policy.MetadataDisabled {
			cmd.Printf("%s %s\n", label("Artwork swaps"), style.Fg(color.Red)("disabled"))
		} else {
			cmd.Printf("%s %s\n", label("Artwork swaps every"), value(out.Policy.MetadataUpdateInterval.String()))
		}
		cmd.Printf("%s %d frames ahead, %d per swap\n", label("Prefetch"), out.Policy.PrefetchStride, out.Policy.PrefetchDepth)
		cmd.Printf("%s %d\n", label("Cache capacity"), out.Policy.CacheCapacity)
	},
}
