package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/jsbind/buildsettings"
	"github.com/teranos/jsbind/display"
	"github.com/teranos/jsbind/errors"
)

// PlatformCmd represents the platform command
var PlatformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Show or change the current build platform",
	Long: `Show or change the project's build settings, kept in jsbind.build.toml
next to jsbind.toml. Each save rotates .back1 to .back3 backups.

Examples:
  jsbind platform show                          # Show build settings
  jsbind platform show --format yaml            # In YAML
  jsbind platform set android --api-level 19    # Select Android
  jsbind platform set undefined                 # Select the host platform`,
}

var platformShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show build settings",
	Args:  cobra.NoArgs,
	RunE:  runPlatformShow,
}

var platformSetCmd = &cobra.Command{
	Use:   "set <platform>",
	Short: "Select the current platform",
	Long:  "Select windows, mac, html5 (webgl), android or ios. undefined selects the host platform.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlatformSet,
}

var (
	platformFormat string

	platformAppName     string
	platformPackageName string
	platformAndroidSDK  string
	platformAPILevel    int
	platformWebOutput   string
)

func init() {
	platformShowCmd.Flags().StringVar(&platformFormat, "format", "toml", "Output format: toml, json, yaml")

	platformSetCmd.Flags().StringVar(&platformAppName, "app-name", "", "Application name")
	platformSetCmd.Flags().StringVar(&platformPackageName, "package-name", "", "Application package name, e.g. com.example.app")
	platformSetCmd.Flags().StringVar(&platformAndroidSDK, "android-sdk", "", "Android SDK path")
	platformSetCmd.Flags().IntVar(&platformAPILevel, "api-level", 0, "Android API level")
	platformSetCmd.Flags().StringVar(&platformWebOutput, "web-output", "", "HTML5 output directory")

	PlatformCmd.AddCommand(platformShowCmd)
	PlatformCmd.AddCommand(platformSetCmd)
}

func openBuildSettings(cmd *cobra.Command) (*buildsettings.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildsettings.Open(cfg.Resolve(buildsettings.FileName))
}

func runPlatformShow(cmd *cobra.Command, args []string) error {
	store, err := openBuildSettings(cmd)
	if err != nil {
		return err
	}
	settings := store.Settings()
	out := cmd.OutOrStdout()

	format := platformFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}

	switch format {
	case "json":
		return display.OutputJSON(out, settings)

	case "yaml":
		data, err := yaml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal build settings to YAML")
		}
		fmt.Fprintf(out, "# %s\n%s", store.Path(), data)

	case "toml":
		data, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal build settings to TOML")
		}
		fmt.Fprintf(out, "# %s\n%s", store.Path(), data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runPlatformSet(cmd *cobra.Command, args []string) error {
	platform, err := buildsettings.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	store, err := openBuildSettings(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	store.OnPlatformChange(func(from, to buildsettings.Platform) {
		display.Success(out, "Platform changed: %s → %s", from, to)
	})

	flags := cmd.Flags()
	if flags.Changed("app-name") || flags.Changed("package-name") || flags.Changed("android-sdk") ||
		flags.Changed("api-level") || flags.Changed("web-output") {
		err := store.Update(func(s *buildsettings.Settings) {
			if flags.Changed("app-name") {
				s.AppName = platformAppName
			}
			if flags.Changed("package-name") {
				s.PackageName = platformPackageName
			}
			if flags.Changed("android-sdk") {
				s.Android.SDKPath = platformAndroidSDK
			}
			if flags.Changed("api-level") {
				s.Android.APILevel = platformAPILevel
			}
			if flags.Changed("web-output") {
				s.Web.OutputDir = platformWebOutput
			}
		})
		if err != nil {
			return err
		}
	}

	before := store.CurrentPlatform()
	selected, err := store.SetCurrentPlatform(platform)
	if err != nil {
		return err
	}
	if selected == before {
		display.Success(out, "Platform is already %s", selected)
	}
	return nil
}
