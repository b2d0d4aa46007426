package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/jsbind/cmd/jsbind/commands"
	"github.com/teranos/jsbind/display"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
)

var rootCmd = &cobra.Command{
	Use:   "jsbind",
	Short: "jsbind - JavaScript binding generator for the Atomic engine",
	Long: `jsbind - JavaScript binding generator for the Atomic engine.

jsbind reads the engine's C++ headers as selected by the module descriptors
and writes the Duktape glue (JSModules.cpp and one JSModule<Name>.cpp per
module), a TypeScript declaration file and Markdown API documentation.

Available commands:
  generate - Generate bindings into the project tree
  check    - Verify that generated bindings are up to date
  watch    - Regenerate when headers or descriptors change
  platform - Show or change the current build platform
  version  - Show version information

Examples:
  jsbind generate                # Generate with jsbind.toml settings
  jsbind check -v                # Show diffs for out-of-date files
  jsbind watch                   # Regenerate on change
  jsbind platform set android    # Select the Android platform`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(display.ShouldOutputJSON(cmd), verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to jsbind.toml (default: nearest jsbind.toml above the working directory)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON instead of text")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.PlatformCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		report(os.Stderr, err)
		logger.Cleanup()
		os.Exit(1)
	}
}

// report prints a generator error with its hints. Anything else is flagged
// as unexpected and logged with its stack.
func report(w io.Writer, err error) {
	if !errors.IsFatal(err) {
		display.ReportUnexpected(w, err)
		logger.Errorw("Unexpected error", logger.FieldError, fmt.Sprintf("%+v", err))
		return
	}
	display.ReportError(w, err)
	logger.Debugw("Command failed",
		logger.FieldError, fmt.Sprintf("%+v", err),
		"category", errors.Category(err))
}
