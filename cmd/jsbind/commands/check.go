package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/jsbind/bindings"
	"github.com/teranos/jsbind/display"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that generated bindings are up to date",
	Long: `Generate into a scratch directory and compare the result with the
project tree. Exits with status 1 when any generated file is changed,
missing or stale.

Examples:
  jsbind check       # List out-of-date files
  jsbind check -v    # Also print a diff for each changed file`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := bindings.Check(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		if err := display.OutputJSON(out, result); err != nil {
			return err
		}
	} else if result.UpToDate {
		display.Success(out, "Bindings are up to date")
	} else {
		showDiff := logger.ShouldOutput(verbosity(cmd), logger.OutputProgress)
		for _, d := range result.Differences {
			display.Failure(out, "%s: %s", d.Path, d.Status)
			if showDiff && d.Diff != "" {
				fmt.Fprintln(out, d.Diff)
			}
		}
	}

	if !result.UpToDate {
		return errors.WithHint(
			errors.Newf("%d generated files are out of date", len(result.Differences)),
			"run jsbind generate and commit the result")
	}
	return nil
}
