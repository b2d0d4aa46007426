package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/jsbind/bindings"
	"github.com/teranos/jsbind/display"
	"github.com/teranos/jsbind/errors"
)

var generateOut string

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate bindings into the project tree",
	Long: `Generate the JavaScript bindings for every module in the module index.

Runs the whole pipeline: load the module descriptors, parse their headers,
register and resolve classes and enums, then write JSModules.cpp, one
JSModule<Name>.cpp per module, the TypeScript declarations and the API
documentation. Files a previous run produced that this run no longer does
are removed. Any error aborts the run.

Examples:
  jsbind generate                  # Write below the project root
  jsbind generate --out /tmp/glue  # Write below another directory`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output root (default: project root)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := cfg.Root
	if generateOut != "" {
		if root, err = filepath.Abs(generateOut); err != nil {
			return errors.Wrapf(err, "invalid output root %s", generateOut)
		}
	}

	m, err := bindings.Generate(cmd.Context(), cfg, root)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), m)
	}
	for _, e := range m.Files {
		display.Success(cmd.OutOrStdout(), "Generated %s", e.Path)
	}
	return nil
}
