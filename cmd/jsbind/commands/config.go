package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/jsbind/config"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
)

// loadConfig loads the --config file, or the nearest jsbind.toml
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	v := verbosity(cmd)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "failed to load config"),
			"create a jsbind.toml in the project root or pass --config")
	}

	if cfg.Log.JSON && !logger.JSONOutput {
		if err := logger.Initialize(true, v); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}

	if logger.ShouldOutput(v, logger.OutputConfig) {
		logger.Debugw("Loaded config",
			"root", cfg.Root,
			"package", cfg.Package,
			"modules", cfg.ModulesDir(),
			"glue_dir", cfg.GlueDir())
	}
	return cfg, nil
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}
