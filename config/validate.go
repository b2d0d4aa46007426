package config

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/jsbind/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Package) == "" {
		return errors.New("package cannot be empty")
	}
	if c.Modules.Dir == "" {
		return errors.New("modules.dir cannot be empty")
	}
	if c.Modules.Index == "" {
		return errors.New("modules.index cannot be empty")
	}
	if c.Output.GlueDir == "" {
		return errors.New("output.glue_dir cannot be empty")
	}
	if c.Output.Manifest == "" {
		return errors.New("output.manifest cannot be empty")
	}
	if strings.ContainsAny(c.Output.Manifest, `/\`) {
		return errors.Newf("output.manifest must be a file name, got %q", c.Output.Manifest)
	}

	// Watch debounce: 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	if _, err := shellquote.Split(c.Parse.CFlags); err != nil {
		return errors.Wrapf(err, "parse.cflags is not a valid flag string: %q", c.Parse.CFlags)
	}
	return nil
}
