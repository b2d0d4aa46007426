// Package config loads jsbind.toml through viper.
//
// Values are merged in precedence order: defaults, then the project file,
// then JSBIND_* environment variables (JSBIND_OUTPUT_GLUE_DIR overrides
// output.glue_dir). Relative paths are resolved against Root.
package config

import "path/filepath"

// Config represents the jsbind configuration
type Config struct {
	Root    string        `mapstructure:"root"`    // Project root; empty = enclosing git worktree
	Package string        `mapstructure:"package"` // Script-side package object, e.g. "Atomic"
	Modules ModulesConfig `mapstructure:"modules"`
	Output  OutputConfig  `mapstructure:"output"`
	Parse   ParseConfig   `mapstructure:"parse"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Log     LogConfig     `mapstructure:"log"`
}

// ModulesConfig locates the module descriptors
type ModulesConfig struct {
	Dir   string `mapstructure:"dir"`   // Directory of <Module>.json descriptors
	Index string `mapstructure:"index"` // Ordered module list inside Dir
}

// OutputConfig names the generated artifacts, relative to Root
type OutputConfig struct {
	GlueDir    string `mapstructure:"glue_dir"`   // JSModules.cpp and JSModule<Name>.cpp
	TypeScript string `mapstructure:"typescript"` // Declaration file
	Docs       string `mapstructure:"docs"`       // Documentation file
	Manifest   string `mapstructure:"manifest"`   // Manifest file name inside GlueDir
}

// ParseConfig configures the header front end
type ParseConfig struct {
	CFlags      string   `mapstructure:"cflags"`       // -D definitions applied before parsing, shell quoted
	IncludeDirs []string `mapstructure:"include_dirs"` // Directories searched for relative header paths
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"` // Quiet period before regenerating
}

// LogConfig configures logging output
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// Resolve joins a configured path with Root unless it is already absolute
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// ModulesDir returns the absolute descriptor directory
func (c *Config) ModulesDir() string {
	return c.Resolve(c.Modules.Dir)
}

// GlueDir returns the absolute glue output directory
func (c *Config) GlueDir() string {
	return c.Resolve(c.Output.GlueDir)
}
