package config

import (
	"github.com/spf13/viper"
)

// Default values, mirroring the layout of an Atomic engine checkout
const (
	DefaultPackage    = "Atomic"
	DefaultModulesDir = "modules"
	DefaultIndex      = "Modules.json"
	DefaultGlueDir    = "Source/Atomic/Javascript/Modules"
	DefaultTypeScript = "Bin/Atomic.d.ts"
	DefaultDocs       = "Bin/Atomic.md"
	DefaultManifest   = "jsbind.manifest.yaml"
	DefaultCFlags     = "-DATOMIC_API="
	DefaultDebounceMS = 500
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", "")
	v.SetDefault("package", DefaultPackage)

	v.SetDefault("modules.dir", DefaultModulesDir)
	v.SetDefault("modules.index", DefaultIndex)

	v.SetDefault("output.glue_dir", DefaultGlueDir)
	v.SetDefault("output.typescript", DefaultTypeScript)
	v.SetDefault("output.docs", DefaultDocs)
	v.SetDefault("output.manifest", DefaultManifest)

	v.SetDefault("parse.cflags", DefaultCFlags)
	v.SetDefault("parse.include_dirs", []string{})

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)

	v.SetDefault("log.json", false)
}
