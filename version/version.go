// Package version reports the jsbind build and the revision of the glue it
// writes.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time:
//
//	-ldflags "-X github.com/teranos/jsbind/version.Version=v0.3.0 -X ...CommitHash=$(git rev-parse HEAD)"
//
// Builds without ldflags fall back to the VCS stamps go build embeds.
var (
	CommitHash = ""
	BuildTime  = ""
	Version    = "dev"
)

// GlueFormat is the revision of the generated C++ layout. Bump it when a
// change to the emitters alters JSModules.cpp or JSModule<Name>.cpp for
// unchanged headers.
const GlueFormat = 1

// Info describes the running binary
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Modified   bool   `json:"modified,omitempty"`
	GlueFormat int    `json:"glue_format"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

// Get returns the current version information
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GlueFormat: GlueFormat,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.CommitHash == "" {
					info.CommitHash = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if info.CommitHash == "" {
		info.CommitHash = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

// String returns a human-readable version string
func (i Info) String() string {
	commit := i.Short()
	if i.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("jsbind %s (commit %s, built %s, glue format %d)", i.Version, commit, i.BuildTime, i.GlueFormat)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Generator identifies the tool in the manifest. It omits the commit so a
// rebuild of the same release leaves outputs unchanged.
func (i Info) Generator() string {
	return fmt.Sprintf("jsbind %s (glue format %d)", i.Version, i.GlueFormat)
}
