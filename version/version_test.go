package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, settings ...debug.BuildSetting) {
	t.Helper()
	saved := readBuildInfo
	t.Cleanup(func() { readBuildInfo = saved })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestInfo(t *testing.T) {
	i := Info{CommitHash: "0123456789abcdef", BuildTime: "2026-10-18", Version: "v0.3.0", GlueFormat: 1}

	assert.Equal(t, "jsbind v0.3.0 (commit 0123456, built 2026-10-18, glue format 1)", i.String())
	assert.Equal(t, "0123456", i.Short())
	assert.Equal(t, "jsbind v0.3.0 (glue format 1)", i.Generator())

	i.Modified = true
	assert.Contains(t, i.String(), "commit 0123456+dirty")
}

func TestGet_VCSFallback(t *testing.T) {
	withBuildInfo(t,
		debug.BuildSetting{Key: "vcs.revision", Value: "fedcba9876543210"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)

	i := Get()
	assert.Equal(t, "fedcba9876543210", i.CommitHash)
	assert.Equal(t, "2026-10-01T12:00:00Z", i.BuildTime)
	assert.True(t, i.Modified)
	assert.Equal(t, GlueFormat, i.GlueFormat)
	assert.NotEmpty(t, i.GoVersion)
	assert.Contains(t, i.Platform, "/")
}

func TestGet_LdflagsWin(t *testing.T) {
	withBuildInfo(t, debug.BuildSetting{Key: "vcs.revision", Value: "fedcba9876543210"})

	saved := CommitHash
	defer func() { CommitHash = saved }()
	CommitHash = "abc1234def"

	assert.Equal(t, "abc1234def", Get().CommitHash)
}

func TestGet_NoBuildInfo(t *testing.T) {
	saved := readBuildInfo
	defer func() { readBuildInfo = saved }()
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	i := Get()
	assert.Equal(t, "unknown", i.CommitHash)
	assert.Equal(t, "unknown", i.BuildTime)
}
