package bindings

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/teranos/jsbind/config"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/manifest"
)

// Difference is one generated file that does not match the tree.
type Difference struct {
	Path   string `json:"path"`           // root-relative
	Status string `json:"status"`         // "changed", "missing" or "stale"
	Diff   string `json:"diff,omitempty"` // line diff for changed files, -tree +generated
}

// CheckResult holds the result of an up-to-date check
type CheckResult struct {
	UpToDate    bool         `json:"up_to_date"`
	Differences []Difference `json:"differences,omitempty"`
}

// Check generates into a scratch directory and compares every produced file
// with the live tree. Files the live manifest lists that a fresh run would
// not produce are reported as stale.
func Check(ctx context.Context, cfg *config.Config) (*CheckResult, error) {
	for _, p := range []string{cfg.Output.GlueDir, cfg.Output.TypeScript, cfg.Output.Docs} {
		if filepath.IsAbs(p) {
			return nil, errors.WithHint(
				errors.Newf("check needs output paths relative to root, got %s", p),
				"use paths relative to the project root in the [output] section")
		}
	}

	tempDir, err := os.MkdirTemp("", "jsbind-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	fresh, err := Generate(ctx, cfg, tempDir)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	for _, e := range fresh.Files {
		d, err := compareFile(filepath.Join(tempDir, filepath.FromSlash(e.Path)), filepath.Join(cfg.Root, filepath.FromSlash(e.Path)))
		if err != nil {
			return nil, err
		}
		if d != nil {
			d.Path = e.Path
			result.Differences = append(result.Differences, *d)
		}
	}

	live, err := manifest.Load(filepath.Join(cfg.GlueDir(), cfg.Output.Manifest))
	if err != nil {
		return nil, err
	}
	for _, rel := range live.Stale(fresh) {
		if _, err := os.Stat(filepath.Join(cfg.Root, filepath.FromSlash(rel))); err == nil {
			result.Differences = append(result.Differences, Difference{Path: rel, Status: "stale"})
		}
	}

	result.UpToDate = len(result.Differences) == 0
	return result, nil
}

// compareFile returns nil when the live file matches the generated one.
func compareFile(generated, live string) (*Difference, error) {
	want, err := os.ReadFile(generated)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", generated)
	}
	got, err := os.ReadFile(live)
	if os.IsNotExist(err) {
		return &Difference{Status: "missing"}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", live)
	}
	if string(want) == string(got) {
		return nil, nil
	}
	return &Difference{
		Status: "changed",
		Diff:   cmp.Diff(strings.Split(string(got), "\n"), strings.Split(string(want), "\n")),
	}, nil
}
