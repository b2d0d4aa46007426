// Package bindings runs a whole generation: load the module set, parse,
// preprocess and visit every module, close the registry, then emit the glue,
// declaration and documentation files and record them in a manifest.
//
// A run is all-or-nothing: the first error stops it and is returned to the
// caller unchanged apart from added context.
package bindings

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/jsbind/config"
	"github.com/teranos/jsbind/emit"
	"github.com/teranos/jsbind/emit/markdown"
	"github.com/teranos/jsbind/emit/typescript"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/header"
	"github.com/teranos/jsbind/logger"
	"github.com/teranos/jsbind/manifest"
	"github.com/teranos/jsbind/module"
	"github.com/teranos/jsbind/registry"
	"github.com/teranos/jsbind/version"
)

// Bindings is one generation run.
type Bindings struct {
	cfg     *config.Config
	modules []*module.Module
	reg     *registry.Registry
	parser  *header.Parser
	logger  *zap.SugaredLogger
}

// New creates a run for cfg. Call Initialize, ParseHeaders and Emit in order.
func New(cfg *config.Config) *Bindings {
	return &Bindings{
		cfg:    cfg,
		reg:    registry.New(),
		logger: logger.ComponentLogger("bindings"),
	}
}

// Initialize loads every module listed in the index and prepares the header
// parser.
func (b *Bindings) Initialize() error {
	modules, err := module.LoadSet(b.cfg.Root, b.cfg.ModulesDir(), b.cfg.Modules.Index)
	if err != nil {
		return err
	}

	parser, err := newParser(b.cfg)
	if err != nil {
		return err
	}

	b.modules = modules
	b.parser = parser
	b.logger.Infow("Loaded modules",
		logger.FieldCount, len(modules),
		logger.FieldDir, b.cfg.ModulesDir())
	return nil
}

// newParser searches the project root, then each configured include directory.
func newParser(cfg *config.Config) (*header.Parser, error) {
	includeDirs := []string{cfg.Root}
	for _, dir := range cfg.Parse.IncludeDirs {
		includeDirs = append(includeDirs, cfg.Resolve(dir))
	}
	return header.NewParser(cfg.Parse.CFlags, includeDirs)
}

// ParseHeaders runs each module pass across all modules before the next
// pass starts, then closes the registry. Every module is parsed before any
// registers, so base classes resolve across modules.
func (b *Bindings) ParseHeaders(ctx context.Context) error {
	if b.parser == nil {
		return errors.Wrap(errors.ErrInvalidState, "ParseHeaders called before Initialize")
	}
	start := time.Now()

	for _, m := range b.modules {
		if err := m.ParseHeaders(ctx, b.parser); err != nil {
			return err
		}
	}
	for _, m := range b.modules {
		if err := m.PreprocessHeaders(); err != nil {
			return err
		}
	}
	for _, m := range b.modules {
		if err := m.VisitHeaders(b.reg); err != nil {
			return err
		}
	}
	if err := b.reg.Preprocess(); err != nil {
		return err
	}
	if err := b.reg.Process(); err != nil {
		return err
	}

	b.logger.Infow("Parsed headers", logger.Elapsed(start,
		"modules", len(b.modules),
		"classes", len(b.reg.Classes()),
		"enums", len(b.reg.Enums()))...)
	return nil
}

// Modules returns the loaded modules in index order.
func (b *Bindings) Modules() []*module.Module {
	return b.modules
}

// Registry returns the run's registry.
func (b *Bindings) Registry() *registry.Registry {
	return b.reg
}

// GetModuleByName returns the module with the given name, or nil.
func (b *Bindings) GetModuleByName(name string) *module.Module {
	for _, m := range b.modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// output resolves a configured output path below root.
func output(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Emit writes every artifact below root, records them in the manifest and
// removes files the previous manifest listed that this run no longer
// produces. root is normally the project root; check passes a scratch
// directory.
func (b *Bindings) Emit(root string) (*manifest.Manifest, error) {
	glueDir := output(root, b.cfg.Output.GlueDir)
	manifestPath := filepath.Join(glueDir, b.cfg.Output.Manifest)

	prev, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	written, err := emit.New(b.cfg.Package, b.modules, b.reg).EmitAll(glueDir)
	if err != nil {
		return nil, err
	}

	generators := []struct {
		gen  emit.Generator
		path string
	}{
		{typescript.NewGenerator(b.cfg.Package, b.modules), output(root, b.cfg.Output.TypeScript)},
		{markdown.NewGenerator(b.cfg.Package, b.modules), output(root, b.cfg.Output.Docs)},
	}
	for _, g := range generators {
		if g.path == "" {
			continue
		}
		content, err := g.gen.GenerateFile(b.reg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to generate %s", g.gen.Language())
		}
		if err := emit.WriteFile(g.path, []byte(content)); err != nil {
			return nil, err
		}
		written = append(written, g.path)
		b.logger.Debugw("Wrote "+g.gen.Language()+" artifact", logger.FieldFile, g.path)
	}

	next := &manifest.Manifest{Generator: version.Get().Generator(), Package: b.cfg.Package}
	for _, path := range written {
		if err := next.Add(root, path); err != nil {
			return nil, err
		}
	}

	for _, rel := range prev.Stale(next) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, errors.Mark(errors.Wrapf(err, "failed to remove stale %s", rel), errors.ErrWriteFailed)
		}
		b.logger.Infow("Removed stale output", logger.FieldFile, rel)
	}

	if err := next.Save(manifestPath); err != nil {
		return nil, err
	}
	return next, nil
}

// Generate is a complete run of cfg writing below root.
func Generate(ctx context.Context, cfg *config.Config, root string) (*manifest.Manifest, error) {
	b := New(cfg)
	if err := b.Initialize(); err != nil {
		return nil, err
	}
	if err := b.ParseHeaders(ctx); err != nil {
		return nil, err
	}
	return b.Emit(root)
}
