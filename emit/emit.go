// Package emit writes the script glue for a closed registry: the
// JSModules.cpp aggregate that sequences every module's entry points, and
// one JSModule<Name>.cpp per module with its class and enum bindings.
//
// Every file is rendered in memory and written once. Generators for the
// auxiliary artifacts live in subpackages and implement Generator.
package emit

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
	"github.com/teranos/jsbind/module"
	"github.com/teranos/jsbind/registry"
)

// AggregateFileName is the file sequencing all module entry points.
const AggregateFileName = "JSModules.cpp"

// Generator renders one auxiliary artifact from a closed registry.
type Generator interface {
	// Language names the artifact, e.g. "typescript"
	Language() string

	// FileExtension returns the artifact extension without the dot
	FileExtension() string

	// GenerateFile renders the whole artifact
	GenerateFile(reg *registry.Registry) (string, error)
}

// Emitter renders glue for a module list and its registry.
type Emitter struct {
	pkg     string
	modules []*module.Module
	reg     *registry.Registry
	logger  *zap.SugaredLogger
}

// New creates an emitter. Modules are emitted in the given order.
func New(pkg string, modules []*module.Module, reg *registry.Registry) *Emitter {
	return &Emitter{
		pkg:     pkg,
		modules: modules,
		reg:     reg,
		logger:  logger.ComponentLogger("emit"),
	}
}

// Aggregate builds the JSModules.cpp contents.
func (e *Emitter) Aggregate() *Aggregate {
	a := NewAggregate(e.pkg)
	for _, m := range e.modules {
		a.AddModule(m.Name)
	}
	for _, c := range e.reg.PrototypeOrder() {
		p := Prototype{
			Package:       e.pkg,
			Class:         c.BoundName,
			HasProperties: len(c.Properties) > 0,
		}
		if c.Base != nil {
			p.BasePackage = e.pkg
			p.BaseClass = c.Base.BoundName
		}
		a.AddPrototype(p)
	}
	return a
}

// EmitAll writes the aggregate and every module file under outputRoot and
// returns the written paths in write order. The first failure stops the
// run; files written before it stay.
func (e *Emitter) EmitAll(outputRoot string) ([]string, error) {
	if e.reg.Phase() != registry.Closed {
		return nil, errors.Wrapf(errors.ErrInvalidState, "emit: registry is %s", e.reg.Phase())
	}
	start := time.Now()

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(outputRoot, name)
		if err := WriteFile(path, data); err != nil {
			e.logger.Errorw("Failed to write glue file", logger.FieldFile, path, logger.FieldError, err)
			return err
		}
		written = append(written, path)
		e.logger.Debugw("Wrote glue file", logger.FieldFile, path, "bytes", len(data))
		return nil
	}

	if err := write(AggregateFileName, e.Aggregate().Render()); err != nil {
		return written, err
	}
	for _, m := range e.modules {
		if err := write(ModuleFileName(m), e.ModuleSource(m)); err != nil {
			return written, err
		}
	}

	e.logger.Infow("Emitted glue", logger.Elapsed(start,
		logger.FieldDir, outputRoot,
		logger.FieldCount, len(written))...)
	return written, nil
}
