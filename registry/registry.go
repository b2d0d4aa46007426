// Package registry is the catalog of every class and enum bound across all
// modules. It is an explicit context object with three phases:
//
//	Open -> Preprocessed -> Closed
//
// Modules register while it is Open. Preprocess resolves base classes and
// fixes prototype order; Process finalizes members. Once Closed the registry
// is read-only and every reader returns registration order.
package registry

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/jsbind/cppname"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/header"
	"github.com/teranos/jsbind/logger"
	"github.com/teranos/jsbind/module"
)

// Phase is the registry lifecycle state.
type Phase int

const (
	Open Phase = iota
	Preprocessed
	Closed
)

func (p Phase) String() string {
	switch p {
	case Open:
		return "open"
	case Preprocessed:
		return "preprocessed"
	default:
		return "closed"
	}
}

// Registry holds the bound classes and enums.
type Registry struct {
	phase Phase

	classes  []*Class
	byBound  map[string]*Class
	bySource map[string]*Class

	enums  []*Enum
	byEnum map[string]*Enum
	values map[string]*Enum

	order []*Class

	logger *zap.SugaredLogger
}

// New creates an open registry.
func New() *Registry {
	return &Registry{
		byBound:  make(map[string]*Class),
		bySource: make(map[string]*Class),
		byEnum:   make(map[string]*Enum),
		values:   make(map[string]*Enum),
		logger:   logger.ComponentLogger("registry"),
	}
}

// Phase returns the current lifecycle phase.
func (r *Registry) Phase() Phase {
	return r.phase
}

// RegisterClass adds a class under rename, or under its own name when rename
// is empty. A second class answering to the same bound name is a collision;
// the first registration stays.
func (r *Registry) RegisterClass(owner *module.Module, decl *header.Class, rename string) error {
	if r.phase != Open {
		return errors.Wrapf(errors.ErrRegistryClosed, "cannot register class %s", decl.QualifiedName())
	}

	bound := rename
	if bound == "" {
		bound = decl.Name
	}
	source := decl.QualifiedName()

	if existing, ok := r.byBound[bound]; ok {
		r.logger.Errorw("Class name collision",
			logger.FieldClass, bound,
			"first", existing.SourceName+" ("+existing.Module.Name+")",
			"second", source+" ("+owner.Name+")")
		return errors.WithHint(
			errors.Wrapf(errors.ErrClassCollision, "%s: %s in module %s and %s in module %s",
				bound, existing.SourceName, existing.Module.Name, source, owner.Name),
			"give one of the classes a different name in classes_rename")
	}
	if existing, ok := r.bySource[source]; ok {
		return errors.Wrapf(errors.ErrClassCollision, "%s bound twice, as %s in module %s and as %s in module %s",
			source, existing.BoundName, existing.Module.Name, bound, owner.Name)
	}

	c := &Class{
		Module:     owner,
		Decl:       decl,
		SourceName: source,
		BoundName:  bound,
	}
	for _, b := range decl.Bases {
		if b.Access == header.Public {
			c.BaseName = b.Name
			break
		}
	}

	r.classes = append(r.classes, c)
	r.byBound[bound] = c
	r.bySource[source] = c
	if logger.Enabled(logger.OutputRegistration) {
		r.logger.Debugw("Registered class",
			logger.FieldModule, owner.Name,
			logger.FieldClass, bound,
			"source", source)
	}
	return nil
}

// RegisterEnum adds an enum. Its name must be new, and none of its values
// may already belong to any registered enum: enum values share one flat
// script namespace. Nothing is registered when a check fails.
func (r *Registry) RegisterEnum(owner *module.Module, decl *header.Enum) error {
	if r.phase != Open {
		return errors.Wrapf(errors.ErrRegistryClosed, "cannot register enum %s", decl.QualifiedName())
	}

	if existing, ok := r.byEnum[decl.Name]; ok {
		r.logger.Errorw("Enum name collision",
			logger.FieldEnum, decl.Name,
			"first", existing.Module.Name,
			"second", owner.Name)
		return errors.Wrapf(errors.ErrEnumCollision, "%s in modules %s and %s",
			decl.Name, existing.Module.Name, owner.Name)
	}

	own := make(map[string]bool, len(decl.Values))
	for _, v := range decl.Values {
		if existing, ok := r.values[v]; ok {
			r.logger.Errorw("Enum value collision",
				logger.FieldValue, v,
				logger.FieldEnum, decl.Name,
				"owner", existing.Name)
			return errors.WithHint(
				errors.Wrapf(errors.ErrEnumValueCollision, "%s in %s is already a value of %s", v, decl.Name, existing.Name),
				"enum values are exported as flat constants on the package object")
		}
		if own[v] {
			return errors.Wrapf(errors.ErrEnumValueCollision, "%s listed twice in %s", v, decl.Name)
		}
		own[v] = true
	}

	e := &Enum{
		Module: owner,
		Decl:   decl,
		Name:   decl.Name,
		Values: append([]string(nil), decl.Values...),
	}
	r.enums = append(r.enums, e)
	r.byEnum[e.Name] = e
	for _, v := range e.Values {
		r.values[v] = e
	}
	if logger.Enabled(logger.OutputRegistration) {
		r.logger.Debugw("Registered enum",
			logger.FieldModule, owner.Name,
			logger.FieldEnum, e.Name,
			logger.FieldCount, len(e.Values))
	}
	return nil
}

// Classes returns every class in registration order.
func (r *Registry) Classes() []*Class {
	return r.classes
}

// Enums returns every enum in registration order.
func (r *Registry) Enums() []*Enum {
	return r.enums
}

// PrototypeOrder returns every class with each base ahead of the classes
// derived from it. Empty before Preprocess.
func (r *Registry) PrototypeOrder() []*Class {
	return r.order
}

// ClassesOf returns the classes a module registered, in registration order.
func (r *Registry) ClassesOf(m *module.Module) []*Class {
	var out []*Class
	for _, c := range r.classes {
		if c.Module == m {
			out = append(out, c)
		}
	}
	return out
}

// EnumsOf returns the enums a module registered, in registration order.
func (r *Registry) EnumsOf(m *module.Module) []*Enum {
	var out []*Enum
	for _, e := range r.enums {
		if e.Module == m {
			out = append(out, e)
		}
	}
	return out
}

// Class looks a class up by bound name.
func (r *Registry) Class(bound string) (*Class, bool) {
	c, ok := r.byBound[bound]
	return c, ok
}

// Enum looks an enum up by name.
func (r *Registry) Enum(name string) (*Enum, bool) {
	e, ok := r.byEnum[name]
	return e, ok
}

// EnumOfValue returns the enum owning a value name.
func (r *Registry) EnumOfValue(value string) (*Enum, bool) {
	e, ok := r.values[value]
	return e, ok
}

// lookupClass resolves a C++ name as written inside scope: the name as
// given, then qualified by each enclosing scope from innermost outwards.
func (r *Registry) lookupClass(name string, scope []string) *Class {
	if c, ok := r.bySource[name]; ok {
		return c
	}
	for i := len(scope); i > 0; i-- {
		if c, ok := r.bySource[strings.Join(scope[:i], "::")+"::"+name]; ok {
			return c
		}
	}
	return nil
}

func (r *Registry) lookupEnum(name string, scope []string) *Enum {
	short := name
	if i := strings.LastIndex(name, "::"); i >= 0 {
		short = name[i+2:]
	}
	e, ok := r.byEnum[short]
	if !ok {
		return nil
	}
	// A qualified reference must agree with where the enum is declared
	if short != name && e.Decl.QualifiedName() != name && !strings.HasSuffix(e.Decl.QualifiedName(), "::"+name) {
		return nil
	}
	return e
}

func canonical(n cppname.Name) (string, error) {
	return cppname.Canonicalize(n)
}
