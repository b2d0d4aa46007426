package registry

import (
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
)

// Preprocess closes registration, resolves every recorded base class and
// computes prototype order. Registration order is kept except that each base
// is moved ahead of the classes derived from it.
func (r *Registry) Preprocess() error {
	if r.phase != Open {
		return errors.Wrapf(errors.ErrInvalidState, "preprocess: registry is %s", r.phase)
	}
	r.phase = Preprocessed

	for _, c := range r.classes {
		if c.BaseName == nil {
			continue
		}
		name, err := canonical(c.BaseName)
		if err != nil {
			return errors.Wrapf(err, "base of %s", c.SourceName)
		}
		base := r.lookupClass(name, c.Decl.Scope)
		if base == nil {
			r.logger.Errorw("Unresolved base class",
				logger.FieldClass, c.BoundName,
				logger.FieldBase, name,
				logger.FieldModule, c.Module.Name)
			return errors.WithHintf(
				errors.Wrapf(errors.ErrUnresolvedBase, "%s derives from %s", c.SourceName, name),
				"bind %s in one of the modules, or make the inheritance non-public", name)
		}
		c.Base = base
	}

	order, err := prototypeOrder(r.classes)
	if err != nil {
		return err
	}
	r.order = order

	r.logger.Debugw("Registry preprocessed",
		logger.FieldCount, len(r.classes),
		"enums", len(r.enums))
	return nil
}

const (
	unvisited = iota
	visiting
	done
)

func prototypeOrder(classes []*Class) ([]*Class, error) {
	state := make(map[*Class]int, len(classes))
	order := make([]*Class, 0, len(classes))

	var visit func(c *Class) error
	visit = func(c *Class) error {
		switch state[c] {
		case done:
			return nil
		case visiting:
			return errors.Wrapf(errors.ErrUnresolvedBase, "inheritance cycle through %s", c.SourceName)
		}
		state[c] = visiting
		if c.Base != nil {
			if err := visit(c.Base); err != nil {
				return err
			}
		}
		state[c] = done
		order = append(order, c)
		return nil
	}

	for _, c := range classes {
		if err := visit(c); err != nil {
			return nil, err
		}
	}
	return order, nil
}
