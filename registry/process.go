package registry

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/jsbind/cppname"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/header"
	"github.com/teranos/jsbind/logger"
)

// Process finalizes every class's bindable members and closes the registry.
// Classes are processed in prototype order so base member sets are complete
// before a derived class computes its inherited members.
func (r *Registry) Process() error {
	if r.phase != Preprocessed {
		return errors.Wrapf(errors.ErrInvalidState, "process: registry is %s, want %s", r.phase, Preprocessed)
	}

	for _, c := range r.order {
		if err := r.processClass(c); err != nil {
			return err
		}
	}
	r.phase = Closed

	r.logger.Infow("Registry closed",
		logger.FieldCount, len(r.classes),
		"enums", len(r.enums))
	return nil
}

func (r *Registry) processClass(c *Class) error {
	log := logger.ChildLogger(r.logger, logger.FieldClass, c.BoundName)

	var ctors []*Function
	groups := make(map[string][]*Function)
	var names []string

	for _, m := range c.Decl.Methods() {
		if m.Pure {
			c.Abstract = true
		}
		if skip := skipReason(m); skip != "" {
			log.Debugw("Skipping member", logger.FieldMethod, cppname.Spelling(m.Name), "reason", skip)
			continue
		}
		f, unsupported := r.function(c, m)
		if unsupported != "" {
			log.Debugw("Skipping member", logger.FieldMethod, f.Name, "reason", "unsupported type "+unsupported)
			continue
		}
		if m.Constructor {
			ctors = append(ctors, f)
			continue
		}
		if _, seen := groups[f.Name]; !seen {
			names = append(names, f.Name)
		}
		groups[f.Name] = append(groups[f.Name], f)
	}

	if !c.Abstract && len(ctors) > 0 {
		ctor, err := selectOverload(c, c.Decl.Name, ctors)
		if err != nil {
			return err
		}
		c.Constructor = ctor
	}

	for _, name := range names {
		f, err := selectOverload(c, name, groups[name])
		if err != nil {
			return err
		}
		c.Methods = append(c.Methods, f)
	}
	c.Properties = deriveProperties(c.Methods)

	if c.Base != nil {
		declared := make(map[string]bool, len(c.Decl.Members))
		for _, m := range c.Decl.Members {
			declared[m.MemberName()] = true
		}
		for _, f := range c.Base.AllMethods() {
			if !declared[f.Name] {
				c.Inherited = append(c.Inherited, f)
			}
		}
		own := make(map[string]bool, len(c.Properties))
		for _, p := range c.Properties {
			own[p.Name] = true
		}
		for _, p := range c.Base.AllProperties() {
			if own[p.Name] || hidden(p, declared) {
				continue
			}
			c.InheritedProperties = append(c.InheritedProperties, p)
		}
	}

	if logger.Enabled(logger.OutputRegistration) {
		log.Debugw("Processed class",
			"methods", len(c.Methods),
			"properties", len(c.Properties),
			"inherited", len(c.Inherited),
			"constructor", c.Constructor != nil)
	}
	return nil
}

// hidden reports whether a property's accessors are hidden by a member the
// class declares itself.
func hidden(p *Property, declared map[string]bool) bool {
	if declared[p.Getter.Name] {
		return true
	}
	return p.Setter != nil && declared[p.Setter.Name]
}

func skipReason(m *header.Method) string {
	switch {
	case m.Access != header.Public:
		return m.Access.String()
	case m.Destructor:
		return "destructor"
	case m.Variadic:
		return "variadic"
	}
	switch m.Name.(type) {
	case cppname.Operator:
		return "operator"
	case cppname.Conversion:
		return "conversion"
	case cppname.TemplateId:
		return "template"
	case nil:
		return "unnamed"
	}
	return ""
}

// function classifies a method. The second result names the first
// unsupported type, empty when the method is bindable.
func (r *Registry) function(c *Class, m *header.Method) (*Function, string) {
	name := cppname.Spelling(m.Name)
	f := &Function{
		Owner:       c,
		Decl:        m,
		Name:        name,
		JSName:      LowerCamel(name),
		Static:      m.Static,
		Constructor: m.Constructor,
	}
	if m.Constructor {
		f.Return = TypeRef{Kind: ClassKind, Type: m.Return, Class: c}
	} else {
		f.Return = r.classify(m.Return, c.Decl.Scope)
		if f.Return.Kind == Unsupported {
			return f, m.Return.String()
		}
	}
	for i, p := range m.Params {
		t := r.classify(p.Type, c.Decl.Scope)
		if t.Kind == Unsupported || t.Kind == Void {
			return f, p.Type.String()
		}
		pname := p.Name
		if pname == "" {
			pname = "arg" + strconv.Itoa(i)
		}
		f.Params = append(f.Params, Param{Name: pname, Type: t, Optional: p.Default != "", Default: p.Default})
	}
	requireReferenceDefaults(f.Params)
	return f, ""
}

// requireReferenceDefaults makes a defaulted class reference parameter
// required, along with every parameter before it. The glue holds class
// arguments as pointers and has no value to bind the reference to when the
// script omits one.
func requireReferenceDefaults(params []Param) {
	last := -1
	for i, p := range params {
		if p.Optional && p.Type.Kind == ClassKind && p.Type.Type.Ref {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		params[i].Optional = false
	}
}

// selectOverload picks the declaration bound for one name. A descriptor
// entry selects by parameter types; otherwise the first declaration wins.
func selectOverload(c *Class, name string, candidates []*Function) (*Function, error) {
	want, ok := c.Module.Overload(c.BoundName, name)
	if !ok && c.BoundName != c.Decl.Name {
		want, ok = c.Module.Overload(c.Decl.Name, name)
	}
	if !ok {
		return candidates[0], nil
	}
	for _, f := range candidates {
		if sameParams(f, want) {
			return f, nil
		}
	}
	return nil, errors.WithHint(
		errors.Wrapf(errors.ErrDescriptor, "overload %s::%s(%s) matches no bindable declaration",
			c.BoundName, name, strings.Join(want, ", ")),
		"parameter types must be spelled as in the header")
}

func sameParams(f *Function, want []string) bool {
	if len(f.Params) != len(want) {
		return false
	}
	for i, p := range f.Params {
		if cppname.NormalizeType(p.Type.Type.String()) != cppname.NormalizeType(want[i]) {
			return false
		}
	}
	return true
}

// deriveProperties pairs GetX/IsX getters with SetX setters of the same
// kind. Properties appear in getter order; a setter without a getter makes
// no property.
func deriveProperties(methods []*Function) []*Property {
	setters := make(map[string]*Function)
	for _, f := range methods {
		if rest, ok := accessorName(f.Name, "Set"); ok && isSetter(f) {
			setters[rest] = f
		}
	}

	var out []*Property
	seen := make(map[string]bool)
	for _, f := range methods {
		if !isGetter(f) {
			continue
		}
		rest, ok := accessorName(f.Name, "Get")
		if !ok {
			if rest, ok = accessorName(f.Name, "Is"); !ok || f.Return.Kind != Bool {
				continue
			}
		}
		name := LowerCamel(rest)
		if seen[name] {
			continue
		}
		seen[name] = true
		p := &Property{Name: name, Type: f.Return, Getter: f}
		if s, ok := setters[rest]; ok && sameKind(s.Params[0].Type, f.Return) {
			p.Setter = s
		}
		out = append(out, p)
	}
	return out
}

func isGetter(f *Function) bool {
	return !f.Static && len(f.Params) == 0 && f.Return.Kind != Void
}

func isSetter(f *Function) bool {
	return !f.Static && len(f.Params) == 1 && f.Return.Kind == Void
}

func sameKind(a, b TypeRef) bool {
	return a.Kind == b.Kind && a.Class == b.Class && a.Enum == b.Enum
}

// accessorName strips prefix when it is followed by an upper-case letter.
func accessorName(name, prefix string) (string, bool) {
	rest := strings.TrimPrefix(name, prefix)
	if len(rest) == len(name) || rest == "" || !unicode.IsUpper(rune(rest[0])) {
		return "", false
	}
	return rest, true
}

// LowerCamel lower-cases a leading run of capitals, keeping the last one of
// a run when a lower-case letter follows: Position becomes position, ID
// becomes id and URLPath becomes urlPath.
func LowerCamel(s string) string {
	runes := []rune(s)
	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
