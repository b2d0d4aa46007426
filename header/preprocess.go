package header

// Unit is the normalized view of one module's headers.
type Unit struct {
	Files []*File
	// Typedefs maps short and qualified alias names to their targets
	Typedefs map[string]Type
	// Stubs lists classes only forward-declared in the unit, in first-seen order
	Stubs []string
}

// Preprocess normalizes the trees of one module: typedef and alias targets
// are substituted into member types, and forward declarations without a
// definition in the same module are collected as stubs. Trees are modified
// in place.
func Preprocess(files []*File) *Unit {
	u := &Unit{Files: files, Typedefs: make(map[string]Type)}

	defined := make(map[string]bool)
	var forward []string
	for _, f := range files {
		Walk(f.Decls, func(d Decl) {
			switch d := d.(type) {
			case *Typedef:
				for _, key := range []string{d.QualifiedName(), d.Name} {
					if _, seen := u.Typedefs[key]; !seen && key != d.Target.Name {
						u.Typedefs[key] = d.Target
					}
				}
			case *Class:
				if d.Forward {
					forward = append(forward, d.QualifiedName())
				} else {
					defined[d.QualifiedName()] = true
				}
			}
		})
	}

	seen := make(map[string]bool)
	for _, name := range forward {
		if !defined[name] && !seen[name] {
			seen[name] = true
			u.Stubs = append(u.Stubs, name)
		}
	}

	if len(u.Typedefs) == 0 {
		return u
	}
	for _, f := range files {
		Walk(f.Decls, func(d Decl) {
			c, ok := d.(*Class)
			if !ok {
				return
			}
			for _, m := range c.Members {
				switch m := m.(type) {
				case *Method:
					m.Return = u.Resolve(m.Return)
					for i := range m.Params {
						m.Params[i].Type = u.Resolve(m.Params[i].Type)
					}
				case *Field:
					m.Type = u.Resolve(m.Type)
				}
			}
		})
	}
	return u
}

// Resolve follows typedef chains from t, folding pointer, reference and const
// qualifiers of each alias into the result.
func (u *Unit) Resolve(t Type) Type {
	for i := 0; i <= len(u.Typedefs); i++ {
		target, ok := u.Typedefs[t.Name]
		if !ok {
			return t
		}
		t = Type{
			Name:    target.Name,
			Const:   t.Const || target.Const,
			Pointer: t.Pointer + target.Pointer,
			Ref:     t.Ref || target.Ref,
		}
	}
	return t
}
