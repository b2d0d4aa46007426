// Package cppname models parsed C++ names and turns them into canonical
// string tokens.
//
// A Name is one of a closed set of variants. Canonicalize is the single
// formatting function over all of them and is used both as a registry key
// and as a fragment of emitted symbols, so every variant must render
// deterministically and distinct structures must render distinctly.
package cppname

// Name is a parsed C++ name. The variant set is closed: only the types in
// this package implement it.
type Name interface {
	isName()
}

// Identifier is a plain name such as Object or GetWidth.
type Identifier struct {
	Spelling string
}

// TemplateId is a template instantiation such as SharedPtr<Node>.
// Args are type spellings in source order.
type TemplateId struct {
	Base string
	Args []string
}

// Destructor is ~Spelling.
type Destructor struct {
	Spelling string
}

// Operator is an overloaded operator such as operator==.
type Operator struct {
	Kind OperatorKind
}

// Conversion is a conversion operator such as operator bool.
type Conversion struct {
	Type string
}

// Qualified is a scoped name such as Atomic::Object. Qualifiers are in
// source order, outermost first.
type Qualified struct {
	Qualifiers []Name
	Name       Name
}

// Selector is a multi-part name whose parts are concatenated in source order.
type Selector struct {
	Parts []string
}

// Anonymous stands for an unnamed class, enum or namespace.
type Anonymous struct{}

func (Identifier) isName() {}
func (TemplateId) isName() {}
func (Destructor) isName() {}
func (Operator) isName()   {}
func (Conversion) isName() {}
func (Qualified) isName()  {}
func (Selector) isName()   {}
func (Anonymous) isName()  {}

// Ident is shorthand for Identifier{Spelling: s}.
func Ident(s string) Name {
	return Identifier{Spelling: s}
}

// Qualify builds a Qualified name from "::"-separated components. A single
// component yields a plain Identifier.
func Qualify(components ...string) Name {
	if len(components) == 1 {
		return Ident(components[0])
	}
	qualifiers := make([]Name, 0, len(components)-1)
	for _, c := range components[:len(components)-1] {
		qualifiers = append(qualifiers, Ident(c))
	}
	return Qualified{Qualifiers: qualifiers, Name: Ident(components[len(components)-1])}
}

// Unqualified strips any qualification and returns the final name.
func Unqualified(n Name) Name {
	for {
		q, ok := n.(Qualified)
		if !ok {
			return n
		}
		n = q.Name
	}
}
