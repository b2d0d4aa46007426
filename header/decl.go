// Package header is the C++ front end: it parses binding headers with
// tree-sitter and reduces each one to the declarations the generator cares
// about. Function bodies, templates and free functions are dropped; classes,
// enums, typedefs and namespaces are kept with their source order.
package header

import (
	"strings"

	"github.com/teranos/jsbind/cppname"
)

// File is the declaration tree of one parsed header.
type File struct {
	Path  string
	Decls []Decl
	// SyntaxErrors counts ERROR nodes tree-sitter recovered from
	SyntaxErrors int
}

// Decl is a namespace-level declaration: *Namespace, *Class, *Enum or *Typedef.
type Decl interface {
	decl()
}

// Namespace groups declarations under a name. Anonymous namespaces have an empty Name.
type Namespace struct {
	Name  string
	Decls []Decl
}

// Access is a C++ member access level.
type Access int

const (
	Private Access = iota
	Protected
	Public
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

func parseAccess(s string) Access {
	switch strings.TrimSuffix(strings.TrimSpace(s), ":") {
	case "public":
		return Public
	case "protected":
		return Protected
	default:
		return Private
	}
}

// Class is a class or struct. Forward declarations have no members.
type Class struct {
	Name    string
	Scope   []string // enclosing namespaces and classes, outermost first
	Struct  bool
	Forward bool
	Bases   []Base
	Members []Member
	Nested  []Decl
	Header  string
	Line    int
	Doc     string
}

// Base is one entry of a base-class clause.
type Base struct {
	Access  Access
	Virtual bool
	Name    cppname.Name
}

// QualifiedName is the "::"-joined scope and name.
func (c *Class) QualifiedName() string {
	return qualify(c.Scope, c.Name)
}

// SourceName is the class name as a structured, qualified Name.
func (c *Class) SourceName() cppname.Name {
	return cppname.Qualify(append(append([]string{}, c.Scope...), c.Name)...)
}

// Methods returns the method members in declaration order.
func (c *Class) Methods() []*Method {
	var out []*Method
	for _, m := range c.Members {
		if method, ok := m.(*Method); ok {
			out = append(out, method)
		}
	}
	return out
}

// Member is a *Method or *Field.
type Member interface {
	member()
	MemberName() string
}

// Method is a member function, constructor, destructor or operator.
type Method struct {
	Name        cppname.Name
	Return      Type
	Params      []Param
	Access      Access
	Static      bool
	Const       bool
	Virtual     bool
	Pure        bool
	Variadic    bool
	Constructor bool
	Destructor  bool
	Line        int
	Doc         string
}

// MemberName is the canonical spelling of the method name.
func (m *Method) MemberName() string {
	return cppname.Spelling(m.Name)
}

// Param is one function parameter.
type Param struct {
	Name    string
	Type    Type
	Default string
}

// Field is a data member.
type Field struct {
	Name   string
	Type   Type
	Access Access
	Static bool
	Line   int
}

// MemberName returns the field name.
func (f *Field) MemberName() string {
	return f.Name
}

// Type is a reduced C++ type: a base spelling plus the qualifiers the
// generator distinguishes.
type Type struct {
	Name    string // normalized base spelling without cv, pointer or reference
	Const   bool
	Pointer int
	Ref     bool
}

// String renders the type the way it is written in generated code.
func (t Type) String() string {
	var sb strings.Builder
	if t.Const {
		sb.WriteString("const ")
	}
	sb.WriteString(t.Name)
	sb.WriteString(strings.Repeat("*", t.Pointer))
	if t.Ref {
		sb.WriteByte('&')
	}
	return sb.String()
}

// IsVoid reports a plain void return.
func (t Type) IsVoid() bool {
	return t.Name == "void" && t.Pointer == 0
}

// Short is the unqualified part of the base spelling.
func (t Type) Short() string {
	if i := strings.LastIndex(t.Name, "::"); i >= 0 && !strings.Contains(t.Name[i:], "<") {
		return t.Name[i+2:]
	}
	return t.Name
}

// Enum is an enumeration with its value names in declaration order.
type Enum struct {
	Name   string
	Scope  []string
	Scoped bool // enum class
	Values []string
	Header string
	Line   int
	Doc    string
}

// QualifiedName is the "::"-joined scope and name.
func (e *Enum) QualifiedName() string {
	return qualify(e.Scope, e.Name)
}

// Typedef is a typedef or using-alias.
type Typedef struct {
	Name   string
	Scope  []string
	Target Type
}

// QualifiedName is the "::"-joined scope and name.
func (t *Typedef) QualifiedName() string {
	return qualify(t.Scope, t.Name)
}

func (*Namespace) decl() {}
func (*Class) decl()     {}
func (*Enum) decl()      {}
func (*Typedef) decl()   {}

func (*Method) member() {}
func (*Field) member()  {}

func qualify(scope []string, name string) string {
	if len(scope) == 0 {
		return name
	}
	return strings.Join(scope, "::") + "::" + name
}

// Walk calls fn for every declaration in source order, descending into
// namespaces and nested class declarations.
func Walk(decls []Decl, fn func(Decl)) {
	for _, d := range decls {
		fn(d)
		switch d := d.(type) {
		case *Namespace:
			Walk(d.Decls, fn)
		case *Class:
			Walk(d.Nested, fn)
		}
	}
}
