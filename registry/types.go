package registry

import (
	"github.com/teranos/jsbind/cppname"
	"github.com/teranos/jsbind/header"
	"github.com/teranos/jsbind/module"
)

// Class is a registered class. The fields below Base are filled in by Process.
type Class struct {
	Module     *module.Module
	Decl       *header.Class
	SourceName string // fully qualified C++ name
	BoundName  string // name scripts see
	BaseName   cppname.Name
	Base       *Class

	Constructor *Function
	Abstract    bool
	// Methods are the class's own bindable methods in declaration order
	Methods []*Function
	// Properties are derived from the class's own Get/Is/Set methods
	Properties []*Property
	// Inherited are base methods not hidden by a member of this class, nearest base first
	Inherited []*Function
	// InheritedProperties follow the same hiding rule as Inherited
	InheritedProperties []*Property
}

// AllMethods is the visible method set: own methods, then inherited ones.
func (c *Class) AllMethods() []*Function {
	out := make([]*Function, 0, len(c.Methods)+len(c.Inherited))
	out = append(out, c.Methods...)
	return append(out, c.Inherited...)
}

// AllProperties is the visible property set: own properties, then inherited ones.
func (c *Class) AllProperties() []*Property {
	out := make([]*Property, 0, len(c.Properties)+len(c.InheritedProperties))
	out = append(out, c.Properties...)
	return append(out, c.InheritedProperties...)
}

// Enum is a registered enum.
type Enum struct {
	Module *module.Module
	Decl   *header.Enum
	Name   string
	Values []string
}

// Kind classifies a C++ type by how it crosses into the script runtime.
type Kind int

const (
	Unsupported Kind = iota
	Void
	Bool
	Number
	String
	CString
	EnumKind
	ClassKind
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case CString:
		return "cstring"
	case EnumKind:
		return "enum"
	case ClassKind:
		return "class"
	default:
		return "unsupported"
	}
}

// TypeRef is a classified type. Class or Enum is set for the matching kinds.
type TypeRef struct {
	Kind  Kind
	Type  header.Type
	Class *Class
	Enum  *Enum
	// Shared marks SharedPtr<T> and WeakPtr<T> handles
	Shared bool
}

// Function is a bindable method or constructor.
type Function struct {
	Owner       *Class
	Decl        *header.Method
	Name        string // C++ method name
	JSName      string // lower camel name installed on the prototype
	Return      TypeRef
	Params      []Param
	Static      bool
	Constructor bool
}

// Param is a classified function parameter.
type Param struct {
	Name     string
	Type     TypeRef
	Optional bool
	Default  string // C++ default argument, empty when required
}

// RequiredParams counts parameters without a default value.
func (f *Function) RequiredParams() int {
	n := 0
	for _, p := range f.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// Property is a script property backed by a getter and an optional setter.
type Property struct {
	Name   string
	Type   TypeRef
	Getter *Function
	Setter *Function
}
