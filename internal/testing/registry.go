package testing

import (
	"testing"

	"github.com/teranos/jsbind/cppname"
	"github.com/teranos/jsbind/header"
	"github.com/teranos/jsbind/module"
	"github.com/teranos/jsbind/registry"
)

// NewModule creates a loaded-looking module without touching the filesystem.
func NewModule(name string, headers ...string) *module.Module {
	m := module.New("")
	m.Name = name
	m.Headers = headers
	return m
}

// Method builds a public method with parsed parameter types.
func Method(name, ret string, params ...header.Param) *header.Method {
	return &header.Method{Name: cppname.Ident(name), Return: Type(ret), Params: params, Access: header.Public}
}

// Param builds a parameter.
func Param(name, t string) header.Param {
	return header.Param{Name: name, Type: Type(t)}
}

// Type parses the simple spellings used in fixtures: an optional "const "
// prefix, a base name, then any run of '*' and a trailing '&'.
func Type(s string) header.Type {
	var t header.Type
	if len(s) > 6 && s[:6] == "const " {
		t.Const = true
		s = s[6:]
	}
	for len(s) > 0 {
		switch s[len(s)-1] {
		case '*':
			t.Pointer++
		case '&':
			t.Ref = true
		default:
			t.Name = s
			return t
		}
		s = s[:len(s)-1]
	}
	return t
}

// CoreGraphics builds a closed registry for two modules: Core binds Object,
// Graphics binds BlendMode and Drawable deriving from Object.
func CoreGraphics(t *testing.T) ([]*module.Module, *registry.Registry) {
	t.Helper()

	core := NewModule("Core", "Source/Atomic/Core/Object.h")
	graphics := NewModule("Graphics", "Source/Atomic/Graphics/Drawable.h")
	graphics.Includes = []string{"<Atomic/Graphics/Graphics.h>"}

	object := &header.Class{
		Name:  "Object",
		Scope: []string{"Atomic"},
		Doc:   "Base class for objects with type identification.",
		Members: []header.Member{
			Method("GetTypeName", "const String&"),
			Method("SendEvent", "void", Param("eventType", "const String&")),
		},
	}

	lodBias := Param("bias", "float")
	lodBias.Default = "1.0f"
	count := Method("GetCount", "unsigned")
	count.Static = true

	drawable := &header.Class{
		Name:  "Drawable",
		Scope: []string{"Atomic"},
		Bases: []header.Base{{Access: header.Public, Name: cppname.Ident("Object")}},
		Doc:   "Base class for visible components.",
		Members: []header.Member{
			&header.Method{Name: cppname.Ident("Drawable"), Constructor: true, Return: Type("Drawable*"), Access: header.Public},
			Method("SetBlendMode", "void", Param("mode", "BlendMode")),
			Method("GetBlendMode", "BlendMode"),
			Method("SetVisible", "void", Param("enable", "bool")),
			Method("IsVisible", "bool"),
			Method("SetLodBias", "void", lodBias),
			Method("GetOwner", "Object*"),
			count,
		},
	}

	blendMode := &header.Enum{Name: "BlendMode", Scope: []string{"Atomic"}, Values: []string{"OPAQUE", "ALPHA"}}

	reg := registry.New()
	must(t, reg.RegisterClass(core, object, ""))
	must(t, reg.RegisterEnum(graphics, blendMode))
	must(t, reg.RegisterClass(graphics, drawable, ""))
	must(t, reg.Preprocess())
	must(t, reg.Process())

	return []*module.Module{core, graphics}, reg
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
}
