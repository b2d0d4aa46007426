package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/header"
	jstesting "github.com/teranos/jsbind/internal/testing"
	"github.com/teranos/jsbind/module"
	"github.com/teranos/jsbind/registry"
)

func golden(t *testing.T, archive, name string) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", archive))
	require.NoError(t, err)
	for _, f := range ar.Files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	t.Fatalf("%s has no file %s", archive, name)
	return ""
}

func TestAggregate_CoreGraphics(t *testing.T) {
	modules, reg := jstesting.CoreGraphics(t)
	e := New("Atomic", modules, reg)

	got := string(e.Aggregate().Render())
	want := golden(t, "core_graphics.txtar", AggregateFileName)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSModules.cpp mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_SectionOrder(t *testing.T) {
	a := NewAggregate("Atomic")
	a.AddModule("Core")
	a.AddPrototype(Prototype{Package: "Atomic", Class: "Object"})
	a.AddModule("UI")
	out := string(a.Render())

	order := []string{
		Banner,
		"namespace Atomic",
		"extern void jsb_preinit_core (JSVM* vm);",
		"extern void jsb_init_core (JSVM* vm);",
		"extern void jsb_preinit_ui (JSVM* vm);",
		"static void jsb_modules_setup_prototypes(JSVM* vm)",
		prototypeOrderComment[0],
		prototypeOrderComment[1],
		`js_setup_prototype(vm, "Atomic", "Object", "", "", false);`,
		"void jsb_modules_preinit(JSVM* vm)",
		"jsb_preinit_core(vm);",
		"jsb_preinit_ui(vm);",
		"void jsb_modules_init(JSVM* vm)",
		"jsb_modules_preinit(vm);",
		"jsb_modules_setup_prototypes(vm);",
		"jsb_init_core(vm);",
		"jsb_init_ui(vm);",
	}
	pos := 0
	for _, s := range order {
		i := indexFrom(out, s, pos)
		require.GreaterOrEqual(t, i, 0, "%q missing or out of order", s)
		pos = i + len(s)
	}
}

func indexFrom(s, sub string, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestModuleSource_Graphics(t *testing.T) {
	modules, reg := jstesting.CoreGraphics(t)
	e := New("Atomic", modules, reg)
	out := string(e.ModuleSource(modules[1]))

	for _, want := range []string{
		"#include <Atomic/Graphics/Drawable.h>",
		"#include <Atomic/Graphics/Graphics.h>",
		"static duk_ret_t jsb_constructor_Drawable(duk_context* ctx)",
		"   Atomic::Drawable* native = new Atomic::Drawable();",
		"   Atomic::BlendMode mode = (Atomic::BlendMode) ((int) duk_to_number(ctx, 0));",
		"   native->SetBlendMode(mode);",
		"   BlendMode retValue = native->GetBlendMode();",
		"   bool enable = duk_to_boolean(ctx, 0) ? true : false;",
		"   float bias = duk_get_top(ctx) > 0 ? (float) duk_to_number(ctx, 0) : 1.0f;",
		"   duk_push_c_function(ctx, jsb_class_Drawable_SetLodBias, DUK_VARARGS);",
		`   js_push_class_object_instance(ctx, retValue, "Object");`,
		"   unsigned retValue = Atomic::Drawable::GetCount();",
		`   duk_put_prop_string(ctx, -2, "getCount");`,
		`   duk_push_string(ctx, "blendMode");`,
		`   duk_push_string(ctx, "owner");`,
		"   duk_def_prop(ctx, -3, DUK_DEFPROP_HAVE_GETTER | DUK_DEFPROP_SET_ENUMERABLE);",
		`   js_class_declare<Atomic::Drawable>(vm, "Atomic", "Drawable", jsb_constructor_Drawable);`,
		"   // enum BlendMode",
		"   duk_push_number(ctx, (double) Atomic::OPAQUE);",
		`   duk_put_prop_string(ctx, -2, "BlendMode");`,
		"void jsb_preinit_graphics (JSVM* vm)",
		"void jsb_init_graphics (JSVM* vm)",
		"   jsb_register_enums(vm);",
	} {
		assert.Contains(t, out, want)
	}

	// inherited members come from the Object prototype
	assert.NotContains(t, out, "jsb_class_Drawable_GetTypeName")
}

func TestModuleSource_Core(t *testing.T) {
	modules, reg := jstesting.CoreGraphics(t)
	out := string(New("Atomic", modules, reg).ModuleSource(modules[0]))

	assert.Contains(t, out, "#include <Atomic/Core/Object.h>")
	assert.Contains(t, out, `js_class_declare<Atomic::Object>(vm, "Atomic", "Object", 0);`)
	assert.Contains(t, out, "   duk_push_string(ctx, retValue.CString());")
	assert.NotContains(t, out, "jsb_register_enums")
	assert.NotContains(t, out, "jsb_constructor_")
}

func TestModuleSource_ReferenceDefaults(t *testing.T) {
	scene := jstesting.NewModule("Scene", "Source/Atomic/Scene/Node.h")

	other := jstesting.Param("other", "const Node&")
	other.Default = "Node::EMPTY"
	parent := jstesting.Param("parent", "Node*")
	parent.Default = "0"
	node := &header.Class{
		Name:  "Node",
		Scope: []string{"Atomic"},
		Members: []header.Member{
			jstesting.Method("CopyFrom", "void", other),
			jstesting.Method("SetParent", "void", parent),
		},
	}

	reg := registry.New()
	require.NoError(t, reg.RegisterClass(scene, node, ""))
	require.NoError(t, reg.Preprocess())
	require.NoError(t, reg.Process())

	out := string(New("Atomic", []*module.Module{scene}, reg).ModuleSource(scene))

	assert.Contains(t, out, "   Atomic::Node* other = js_to_class_instance<Atomic::Node>(ctx, 0, 0);\n")
	assert.Contains(t, out, "native->CopyFrom(*other);")
	assert.Contains(t, out,
		"   Atomic::Node* parent = duk_get_top(ctx) > 0 ? js_to_class_instance<Atomic::Node>(ctx, 0, 0) : 0;\n")
}

func TestEmitAll(t *testing.T) {
	modules, reg := jstesting.CoreGraphics(t)
	dir := t.TempDir()

	written, err := New("Atomic", modules, reg).EmitAll(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "JSModules.cpp"),
		filepath.Join(dir, "JSModuleCore.cpp"),
		filepath.Join(dir, "JSModuleGraphics.cpp"),
	}, written)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files left behind")
}

func TestEmitAll_Deterministic(t *testing.T) {
	render := func() map[string][]byte {
		modules, reg := jstesting.CoreGraphics(t)
		dir := t.TempDir()
		written, err := New("Atomic", modules, reg).EmitAll(dir)
		require.NoError(t, err)
		out := make(map[string][]byte)
		for _, p := range written {
			data, err := os.ReadFile(p)
			require.NoError(t, err)
			out[filepath.Base(p)] = data
		}
		return out
	}

	first, second := render(), render()
	require.Len(t, first, 3)
	for name, data := range first {
		assert.Equal(t, string(data), string(second[name]), name)
	}
}

func TestEmitAll_WriteFailure(t *testing.T) {
	modules, reg := jstesting.CoreGraphics(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	written, err := New("Atomic", modules, reg).EmitAll(filepath.Join(blocker, "Modules"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrWriteFailed))
	assert.Empty(t, written)
}

func TestEmitAll_RegistryOpen(t *testing.T) {
	_, err := New("Atomic", nil, registry.New()).EmitAll(t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrInvalidState))
}

func TestWriteFile_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "JSModules.cpp")
	require.NoError(t, WriteFile(path, []byte("old")))
	require.NoError(t, WriteFile(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestIncludeLine(t *testing.T) {
	tests := map[string]string{
		"Source/Atomic/Scene/Node.h":   "#include <Atomic/Scene/Node.h>",
		"/work/Source/Atomic/IO/Log.h": "#include <Atomic/IO/Log.h>",
		"include/Foo.h":                `#include "include/Foo.h"`,
		"<Atomic/Graphics/Graphics.h>": "#include <Atomic/Graphics/Graphics.h>",
		`"Local.h"`:                    `#include "Local.h"`,
		"ThirdParty/OpenSource/Lib.h":  `#include "ThirdParty/OpenSource/Lib.h"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, includeLine(in), in)
	}
}
