package header

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/tools/txtar"

	"github.com/teranos/jsbind/cppname"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
)

func loadArchive(t *testing.T, name string) map[string][]byte {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	files := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = f.Data
	}
	return files
}

func parseFixture(t *testing.T, path string) *File {
	t.Helper()
	p, err := NewParser("-DATOMIC_API=", nil)
	require.NoError(t, err)
	file, err := p.ParseSource(context.Background(), path, loadArchive(t, "scene.txtar")[path])
	require.NoError(t, err)
	return file
}

func collect[T Decl](decls []Decl) []T {
	var out []T
	Walk(decls, func(d Decl) {
		if v, ok := d.(T); ok {
			out = append(out, v)
		}
	})
	return out
}

func findClass(t *testing.T, f *File, qualified string) *Class {
	t.Helper()
	for _, c := range collect[*Class](f.Decls) {
		if c.QualifiedName() == qualified && !c.Forward {
			return c
		}
	}
	t.Fatalf("class %s not found", qualified)
	return nil
}

func findMethod(c *Class, name string) *Method {
	for _, m := range c.Methods() {
		if m.MemberName() == name {
			return m
		}
	}
	return nil
}

func TestParseSource_Class(t *testing.T) {
	f := parseFixture(t, "Scene/Node.h")
	node := findClass(t, f, "Atomic::Node")

	assert.Equal(t, "Scene/Node.h", node.Header)
	assert.Equal(t, []string{"Atomic"}, node.Scope)
	assert.Contains(t, node.Doc, "Scene node that may contain components")
	require.Len(t, node.Bases, 1)
	assert.Equal(t, Public, node.Bases[0].Access)
	assert.Equal(t, "Object", cppname.MustCanonicalize(node.Bases[0].Name))

	ctor := findMethod(node, "Node")
	require.NotNil(t, ctor)
	assert.True(t, ctor.Constructor)
	require.Len(t, ctor.Params, 1)
	assert.Equal(t, "context", ctor.Params[0].Name)
	assert.Equal(t, Type{Name: "Context", Pointer: 1}, ctor.Params[0].Type)

	assert.Nil(t, findMethod(node, "OBJECT"), "macro invocations are not members")

	dtor := findMethod(node, "~Node")
	require.NotNil(t, dtor)
	assert.True(t, dtor.Destructor)
	assert.True(t, dtor.Virtual)

	setName := findMethod(node, "SetName")
	require.NotNil(t, setName)
	assert.Equal(t, Public, setName.Access)
	assert.True(t, setName.Return.IsVoid())
	assert.Equal(t, Type{Name: "String", Const: true, Ref: true}, setName.Params[0].Type)
	assert.Equal(t, "Set name of the scene node.", setName.Doc)

	getName := findMethod(node, "GetName")
	require.NotNil(t, getName, "inline definitions are members")
	assert.True(t, getName.Const)
	assert.Equal(t, "const String&", getName.Return.String())

	parent := findMethod(node, "GetParent")
	require.NotNil(t, parent)
	assert.Equal(t, Type{Name: "Node", Pointer: 1}, parent.Return)

	register := findMethod(node, "RegisterObject")
	require.NotNil(t, register)
	assert.True(t, register.Static)

	translate := findMethod(node, "Translate")
	require.NotNil(t, translate)
	require.Len(t, translate.Params, 2)
	assert.Equal(t, "TS_LOCAL", translate.Params[1].Default)

	eq := findMethod(node, "operator_eq")
	require.NotNil(t, eq)
	assert.Equal(t, cppname.Operator{Kind: cppname.OpEqual}, eq.Name)

	update := findMethod(node, "OnUpdate")
	require.NotNil(t, update)
	assert.True(t, update.Pure)

	dirty := findMethod(node, "MarkDirty")
	require.NotNil(t, dirty)
	assert.Equal(t, Protected, dirty.Access)

	var fields []string
	for _, m := range node.Members {
		if field, ok := m.(*Field); ok {
			assert.Equal(t, Private, field.Access)
			fields = append(fields, field.Name)
		}
	}
	assert.Equal(t, []string{"name_", "id_", "parent_"}, fields)
}

func TestParseSource_Conditionals(t *testing.T) {
	f := parseFixture(t, "Scene/Node.h")
	node := findClass(t, f, "Atomic::Node")
	assert.Nil(t, findMethod(node, "ApplyImpulse"))
	assert.NotNil(t, findMethod(node, "NoPhysics"))

	p, err := NewParser("-DATOMIC_API= -DATOMIC_PHYSICS", nil)
	require.NoError(t, err)
	withPhysics, err := p.ParseSource(context.Background(), "Scene/Node.h", loadArchive(t, "scene.txtar")["Scene/Node.h"])
	require.NoError(t, err)
	node = findClass(t, withPhysics, "Atomic::Node")
	assert.NotNil(t, findMethod(node, "ApplyImpulse"))
	assert.Nil(t, findMethod(node, "NoPhysics"))
}

func TestParseSource_EnumsAndTypedefs(t *testing.T) {
	f := parseFixture(t, "Scene/Node.h")

	enums := collect[*Enum](f.Decls)
	require.Len(t, enums, 1)
	assert.Equal(t, "Atomic::TransformSpace", enums[0].QualifiedName())
	assert.Equal(t, []string{"TS_LOCAL", "TS_PARENT", "TS_WORLD"}, enums[0].Values)
	assert.False(t, enums[0].Scoped)

	typedefs := collect[*Typedef](f.Decls)
	require.Len(t, typedefs, 2)
	assert.Equal(t, "NodeID", typedefs[0].Name)
	assert.Equal(t, "unsigned", typedefs[0].Target.Name)
	assert.Equal(t, "NodeName", typedefs[1].Name)
	assert.Equal(t, "String", typedefs[1].Target.Name)

	state := findClass(t, f, "Atomic::NodeReplicationState")
	assert.True(t, state.Struct)
	for _, m := range state.Members {
		assert.Equal(t, Public, m.(*Field).Access, "struct members default to public")
	}
}

func TestParseSource_NestedNamespacesAndBases(t *testing.T) {
	f := parseFixture(t, "Graphics/Drawable.h")
	drawable := findClass(t, f, "Atomic::Graphics::Drawable")

	require.Len(t, drawable.Bases, 2)
	assert.Equal(t, "Atomic::Component", cppname.MustCanonicalize(drawable.Bases[0].Name))
	assert.Equal(t, Public, drawable.Bases[0].Access)
	assert.Equal(t, Private, drawable.Bases[1].Access)

	assert.Nil(t, findMethod(drawable, "GetComponent"), "member templates are skipped")
	assert.NotNil(t, findMethod(drawable, "GetLodDistance"))

	enums := collect[*Enum](f.Decls)
	require.Len(t, enums, 1)
	assert.True(t, enums[0].Scoped)
	assert.Equal(t, "Atomic::Graphics::Drawable::UpdateGeometryType", enums[0].QualifiedName())
}

func TestPreprocess(t *testing.T) {
	f := parseFixture(t, "Scene/Node.h")
	unit := Preprocess([]*File{f})

	assert.Equal(t, []string{"Atomic::Component", "Atomic::Scene"}, unit.Stubs)

	node := findClass(t, f, "Atomic::Node")
	assert.Equal(t, Type{Name: "unsigned"}, findMethod(node, "GetID").Return)
	assert.Equal(t, Type{Name: "String", Const: true}, unit.Resolve(Type{Name: "NodeName", Const: true}))
}

func TestPreprocess_ForwardResolvedInModule(t *testing.T) {
	forward := &File{Path: "A.h", Decls: []Decl{&Class{Name: "B", Forward: true}}}
	full := &File{Path: "B.h", Decls: []Decl{&Class{Name: "B"}}}
	unit := Preprocess([]*File{forward, full})
	assert.Empty(t, unit.Stubs)
}

func TestPreprocess_TypedefChainAndCycle(t *testing.T) {
	f := &File{Decls: []Decl{
		&Typedef{Name: "Handle", Target: Type{Name: "Ptr", Pointer: 1}},
		&Typedef{Name: "Ptr", Target: Type{Name: "Object", Const: true}},
		&Typedef{Name: "A", Target: Type{Name: "B"}},
		&Typedef{Name: "B", Target: Type{Name: "A"}},
	}}
	unit := Preprocess([]*File{f})
	assert.Equal(t, Type{Name: "Object", Const: true, Pointer: 1}, unit.Resolve(Type{Name: "Handle"}))
	assert.NotPanics(t, func() { unit.Resolve(Type{Name: "A"}) })
}

func TestParse_MissingHeader(t *testing.T) {
	p, err := NewParser("", []string{t.TempDir()})
	require.NoError(t, err)

	_, err = p.Parse(context.Background(), "Nope.h")
	assert.True(t, errors.Is(err, errors.ErrMissingResource))

	_, err = p.Parse(context.Background(), filepath.Join(t.TempDir(), "Abs.h"))
	assert.True(t, errors.Is(err, errors.ErrMissingResource))
}

func TestParse_IncludeDirs(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "Core.h"), []byte("class Core {};\n"), 0644))

	p, err := NewParser("", []string{first, second})
	require.NoError(t, err)
	f, err := p.Parse(context.Background(), "Core.h")
	require.NoError(t, err)
	assert.Equal(t, "Core.h", f.Path)
	require.Len(t, f.Decls, 1)
	assert.Equal(t, "Core", f.Decls[0].(*Class).Name)
}

func TestParseSource_SyntaxDiagnostics(t *testing.T) {
	savedLogger, savedVerbosity := logger.Logger, logger.Verbosity
	defer func() { logger.Logger, logger.Verbosity = savedLogger, savedVerbosity }()

	core, logs := observer.New(zapcore.DebugLevel)
	logger.Logger = zap.New(core).Sugar()
	src := []byte("class Broken { void Run(; };\nclass Fine {};\n")

	for _, verbosity := range []int{logger.VerbosityDebug, logger.VerbosityTrace} {
		logger.Verbosity = verbosity
		p, err := NewParser("", nil)
		require.NoError(t, err)
		f, err := p.ParseSource(context.Background(), "Broken.h", src)
		require.NoError(t, err)
		assert.Positive(t, f.SyntaxErrors)
	}

	entries := logs.FilterMessage("Header contains syntax the front end skipped").All()
	require.Len(t, entries, 1, "only -vvv reports tolerated syntax errors")
	assert.Equal(t, "Broken.h", entries[0].ContextMap()[logger.FieldHeader])
}

func TestParseDefines(t *testing.T) {
	defines, err := ParseDefines(`-DATOMIC_API= -D NAME="a b" -DFLAG -DGONE -UGONE -I/usr/include -O2`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ATOMIC_API": "", "NAME": "a b", "FLAG": "1"}, defines)

	_, err = ParseDefines(`-D`)
	assert.Error(t, err)

	_, err = ParseDefines(`-DX="unterminated`)
	assert.Error(t, err)
}

func TestExpand_SkipsDirectives(t *testing.T) {
	p, err := NewParser("-DATOMIC_API=", nil)
	require.NoError(t, err)
	out := string(p.expand([]byte("#ifdef ATOMIC_API\nclass ATOMIC_API Foo {};\n#endif\n")))
	assert.Equal(t, "#ifdef ATOMIC_API\nclass  Foo {};\n#endif\n", out)
	assert.True(t, p.Defined("ATOMIC_API"))
}
