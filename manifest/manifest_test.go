package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Missing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "jsbind.manifest.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m.Files)
}

func TestLoad_Malformed(t *testing.T) {
	path := write(t, t.TempDir(), "jsbind.manifest.yaml", "files: [oops")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Generator: "jsbind", Package: "Atomic"}
	require.NoError(t, m.Add(root, write(t, root, "Source/Modules/JSModules.cpp", "aggregate")))
	require.NoError(t, m.Add(root, write(t, root, "Bin/Atomic.d.ts", "declare module Atomic {}")))

	path := filepath.Join(root, "Source/Modules/jsbind.manifest.yaml")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Files, 2)
	assert.Equal(t, "Bin/Atomic.d.ts", loaded.Files[0].Path, "entries are sorted")
	assert.Equal(t, Hash([]byte("aggregate")), loaded.Files[1].SHA256)
	assert.Equal(t, len("aggregate"), loaded.Files[1].Bytes)
	assert.Equal(t, "Atomic", loaded.Package)
}

func TestAdd_Replaces(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{}
	path := write(t, root, "a.cpp", "one")
	require.NoError(t, m.Add(root, path))
	write(t, root, "a.cpp", "two")
	require.NoError(t, m.Add(root, path))

	require.Len(t, m.Files, 1)
	e, ok := m.Lookup("a.cpp")
	require.True(t, ok)
	assert.Equal(t, Hash([]byte("two")), e.SHA256)
}

func TestStale(t *testing.T) {
	prev := &Manifest{Files: []Entry{{Path: "JSModuleUI.cpp"}, {Path: "JSModuleCore.cpp"}, {Path: "JSModuleAudio.cpp"}}}
	next := &Manifest{Files: []Entry{{Path: "JSModuleCore.cpp"}}}

	assert.Equal(t, []string{"JSModuleAudio.cpp", "JSModuleUI.cpp"}, prev.Stale(next))
	assert.Empty(t, next.Stale(prev))
}

func TestVerify(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{}
	require.NoError(t, m.Add(root, write(t, root, "same.cpp", "x")))
	require.NoError(t, m.Add(root, write(t, root, "edited.cpp", "x")))
	require.NoError(t, m.Add(root, write(t, root, "gone.cpp", "x")))

	write(t, root, "edited.cpp", "y")
	require.NoError(t, os.Remove(filepath.Join(root, "gone.cpp")))

	changed, err := m.Verify(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"edited.cpp", "gone.cpp"}, changed)
}
