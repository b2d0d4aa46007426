// Package manifest records the files a generation run produced, so the next
// run can remove outputs that are no longer generated and check can compare
// a fresh run against the tree.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/teranos/jsbind/emit"
	"github.com/teranos/jsbind/errors"
)

// Entry is one generated file.
type Entry struct {
	Path   string `yaml:"path" json:"path"` // root-relative, slash separated
	SHA256 string `yaml:"sha256" json:"sha256"`
	Bytes  int    `yaml:"bytes" json:"bytes"`
}

// Manifest lists the outputs of one run.
type Manifest struct {
	Generator string  `yaml:"generator" json:"generator"`
	Package   string  `yaml:"package" json:"package"`
	Files     []Entry `yaml:"files" json:"files"`
}

// Load reads a manifest. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "unmarshal manifest %s", path),
			"delete the manifest to regenerate it; stale outputs will not be removed on that run")
	}
	return &m, nil
}

// Save writes the manifest with entries sorted by path.
func (m *Manifest) Save(path string) error {
	sort.Slice(m.Files, func(i, j int) bool {
		return m.Files[i].Path < m.Files[j].Path
	})
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}
	return emit.WriteFile(path, data)
}

// Hash is the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Add hashes a generated file and records it relative to root, replacing an
// existing entry for the same path.
func (m *Manifest) Add(root, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "hash %s", path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return errors.Wrapf(err, "%s is not below %s", path, root)
	}
	e := Entry{Path: filepath.ToSlash(rel), SHA256: Hash(data), Bytes: len(data)}

	for i := range m.Files {
		if m.Files[i].Path == e.Path {
			m.Files[i] = e
			return nil
		}
	}
	m.Files = append(m.Files, e)
	return nil
}

// Lookup finds the entry for a root-relative path.
func (m *Manifest) Lookup(rel string) (Entry, bool) {
	rel = filepath.ToSlash(rel)
	for _, e := range m.Files {
		if e.Path == rel {
			return e, true
		}
	}
	return Entry{}, false
}

// Stale returns the paths m records that next does not, sorted.
func (m *Manifest) Stale(next *Manifest) []string {
	keep := make(map[string]bool, len(next.Files))
	for _, e := range next.Files {
		keep[e.Path] = true
	}
	var out []string
	for _, e := range m.Files {
		if !keep[e.Path] {
			out = append(out, e.Path)
		}
	}
	sort.Strings(out)
	return out
}

// Verify reports the recorded paths whose file under root is missing or
// differs from the recorded hash.
func (m *Manifest) Verify(root string) ([]string, error) {
	var changed []string
	for _, e := range m.Files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(e.Path)))
		if errors.Is(err, os.ErrNotExist) {
			changed = append(changed, e.Path)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", e.Path)
		}
		if Hash(data) != e.SHA256 {
			changed = append(changed, e.Path)
		}
	}
	return changed, nil
}
