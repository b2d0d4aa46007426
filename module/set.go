package module

import (
	"os"
	"path/filepath"

	"github.com/teranos/jsbind/errors"
)

// Index is the JSON record of modules/Modules.json. Module order is emission order.
type Index struct {
	Modules []string `json:"modules"`
}

// LoadIndex reads the ordered module list.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrMissingResource, "module index %s", path),
			"set modules.dir in jsbind.toml or run from the project root")
	}

	var idx Index
	if err := decodeStrict(data, &idx); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "module index %s", path), errors.ErrDescriptor)
	}
	if len(idx.Modules) == 0 {
		return nil, errors.Wrapf(errors.ErrDescriptor, "module index %s lists no modules", path)
	}
	return &idx, nil
}

// LoadSet loads every module listed in dir/index, in index order. A
// descriptor whose name differs from its index entry is rejected.
func LoadSet(root, dir, index string) ([]*Module, error) {
	idx, err := LoadIndex(filepath.Join(dir, index))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(idx.Modules))
	modules := make([]*Module, 0, len(idx.Modules))
	for _, name := range idx.Modules {
		if seen[name] {
			return nil, errors.Wrapf(errors.ErrDescriptor, "module %s listed twice in %s", name, index)
		}
		seen[name] = true

		m, err := Open(root, filepath.Join(dir, name+".json"))
		if err != nil {
			return nil, err
		}
		if m.Name != name {
			return nil, errors.Wrapf(errors.ErrDescriptor, "descriptor %s declares module %q, index lists %q", m.Path, m.Name, name)
		}
		modules = append(modules, m)
	}
	return modules, nil
}
