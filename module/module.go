// Package module implements module descriptors: one JSON-declared unit of
// binding work and the parse, preprocess and visit passes over its headers.
//
// A module moves strictly forward through
//
//	Unloaded -> Loaded -> HeadersParsed -> Preprocessed -> Visited
//
// and every pass checks the state it starts from.
package module

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/header"
	"github.com/teranos/jsbind/logger"
)

// State is a module's position in its pass sequence.
type State int

const (
	Unloaded State = iota
	Loaded
	HeadersParsed
	Preprocessed
	Visited
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case HeadersParsed:
		return "headers-parsed"
	case Preprocessed:
		return "preprocessed"
	case Visited:
		return "visited"
	default:
		return "unknown"
	}
}

// Descriptor is the JSON record of modules/<Name>.json.
type Descriptor struct {
	Name     string   `json:"name"`
	Headers  []string `json:"headers,omitempty"`
	Sources  []string `json:"sources,omitempty"`  // directories whose *.h files are bound
	Includes []string `json:"includes,omitempty"` // extra #include targets for the generated file
	Classes  []string `json:"classes,omitempty"`
	// Renames maps a declared class to the name scripts see
	Renames map[string]string `json:"classes_rename,omitempty"`
	// Enums lists the enums to bind; empty binds every namespace-level enum
	Enums []string `json:"enums,omitempty"`
	// Overloads picks the bound overload per class and method by parameter types
	Overloads map[string]map[string][]string `json:"overloads,omitempty"`
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// HeaderParser parses one header into a declaration tree.
type HeaderParser interface {
	Parse(ctx context.Context, path string) (*header.File, error)
}

// Registrar receives the classes and enums a module declares.
type Registrar interface {
	RegisterClass(owner *Module, class *header.Class, rename string) error
	RegisterEnum(owner *Module, enum *header.Enum) error
}

// Module is one binding unit.
type Module struct {
	Descriptor

	// Path is the descriptor file the module was loaded from
	Path string

	root   string
	state  State
	files  []*header.File
	unit   *header.Unit
	logger *zap.SugaredLogger
}

// New creates an unloaded module. Source directories in the descriptor are
// resolved against root.
func New(root string) *Module {
	return &Module{root: root, logger: logger.ComponentLogger("module")}
}

// Open creates a module and loads its descriptor.
func Open(root, path string) (*Module, error) {
	m := New(root)
	if err := m.Load(path); err != nil {
		return nil, err
	}
	return m, nil
}

// State returns the module's current state.
func (m *Module) State() State {
	return m.state
}

// Files returns the parsed header trees in header order.
func (m *Module) Files() []*header.File {
	return m.files
}

// Unit returns the preprocessed view, nil before PreprocessHeaders.
func (m *Module) Unit() *header.Unit {
	return m.unit
}

// LowerName is the module name as used in generated entry points.
func (m *Module) LowerName() string {
	return strings.ToLower(m.Name)
}

// Rename returns the bound name configured for a class, if any.
func (m *Module) Rename(class *header.Class) string {
	if r, ok := m.Renames[class.QualifiedName()]; ok {
		return r
	}
	return m.Renames[class.Name]
}

// Overload returns the parameter type list selected for class.method.
func (m *Module) Overload(class, method string) ([]string, bool) {
	methods, ok := m.Overloads[class]
	if !ok {
		return nil, false
	}
	params, ok := methods[method]
	return params, ok
}

func (m *Module) expect(want State, op string) error {
	if m.state != want {
		return errors.Wrapf(errors.ErrInvalidState, "module %s: %s requires state %s, module is %s",
			m.Name, op, want, m.state)
	}
	return nil
}

// Load reads and validates the descriptor at path.
func (m *Module) Load(path string) error {
	if err := m.expect(Unloaded, "Load"); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrMissingResource, "module descriptor %s", path)
		}
		return errors.Mark(errors.Wrapf(err, "failed to read module descriptor %s", path), errors.ErrMissingResource)
	}

	var d Descriptor
	if err := decodeStrict(data, &d); err != nil {
		return errors.WithHint(
			errors.Mark(errors.Wrapf(err, "module descriptor %s", path), errors.ErrDescriptor),
			"descriptor keys are name, headers, sources, includes, classes, classes_rename, enums and overloads")
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if !identRe.MatchString(d.Name) {
		return errors.Wrapf(errors.ErrDescriptor, "module descriptor %s: name %q is not an identifier", path, d.Name)
	}

	headers, err := m.expandSources(d)
	if err != nil {
		return err
	}
	d.Headers = headers
	if len(d.Headers) == 0 {
		return errors.Wrapf(errors.ErrDescriptor, "module %s declares no headers", d.Name)
	}

	m.Descriptor = d
	m.Path = path
	m.state = Loaded
	m.logger.Debugw("Loaded module descriptor",
		logger.FieldModule, d.Name,
		logger.FieldFile, path,
		logger.FieldCount, len(d.Headers))
	return nil
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// expandSources appends the *.h files of each source directory, sorted, to
// the explicit header list, dropping duplicates.
func (m *Module) expandSources(d Descriptor) ([]string, error) {
	seen := make(map[string]bool)
	var headers []string
	add := func(h string) {
		h = filepath.ToSlash(h)
		if !seen[h] {
			seen[h] = true
			headers = append(headers, h)
		}
	}
	for _, h := range d.Headers {
		add(h)
	}
	for _, dir := range d.Sources {
		abs := dir
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(m.root, dir)
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrMissingResource, "module %s: source directory %s", d.Name, dir)
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".h") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			add(filepath.Join(dir, n))
		}
	}
	return headers, nil
}

// ParseHeaders parses every declared header in order. A missing header
// fails the whole module.
func (m *Module) ParseHeaders(ctx context.Context, parser HeaderParser) error {
	if err := m.expect(Loaded, "ParseHeaders"); err != nil {
		return err
	}

	files := make([]*header.File, 0, len(m.Headers))
	for _, h := range m.Headers {
		f, err := parser.Parse(ctx, h)
		if err != nil {
			return errors.Wrapf(err, "module %s", m.Name)
		}
		files = append(files, f)
	}

	m.files = files
	m.state = HeadersParsed
	m.logger.Infow("Parsed module headers",
		logger.FieldModule, m.Name,
		logger.FieldCount, len(files))
	return nil
}

// PreprocessHeaders runs module-local normalization over the parsed trees.
func (m *Module) PreprocessHeaders() error {
	if err := m.expect(HeadersParsed, "PreprocessHeaders"); err != nil {
		return err
	}

	m.unit = header.Preprocess(m.files)
	m.state = Preprocessed
	if len(m.unit.Stubs) > 0 {
		m.logger.Debugw("Module references forward-declared classes",
			logger.FieldModule, m.Name,
			"stubs", m.unit.Stubs)
	}
	return nil
}

// VisitHeaders registers the module's declared classes and enums in header
// and declaration order. A declared class or enum that none of the headers
// define is a missing resource.
func (m *Module) VisitHeaders(reg Registrar) error {
	if err := m.expect(Preprocessed, "VisitHeaders"); err != nil {
		return err
	}

	wantClasses := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		wantClasses[c] = true
	}
	wantEnums := make(map[string]bool, len(m.Enums))
	for _, e := range m.Enums {
		wantEnums[e] = true
	}
	found := make(map[string]bool)
	nested := nestedEnums(m.files)

	var err error
	for _, f := range m.files {
		header.Walk(f.Decls, func(d header.Decl) {
			if err != nil {
				return
			}
			switch d := d.(type) {
			case *header.Class:
				if d.Forward {
					return
				}
				key := matchName(wantClasses, d.QualifiedName(), d.Name)
				if key == "" || found["class:"+key] {
					return
				}
				found["class:"+key] = true
				err = reg.RegisterClass(m, d, m.Rename(d))
			case *header.Enum:
				if d.Name == "" {
					return
				}
				key := matchName(wantEnums, d.QualifiedName(), d.Name)
				if len(m.Enums) == 0 && !nested[d] {
					key = d.QualifiedName()
				}
				if key == "" || found["enum:"+key] {
					return
				}
				found["enum:"+key] = true
				err = reg.RegisterEnum(m, d)
			}
		})
		if err != nil {
			return errors.Wrapf(err, "module %s", m.Name)
		}
	}

	for _, c := range m.Classes {
		if !found["class:"+c] {
			return errors.WithHintf(
				errors.Wrapf(errors.ErrMissingResource, "module %s: class %s not found in its headers", m.Name, c),
				"add the header that defines %s to modules/%s.json", c, m.Name)
		}
	}
	for _, e := range m.Enums {
		if !found["enum:"+e] {
			return errors.Wrapf(errors.ErrMissingResource, "module %s: enum %s not found in its headers", m.Name, e)
		}
	}

	m.state = Visited
	return nil
}

func matchName(want map[string]bool, qualified, short string) string {
	if want[qualified] {
		return qualified
	}
	if want[short] {
		return short
	}
	return ""
}

// nestedEnums collects the enums declared inside class bodies.
func nestedEnums(files []*header.File) map[*header.Enum]bool {
	nested := make(map[*header.Enum]bool)
	for _, f := range files {
		header.Walk(f.Decls, func(d header.Decl) {
			c, ok := d.(*header.Class)
			if !ok {
				return
			}
			for _, n := range c.Nested {
				if e, ok := n.(*header.Enum); ok {
					nested[e] = true
				}
			}
		})
	}
	return nested
}
