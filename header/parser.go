package header

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"go.uber.org/zap"

	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/logger"
)

// Parser turns header files into declaration trees. It is not safe for
// concurrent use.
type Parser struct {
	defines     map[string]string
	includeDirs []string
	logger      *zap.SugaredLogger
}

// NewParser creates a parser. cflags is a shell-quoted compiler flag string;
// only -D and -U are interpreted. Relative header paths are looked up in
// includeDirs in order.
func NewParser(cflags string, includeDirs []string) (*Parser, error) {
	defines, err := ParseDefines(cflags)
	if err != nil {
		return nil, err
	}
	return &Parser{
		defines:     defines,
		includeDirs: includeDirs,
		logger:      logger.ComponentLogger("header"),
	}, nil
}

// ParseDefines extracts -DNAME[=VALUE] definitions from a flag string.
// A definition without a value expands to 1; -UNAME removes an earlier one.
func ParseDefines(cflags string) (map[string]string, error) {
	args, err := shellquote.Split(cflags)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid cflags %q", cflags)
	}
	defines := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-D" || arg == "-U":
			if i+1 >= len(args) {
				return nil, errors.Newf("%s without a macro name in cflags %q", arg, cflags)
			}
			i++
			applyDefine(defines, arg, args[i])
		case strings.HasPrefix(arg, "-D"), strings.HasPrefix(arg, "-U"):
			applyDefine(defines, arg[:2], arg[2:])
		}
	}
	return defines, nil
}

func applyDefine(defines map[string]string, flag, def string) {
	name, value, hasValue := strings.Cut(def, "=")
	if flag == "-U" {
		delete(defines, name)
		return
	}
	if !hasValue {
		value = "1"
	}
	defines[name] = value
}

// Defined reports whether a macro is defined by the configured flags.
func (p *Parser) Defined(name string) bool {
	_, ok := p.defines[name]
	return ok
}

// Locate resolves a header path. Absolute paths must exist as given;
// relative ones are tried against each include directory.
func (p *Parser) Locate(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(errors.ErrMissingResource, "header %s", path)
		}
		return path, nil
	}
	for _, dir := range p.includeDirs {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.WithHintf(
		errors.Wrapf(errors.ErrMissingResource, "header %s", path),
		"searched %s", strings.Join(p.includeDirs, ", "))
}

// Parse locates, reads and parses one header.
func (p *Parser) Parse(ctx context.Context, path string) (*File, error) {
	located, err := p.Locate(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(located)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to read header %s", located), errors.ErrMissingResource)
	}
	return p.ParseSource(ctx, path, src)
}

// ParseSource parses header text. path is recorded on the declarations.
func (p *Parser) ParseSource(ctx context.Context, path string, src []byte) (*File, error) {
	src = p.expand(src)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse header %s", path)
	}
	defer tree.Close()

	w := &walker{src: src, path: path, defines: p.defines}
	root := tree.RootNode()
	file := &File{Path: path, Decls: w.declarations(root, nil)}
	if root.HasError() {
		file.SyntaxErrors = countErrors(root)
		if logger.Enabled(logger.OutputParseDiagnostics) {
			p.logger.Debugw("Header contains syntax the front end skipped",
				logger.FieldHeader, path,
				logger.FieldCount, file.SyntaxErrors)
		}
	}
	return file, nil
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// expand substitutes object-like -D macros outside preprocessor lines, so
// export macros such as ATOMIC_API disappear before tree-sitter sees them.
func (p *Parser) expand(src []byte) []byte {
	if len(p.defines) == 0 {
		return src
	}
	lines := strings.SplitAfter(string(src), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = identRe.ReplaceAllStringFunc(line, func(ident string) string {
			if value, ok := p.defines[ident]; ok {
				return value
			}
			return ident
		})
	}
	return []byte(strings.Join(lines, ""))
}

func countErrors(n *sitter.Node) int {
	count := 0
	if n.Type() == "ERROR" || n.IsMissing() {
		count++
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && child.HasError() {
			count += countErrors(child)
		}
	}
	return count
}
