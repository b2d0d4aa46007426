// Package markdown renders Atomic.md, the human-readable reference of the
// bound API.
package markdown

import (
	"fmt"
	"strings"

	"github.com/teranos/jsbind/emit"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/module"
	"github.com/teranos/jsbind/registry"
)

// Generator implements emit.Generator for Markdown documentation
type Generator struct {
	pkg     string
	modules []*module.Module
}

// NewGenerator creates a Markdown generator
func NewGenerator(pkg string, modules []*module.Module) *Generator {
	return &Generator{pkg: pkg, modules: modules}
}

// Language returns "markdown"
func (g *Generator) Language() string {
	return "markdown"
}

// FileExtension returns "md"
func (g *Generator) FileExtension() string {
	return "md"
}

// GenerateFile renders one section per module
func (g *Generator) GenerateFile(reg *registry.Registry) (string, error) {
	if reg.Phase() != registry.Closed {
		return "", errors.Wrapf(errors.ErrInvalidState, "markdown: registry is %s", reg.Phase())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", g.pkg))
	sb.WriteString(fmt.Sprintf("<!-- %s -->\n", strings.TrimPrefix(emit.Banner, "// ")))

	for _, m := range g.modules {
		classes := reg.ClassesOf(m)
		enums := reg.EnumsOf(m)
		sb.WriteString(fmt.Sprintf("\n## %s\n", m.Name))
		if len(classes) == 0 && len(enums) == 0 {
			sb.WriteString("\n_No bindings._\n")
			continue
		}
		for _, c := range classes {
			sb.WriteString(GenerateClass(c))
		}
		for _, e := range enums {
			sb.WriteString(GenerateEnum(e))
		}
	}
	return sb.String(), nil
}

// anchor is the heading anchor of a class section.
func anchor(name string) string {
	return "#" + strings.ToLower(name)
}

// GenerateClass renders a class section
func GenerateClass(c *registry.Class) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n### %s\n\n", c.BoundName))
	if c.Decl.Doc != "" {
		sb.WriteString(strings.TrimSpace(c.Decl.Doc) + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("C++: `%s`", c.SourceName))
	if c.Base != nil {
		sb.WriteString(fmt.Sprintf(" · Extends [%s](%s)", c.Base.BoundName, anchor(c.Base.BoundName)))
	}
	if c.Abstract {
		sb.WriteString(" · abstract")
	}
	sb.WriteString("\n")

	if c.Constructor != nil {
		sb.WriteString(fmt.Sprintf("\n**Constructor:** `new %s(%s)`\n", c.BoundName, signatureParams(c.Constructor)))
	}

	if len(c.Properties) > 0 {
		sb.WriteString("\n| Property | Type | Access |\n")
		sb.WriteString("|----------|------|--------|\n")
		for _, p := range c.Properties {
			access := "read-only"
			if p.Setter != nil {
				access = "read-write"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | `%s` | %s |\n", p.Name, emit.ScriptType(p.Type), access))
		}
	}

	if len(c.Methods) > 0 {
		sb.WriteString("\n**Methods:**\n\n")
		for _, f := range c.Methods {
			sb.WriteString(fmt.Sprintf("- `%s`", signature(f)))
			if f.Decl.Doc != "" {
				sb.WriteString(" - " + firstLine(f.Decl.Doc))
			}
			sb.WriteString("\n")
		}
	}

	if len(c.Inherited) > 0 || len(c.InheritedProperties) > 0 {
		sb.WriteString("\n**Inherited:**")
		var names []string
		for _, p := range c.InheritedProperties {
			names = append(names, fmt.Sprintf("`%s` ([%s](%s))", p.Name, p.Getter.Owner.BoundName, anchor(p.Getter.Owner.BoundName)))
		}
		for _, f := range c.Inherited {
			names = append(names, fmt.Sprintf("`%s()` ([%s](%s))", f.JSName, f.Owner.BoundName, anchor(f.Owner.BoundName)))
		}
		sb.WriteString(" " + strings.Join(names, ", ") + "\n")
	}
	return sb.String()
}

// GenerateEnum renders an enum section with its values table
func GenerateEnum(e *registry.Enum) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n### enum %s\n\n", e.Name))
	if e.Decl.Doc != "" {
		sb.WriteString(strings.TrimSpace(e.Decl.Doc) + "\n\n")
	}
	sb.WriteString("| Value |\n|-------|\n")
	for _, v := range e.Values {
		sb.WriteString(fmt.Sprintf("| `%s` |\n", v))
	}
	return sb.String()
}

func signature(f *registry.Function) string {
	prefix := ""
	if f.Static {
		prefix = "static "
	}
	return fmt.Sprintf("%s%s(%s): %s", prefix, f.JSName, signatureParams(f), emit.ScriptType(f.Return))
}

func signatureParams(f *registry.Function) string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Optional {
			out[i] = fmt.Sprintf("%s: %s = %s", p.Name, emit.ScriptType(p.Type), p.Default)
		} else {
			out[i] = fmt.Sprintf("%s: %s", p.Name, emit.ScriptType(p.Type))
		}
	}
	return strings.Join(out, ", ")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
