// Package typescript renders Atomic.d.ts, the ambient declarations of
// every bound class and enum.
package typescript

import (
	"fmt"
	"strings"

	"github.com/teranos/jsbind/emit"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/module"
	"github.com/teranos/jsbind/registry"
)

// Generator implements emit.Generator for TypeScript declarations
type Generator struct {
	pkg     string
	modules []*module.Module
}

// NewGenerator creates a TypeScript generator for a package namespace
func NewGenerator(pkg string, modules []*module.Module) *Generator {
	return &Generator{pkg: pkg, modules: modules}
}

// Language returns "typescript"
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns "d.ts"
func (g *Generator) FileExtension() string {
	return "d.ts"
}

// GenerateFile renders the declaration file, module by module in module order
func (g *Generator) GenerateFile(reg *registry.Registry) (string, error) {
	if reg.Phase() != registry.Closed {
		return "", errors.Wrapf(errors.ErrInvalidState, "typescript: registry is %s", reg.Phase())
	}

	var sb strings.Builder
	sb.WriteString(emit.Banner + "\n\n")
	sb.WriteString(fmt.Sprintf("declare module %s {\n", g.pkg))

	for _, m := range g.modules {
		enums := reg.EnumsOf(m)
		classes := reg.ClassesOf(m)
		if len(enums) == 0 && len(classes) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n    // %s\n", m.Name))
		for _, e := range enums {
			sb.WriteString("\n")
			sb.WriteString(GenerateEnum(e))
		}
		for _, c := range classes {
			sb.WriteString("\n")
			sb.WriteString(GenerateClass(c))
		}
	}

	sb.WriteString("\n}\n")
	return sb.String(), nil
}

// GenerateEnum renders an enum and its flat value constants
func GenerateEnum(e *registry.Enum) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("    export enum %s {\n", e.Name))
	for i, v := range e.Values {
		sep := ","
		if i == len(e.Values)-1 {
			sep = ""
		}
		sb.WriteString(fmt.Sprintf("        %s%s\n", v, sep))
	}
	sb.WriteString("    }\n\n")
	for _, v := range e.Values {
		sb.WriteString(fmt.Sprintf("    export var %s: %s;\n", v, e.Name))
	}
	return sb.String()
}

// GenerateClass renders a class declaration with its own members. Inherited
// members come from the extends clause.
func GenerateClass(c *registry.Class) string {
	var sb strings.Builder

	if c.Decl.Doc != "" {
		sb.WriteString(docComment(c.Decl.Doc, "    "))
	}
	abstract := ""
	if c.Abstract {
		abstract = "abstract "
	}
	sb.WriteString(fmt.Sprintf("    export %sclass %s", abstract, c.BoundName))
	if c.Base != nil {
		sb.WriteString(" extends " + c.Base.BoundName)
	}
	sb.WriteString(" {\n")

	for _, p := range c.Properties {
		readonly := ""
		if p.Setter == nil {
			readonly = "readonly "
		}
		sb.WriteString(fmt.Sprintf("        %s%s: %s;\n", readonly, p.Name, emit.ScriptType(p.Type)))
	}
	if len(c.Properties) > 0 {
		sb.WriteString("\n")
	}

	if c.Constructor != nil {
		sb.WriteString(fmt.Sprintf("        constructor(%s);\n", params(c.Constructor)))
	}
	for _, f := range c.Methods {
		if f.Decl.Doc != "" {
			sb.WriteString(docComment(f.Decl.Doc, "        "))
		}
		static := ""
		if f.Static {
			static = "static "
		}
		sb.WriteString(fmt.Sprintf("        %s%s(%s): %s;\n", static, f.JSName, params(f), emit.ScriptType(f.Return)))
	}

	sb.WriteString("    }\n")
	return sb.String()
}

func params(f *registry.Function) string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		optional := ""
		if p.Optional {
			optional = "?"
		}
		out[i] = fmt.Sprintf("%s%s: %s", p.Name, optional, emit.ScriptType(p.Type))
	}
	return strings.Join(out, ", ")
}

func docComment(doc, indent string) string {
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	if len(lines) == 1 {
		return fmt.Sprintf("%s/** %s */\n", indent, lines[0])
	}
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, l := range lines {
		sb.WriteString(strings.TrimRight(indent+" * "+strings.TrimSpace(l), " ") + "\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
