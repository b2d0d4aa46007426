package emit

import (
	"fmt"
	"strings"
)

// Banner opens every generated glue file.
const Banner = "// This file was autogenerated by JSBind, changes will be lost"

// prototypeOrderComment is kept verbatim in the setup function.
var prototypeOrderComment = []string{
	"// It is important that these are in order so the prototypes are created properly",
	"// This isn't trivial as modules can have dependencies, so do it here",
}

var runtimeIncludes = []string{
	`#include "Precompiled.h"`,
	`#include <Duktape/duktape.h>`,
	`#include "../../Javascript/JSVM.h"`,
	`#include "../../Javascript/JSAPI.h"`,
}

// Prototype is one js_setup_prototype call. BaseClass is empty for a root class.
type Prototype struct {
	Package       string
	Class         string
	BasePackage   string
	BaseClass     string
	HasProperties bool
}

// Aggregate builds JSModules.cpp. Modules and prototypes are collected in
// the order they are added; Render always lays the file out as
//
//	banner, includes, namespace
//	extern preinit/init declarations per module
//	jsb_modules_setup_prototypes
//	jsb_modules_preinit
//	jsb_modules_init
type Aggregate struct {
	pkg        string
	modules    []string
	prototypes []Prototype
}

// NewAggregate starts an aggregate file for a package namespace.
func NewAggregate(pkg string) *Aggregate {
	return &Aggregate{pkg: pkg}
}

// AddModule appends a module by name. Entry points use the lower-cased name.
func (a *Aggregate) AddModule(name string) {
	a.modules = append(a.modules, strings.ToLower(name))
}

// AddPrototype appends a prototype setup call. Callers add bases first.
func (a *Aggregate) AddPrototype(p Prototype) {
	a.prototypes = append(a.prototypes, p)
}

// Render produces the file contents.
func (a *Aggregate) Render() []byte {
	var sb strings.Builder

	sb.WriteString(Banner + "\n\n")
	for _, inc := range runtimeIncludes {
		sb.WriteString(inc + "\n")
	}
	sb.WriteString(fmt.Sprintf("\n\nnamespace %s\n{\n\n", a.pkg))

	for _, m := range a.modules {
		sb.WriteString(fmt.Sprintf("extern void jsb_preinit_%s (JSVM* vm);\n", m))
		sb.WriteString(fmt.Sprintf("extern void jsb_init_%s (JSVM* vm);\n", m))
	}

	sb.WriteString("\nstatic void jsb_modules_setup_prototypes(JSVM* vm)\n{\n")
	for _, line := range prototypeOrderComment {
		sb.WriteString("   " + line + "\n")
	}
	sb.WriteString("\n")
	for _, p := range a.prototypes {
		sb.WriteString(fmt.Sprintf("   js_setup_prototype(vm, %q, %q, %q, %q, %t);\n",
			p.Package, p.Class, p.BasePackage, p.BaseClass, p.HasProperties))
	}
	sb.WriteString("}\n")

	sb.WriteString("\nvoid jsb_modules_preinit(JSVM* vm)\n{\n")
	for _, m := range a.modules {
		sb.WriteString(fmt.Sprintf("   jsb_preinit_%s(vm);\n", m))
	}
	sb.WriteString("}\n")

	sb.WriteString("\nvoid jsb_modules_init(JSVM* vm)\n{\n")
	sb.WriteString("   jsb_modules_preinit(vm);\n\n")
	sb.WriteString("   jsb_modules_setup_prototypes(vm);\n\n")
	for _, m := range a.modules {
		sb.WriteString(fmt.Sprintf("   jsb_init_%s(vm);\n", m))
	}
	sb.WriteString("}\n")

	sb.WriteString("\n}\n")
	return []byte(sb.String())
}
