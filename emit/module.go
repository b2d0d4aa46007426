package emit

import (
	"fmt"
	"path"
	"strings"

	"github.com/teranos/jsbind/module"
	"github.com/teranos/jsbind/registry"
)

// ModuleFileName is the per-module glue file name.
func ModuleFileName(m *module.Module) string {
	return "JSModule" + m.Name + ".cpp"
}

// includeLine renders a header path as an #include. Paths below a Source
// directory become angle includes relative to it.
func includeLine(h string) string {
	if strings.HasPrefix(h, "<") || strings.HasPrefix(h, `"`) {
		return "#include " + h
	}
	h = path.Clean(h)
	if i := strings.LastIndex(h, "Source/"); i >= 0 && (i == 0 || h[i-1] == '/') {
		return fmt.Sprintf("#include <%s>", h[i+len("Source/"):])
	}
	return fmt.Sprintf("#include %q", h)
}

func functionName(c *registry.Class, f *registry.Function) string {
	return fmt.Sprintf("jsb_class_%s_%s", c.BoundName, f.Name)
}

func nargs(f *registry.Function) string {
	if f.RequiredParams() != len(f.Params) {
		return "DUK_VARARGS"
	}
	return fmt.Sprint(len(f.Params))
}

// ModuleSource renders JSModule<Name>.cpp for one module.
func (e *Emitter) ModuleSource(m *module.Module) []byte {
	classes := e.reg.ClassesOf(m)
	enums := e.reg.EnumsOf(m)

	var sb strings.Builder
	sb.WriteString(Banner + "\n\n")
	for _, inc := range runtimeIncludes {
		sb.WriteString(inc + "\n")
	}
	seen := make(map[string]bool)
	for _, h := range append(append([]string{}, m.Headers...), m.Includes...) {
		line := includeLine(h)
		if !seen[line] {
			seen[line] = true
			sb.WriteString(line + "\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\n\nnamespace %s\n{\n\n", e.pkg))

	for _, c := range classes {
		if c.Constructor != nil {
			writeConstructor(&sb, c)
		}
		for _, f := range c.Methods {
			writeMethod(&sb, c, f)
		}
	}

	for _, c := range classes {
		e.writeClassDefine(&sb, c)
	}

	sb.WriteString("static void jsb_declare_classes(JSVM* vm)\n{\n")
	for _, c := range classes {
		ctor := "0"
		if c.Constructor != nil {
			ctor = "jsb_constructor_" + c.BoundName
		}
		sb.WriteString(fmt.Sprintf("   js_class_declare<%s>(vm, %q, %q, %s);\n", cppClass(c), e.pkg, c.BoundName, ctor))
	}
	sb.WriteString("}\n\n")

	sb.WriteString("static void jsb_init_classes(JSVM* vm)\n{\n")
	for _, c := range classes {
		sb.WriteString(fmt.Sprintf("   jsb_class_define_%s(vm);\n", c.BoundName))
	}
	sb.WriteString("}\n\n")

	if len(enums) > 0 {
		e.writeEnums(&sb, enums)
	}

	lower := m.LowerName()
	sb.WriteString(fmt.Sprintf("void jsb_preinit_%s (JSVM* vm)\n{\n", lower))
	sb.WriteString("   jsb_declare_classes(vm);\n")
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("void jsb_init_%s (JSVM* vm)\n{\n", lower))
	sb.WriteString("   jsb_init_classes(vm);\n")
	if len(enums) > 0 {
		sb.WriteString("   jsb_register_enums(vm);\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("}\n")
	return []byte(sb.String())
}

func writeConstructor(sb *strings.Builder, c *registry.Class) {
	f := c.Constructor
	sb.WriteString(fmt.Sprintf("static duk_ret_t jsb_constructor_%s(duk_context* ctx)\n{\n", c.BoundName))
	sb.WriteString("   if (!duk_is_constructor_call(ctx))\n      return DUK_RET_TYPE_ERROR;\n\n")
	writeArgs(sb, f.Params)
	sb.WriteString(fmt.Sprintf("   %s* native = new %s(%s);\n", cppClass(c), cppClass(c), callArgs(f.Params)))
	sb.WriteString("   duk_push_this(ctx);\n")
	sb.WriteString("   JSVM::GetJSVM(ctx)->AddObject(duk_get_heapptr(ctx, -1), native);\n")
	sb.WriteString("   return 0;\n}\n\n")
}

func writeMethod(sb *strings.Builder, c *registry.Class, f *registry.Function) {
	sb.WriteString(fmt.Sprintf("static duk_ret_t %s(duk_context* ctx)\n{\n", functionName(c, f)))
	writeArgs(sb, f.Params)

	var call string
	if f.Static {
		call = fmt.Sprintf("%s::%s(%s)", cppClass(c), f.Name, callArgs(f.Params))
	} else {
		sb.WriteString("   duk_push_this(ctx);\n")
		sb.WriteString(fmt.Sprintf("   %s* native = js_to_class_instance<%s>(ctx, -1, 0);\n", cppClass(c), cppClass(c)))
		call = fmt.Sprintf("native->%s(%s)", f.Name, callArgs(f.Params))
	}
	n := writeReturn(sb, f.Return, call)
	sb.WriteString(fmt.Sprintf("   return %d;\n}\n\n", n))
}

func (e *Emitter) writeClassDefine(sb *strings.Builder, c *registry.Class) {
	sb.WriteString(fmt.Sprintf("static void jsb_class_define_%s(JSVM* vm)\n{\n", c.BoundName))
	sb.WriteString("   duk_context* ctx = vm->GetJSContext();\n")
	sb.WriteString(fmt.Sprintf("   js_get_class_object(vm, %q, %q);\n", e.pkg, c.BoundName))

	for _, f := range c.Methods {
		if !f.Static {
			continue
		}
		sb.WriteString(fmt.Sprintf("   duk_push_c_function(ctx, %s, %s);\n", functionName(c, f), nargs(f)))
		sb.WriteString(fmt.Sprintf("   duk_put_prop_string(ctx, -2, %q);\n", f.JSName))
	}

	sb.WriteString("   duk_get_prop_string(ctx, -1, \"prototype\");\n")
	for _, f := range c.Methods {
		if f.Static {
			continue
		}
		sb.WriteString(fmt.Sprintf("   duk_push_c_function(ctx, %s, %s);\n", functionName(c, f), nargs(f)))
		sb.WriteString(fmt.Sprintf("   duk_put_prop_string(ctx, -2, %q);\n", f.JSName))
	}

	for _, p := range c.Properties {
		sb.WriteString(fmt.Sprintf("   duk_push_string(ctx, %q);\n", p.Name))
		sb.WriteString(fmt.Sprintf("   duk_push_c_function(ctx, %s, 0);\n", functionName(c, p.Getter)))
		if p.Setter != nil {
			sb.WriteString(fmt.Sprintf("   duk_push_c_function(ctx, %s, 1);\n", functionName(c, p.Setter)))
			sb.WriteString("   duk_def_prop(ctx, -4, DUK_DEFPROP_HAVE_GETTER | DUK_DEFPROP_HAVE_SETTER | DUK_DEFPROP_SET_ENUMERABLE);\n")
		} else {
			sb.WriteString("   duk_def_prop(ctx, -3, DUK_DEFPROP_HAVE_GETTER | DUK_DEFPROP_SET_ENUMERABLE);\n")
		}
	}

	sb.WriteString("   duk_pop_2(ctx);\n}\n\n")
}

// enumValue is the C++ spelling of an enum value.
func enumValue(en *registry.Enum, value string) string {
	if en.Decl.Scoped {
		return en.Decl.QualifiedName() + "::" + value
	}
	if len(en.Decl.Scope) == 0 {
		return value
	}
	return strings.Join(en.Decl.Scope, "::") + "::" + value
}

// writeEnums registers each enum as an object on the package and each
// value as a flat package constant.
func (e *Emitter) writeEnums(sb *strings.Builder, enums []*registry.Enum) {
	sb.WriteString("static void jsb_register_enums(JSVM* vm)\n{\n")
	sb.WriteString("   duk_context* ctx = vm->GetJSContext();\n")
	sb.WriteString(fmt.Sprintf("   duk_get_global_string(ctx, %q);\n", e.pkg))

	for _, en := range enums {
		sb.WriteString(fmt.Sprintf("\n   // enum %s\n", en.Name))
		sb.WriteString("   duk_push_object(ctx);\n")
		for _, v := range en.Values {
			sb.WriteString(fmt.Sprintf("   duk_push_number(ctx, (double) %s);\n", enumValue(en, v)))
			sb.WriteString(fmt.Sprintf("   duk_put_prop_string(ctx, -2, %q);\n", v))
		}
		sb.WriteString(fmt.Sprintf("   duk_put_prop_string(ctx, -2, %q);\n", en.Name))
		for _, v := range en.Values {
			sb.WriteString(fmt.Sprintf("   duk_push_number(ctx, (double) %s);\n", enumValue(en, v)))
			sb.WriteString(fmt.Sprintf("   duk_put_prop_string(ctx, -2, %q);\n", v))
		}
	}

	sb.WriteString("\n   duk_pop(ctx);\n}\n\n")
}
