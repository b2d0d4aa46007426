package emit

import (
	"fmt"
	"strings"

	"github.com/teranos/jsbind/registry"
)

// cppClass is the spelling generated code uses for a bound class.
func cppClass(c *registry.Class) string {
	return c.SourceName
}

// readArg returns the expression reading argument i from the duktape stack.
func readArg(t registry.TypeRef, i int) string {
	switch t.Kind {
	case registry.Bool:
		return fmt.Sprintf("duk_to_boolean(ctx, %d) ? true : false", i)
	case registry.Number:
		return fmt.Sprintf("(%s) duk_to_number(ctx, %d)", t.Type.Name, i)
	case registry.String, registry.CString:
		return fmt.Sprintf("duk_to_string(ctx, %d)", i)
	case registry.EnumKind:
		return fmt.Sprintf("(%s) ((int) duk_to_number(ctx, %d))", t.Enum.Decl.QualifiedName(), i)
	case registry.ClassKind:
		return fmt.Sprintf("js_to_class_instance<%s>(ctx, %d, 0)", cppClass(t.Class), i)
	}
	return ""
}

// localType is the declaration type of an argument local.
func localType(t registry.TypeRef) string {
	switch t.Kind {
	case registry.Bool:
		return "bool"
	case registry.Number:
		return t.Type.Name
	case registry.String:
		return t.Type.Name
	case registry.CString:
		return "const char*"
	case registry.EnumKind:
		return t.Enum.Decl.QualifiedName()
	case registry.ClassKind:
		return cppClass(t.Class) + "*"
	}
	return ""
}

// writeArgs declares one local per parameter. Optional parameters fall back
// to their C++ default when the script passes fewer arguments.
func writeArgs(sb *strings.Builder, params []registry.Param) {
	for i, p := range params {
		read := readArg(p.Type, i)
		if p.Optional {
			read = fmt.Sprintf("duk_get_top(ctx) > %d ? %s : %s", i, read, p.Default)
		}
		sb.WriteString(fmt.Sprintf("   %s %s = %s;\n", localType(p.Type), p.Name, read))
	}
	if len(params) > 0 {
		sb.WriteString("\n")
	}
}

// callArgs renders the argument list passed to the native call.
func callArgs(params []registry.Param) string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = p.Name
		if p.Type.Kind == registry.ClassKind && p.Type.Type.Ref {
			args[i] = "*" + p.Name
		}
	}
	return strings.Join(args, ", ")
}

// writeReturn stores call's result and pushes it. It returns the duktape
// return count.
func writeReturn(sb *strings.Builder, t registry.TypeRef, call string) int {
	if t.Kind == registry.Void {
		sb.WriteString(fmt.Sprintf("   %s;\n", call))
		return 0
	}

	sb.WriteString(fmt.Sprintf("   %s retValue = %s;\n", t.Type.String(), call))
	switch t.Kind {
	case registry.Bool:
		sb.WriteString("   duk_push_boolean(ctx, retValue ? 1 : 0);\n")
	case registry.Number, registry.EnumKind:
		sb.WriteString("   duk_push_number(ctx, (double) retValue);\n")
	case registry.String:
		accessor := ".CString()"
		if t.Type.Name == "std::string" {
			accessor = ".c_str()"
		}
		sb.WriteString(fmt.Sprintf("   duk_push_string(ctx, retValue%s);\n", accessor))
	case registry.CString:
		sb.WriteString("   duk_push_string(ctx, retValue);\n")
	case registry.ClassKind:
		native := "retValue"
		switch {
		case t.Shared:
			native = "retValue.Get()"
		case t.Type.Ref:
			native = "&retValue"
		}
		if t.Type.Const {
			native = fmt.Sprintf("const_cast<%s*>(%s)", cppClass(t.Class), native)
		}
		sb.WriteString(fmt.Sprintf("   js_push_class_object_instance(ctx, %s, %q);\n", native, t.Class.BoundName))
	}
	return 1
}
