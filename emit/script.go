package emit

import "github.com/teranos/jsbind/registry"

// ScriptType names a classified type as scripts see it.
func ScriptType(t registry.TypeRef) string {
	switch t.Kind {
	case registry.Void:
		return "void"
	case registry.Bool:
		return "boolean"
	case registry.Number:
		return "number"
	case registry.String, registry.CString:
		return "string"
	case registry.EnumKind:
		return t.Enum.Name
	case registry.ClassKind:
		return t.Class.BoundName
	}
	return "any"
}
