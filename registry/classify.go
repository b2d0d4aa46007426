package registry

import (
	"strings"

	"github.com/teranos/jsbind/header"
)

var numberTypes = map[string]bool{
	"char": true, "signed char": true, "unsigned char": true,
	"short": true, "unsigned short": true, "short int": true,
	"int": true, "signed": true, "signed int": true, "unsigned": true, "unsigned int": true,
	"long": true, "unsigned long": true, "long int": true, "long long": true, "unsigned long long": true,
	"float": true, "double": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"size_t": true,
}

var stringTypes = map[string]bool{
	"String":         true,
	"Atomic::String": true,
	"std::string":    true,
}

var handleTemplates = []string{"SharedPtr<", "WeakPtr<", "Atomic::SharedPtr<", "Atomic::WeakPtr<"}

// classify maps a member type, written inside scope, to its script kind.
func (r *Registry) classify(t header.Type, scope []string) TypeRef {
	ref := TypeRef{Type: t}

	switch {
	case t.Name == "void":
		if t.Pointer == 0 && !t.Ref {
			ref.Kind = Void
		}
		return ref
	case t.Name == "bool":
		if t.Pointer == 0 && (!t.Ref || t.Const) {
			ref.Kind = Bool
		}
		return ref
	case t.Name == "char" && t.Pointer == 1 && t.Const:
		ref.Kind = CString
		return ref
	case numberTypes[t.Name]:
		if t.Pointer == 0 && (!t.Ref || t.Const) {
			ref.Kind = Number
		}
		return ref
	case stringTypes[t.Name]:
		if t.Pointer == 0 && (!t.Ref || t.Const) {
			ref.Kind = String
		}
		return ref
	}

	for _, prefix := range handleTemplates {
		if strings.HasPrefix(t.Name, prefix) && strings.HasSuffix(t.Name, ">") && t.Pointer == 0 {
			inner := strings.TrimSpace(t.Name[len(prefix) : len(t.Name)-1])
			if c := r.lookupClass(inner, scope); c != nil {
				ref.Kind = ClassKind
				ref.Class = c
				ref.Shared = true
			}
			return ref
		}
	}

	if e := r.lookupEnum(t.Name, scope); e != nil {
		if t.Pointer == 0 && (!t.Ref || t.Const) {
			ref.Kind = EnumKind
			ref.Enum = e
		}
		return ref
	}

	if c := r.lookupClass(t.Name, scope); c != nil {
		if (t.Pointer == 1 && !t.Ref) || (t.Pointer == 0 && t.Ref) {
			ref.Kind = ClassKind
			ref.Class = c
		}
	}
	return ref
}
