package header

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/jsbind/cppname"
)

// walker reduces a tree-sitter C++ syntax tree to Decls.
type walker struct {
	src     []byte
	path    string
	defines map[string]string
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// declarations reduces the items of a translation unit, namespace body or
// linkage block.
func (w *walker) declarations(container *sitter.Node, scope []string) []Decl {
	var decls []Decl
	if container == nil {
		return decls
	}
	for i := 0; i < int(container.NamedChildCount()); i++ {
		decls = append(decls, w.item(container.NamedChild(i), scope)...)
	}
	return decls
}

func (w *walker) item(n *sitter.Node, scope []string) []Decl {
	switch n.Type() {
	case "namespace_definition":
		name := w.text(n.ChildByFieldName("name"))
		inner := scope
		if name != "" {
			inner = appendScope(scope, strings.Split(strings.ReplaceAll(name, " ", ""), "::")...)
		}
		return []Decl{&Namespace{Name: name, Decls: w.declarations(n.ChildByFieldName("body"), inner)}}

	case "class_specifier", "struct_specifier":
		if c := w.class(n, scope, ""); c != nil {
			return []Decl{c}
		}

	case "enum_specifier":
		if e := w.enum(n, scope, ""); e != nil {
			return []Decl{e}
		}

	case "declaration":
		// class Foo { ... } instance; declares the class as well
		if t := n.ChildByFieldName("type"); t != nil && t.ChildByFieldName("body") != nil {
			return w.item(t, scope)
		}

	case "type_definition":
		return w.typedef(n, scope)

	case "alias_declaration":
		return []Decl{&Typedef{
			Name:   w.text(n.ChildByFieldName("name")),
			Scope:  scope,
			Target: w.descriptorType(n.ChildByFieldName("type")),
		}}

	case "linkage_specification":
		return w.declarations(n.ChildByFieldName("body"), scope)

	case "preproc_ifdef", "preproc_if", "preproc_elif", "preproc_else":
		var decls []Decl
		w.conditional(n, func(child *sitter.Node) {
			decls = append(decls, w.item(child, scope)...)
		})
		return decls
	}
	// templates, free functions, variables, using-directives, comments
	return nil
}

// conditional visits the branch of a preprocessor conditional that the
// configured defines select. #if and #elif expressions are not evaluated;
// their first branch is taken.
func (w *walker) conditional(n *sitter.Node, visit func(*sitter.Node)) {
	switch n.Type() {
	case "preproc_ifdef":
		_, taken := w.defines[w.text(n.ChildByFieldName("name"))]
		if first := n.Child(0); first != nil && strings.TrimSpace(w.text(first)) == "#ifndef" {
			taken = !taken
		}
		if !taken {
			if alt := n.ChildByFieldName("alternative"); alt != nil {
				w.conditional(alt, visit)
			}
			return
		}
	case "preproc_if", "preproc_elif", "preproc_else":
	default:
		return
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		switch n.FieldNameForChild(i) {
		case "name", "condition", "alternative":
			continue
		}
		visit(child)
	}
}

func (w *walker) class(n *sitter.Node, scope []string, name string) *Class {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = cppname.NormalizeType(w.text(nameNode))
	}
	if name == "" {
		return nil
	}

	c := &Class{
		Name:   name,
		Scope:  scope,
		Struct: n.Type() == "struct_specifier",
		Header: w.path,
		Line:   line(n),
		Doc:    w.doc(n),
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		c.Forward = true
		return c
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "base_class_clause" {
			c.Bases = w.bases(child, c.Struct)
		}
	}

	access := Private
	if c.Struct {
		access = Public
	}
	inner := appendScope(scope, name)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		w.memberItem(body.NamedChild(i), c, &access, inner)
	}
	return c
}

func (w *walker) bases(clause *sitter.Node, isStruct bool) []Base {
	defaultAccess := Private
	if isStruct {
		defaultAccess = Public
	}

	var bases []Base
	current := Base{Access: defaultAccess}
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case ",":
			current = Base{Access: defaultAccess}
		case "virtual":
			current.Virtual = true
		case "access_specifier", "public", "protected", "private":
			current.Access = parseAccess(w.text(child))
		case "type_identifier", "qualified_identifier", "qualified_type_identifier", "template_type":
			current.Name = w.name(child)
			bases = append(bases, current)
		}
	}
	return bases
}

// name converts a type-name node into a structured Name.
func (w *walker) name(n *sitter.Node) cppname.Name {
	switch n.Type() {
	case "qualified_identifier", "qualified_type_identifier":
		scope := n.ChildByFieldName("scope")
		inner := n.ChildByFieldName("name")
		if inner == nil {
			break
		}
		q := cppname.Qualified{Name: w.name(inner)}
		if scope != nil {
			if sq, ok := w.name(scope).(cppname.Qualified); ok {
				q.Qualifiers = append(sq.Qualifiers, sq.Name)
			} else {
				q.Qualifiers = []cppname.Name{w.name(scope)}
			}
		}
		return q
	case "template_type", "template_function", "template_method":
		base := w.text(n.ChildByFieldName("name"))
		var args []string
		if list := n.ChildByFieldName("arguments"); list != nil {
			for i := 0; i < int(list.NamedChildCount()); i++ {
				args = append(args, w.text(list.NamedChild(i)))
			}
		}
		return cppname.TemplateId{Base: base, Args: args}
	case "destructor_name":
		return cppname.Destructor{Spelling: strings.TrimSpace(strings.TrimPrefix(w.text(n), "~"))}
	case "operator_name":
		symbol := strings.ReplaceAll(strings.TrimPrefix(w.text(n), "operator"), " ", "")
		if kind, ok := cppname.OperatorFromSymbol(symbol); ok {
			return cppname.Operator{Kind: kind}
		}
		return nil
	}
	return cppname.Ident(strings.TrimSpace(w.text(n)))
}

func (w *walker) memberItem(n *sitter.Node, c *Class, access *Access, scope []string) {
	switch n.Type() {
	case "access_specifier":
		*access = parseAccess(w.text(n))
	case "field_declaration", "declaration", "function_definition":
		w.member(n, c, *access, scope)
	case "type_definition":
		for _, d := range w.typedef(n, scope) {
			c.Nested = append(c.Nested, d)
		}
	case "alias_declaration":
		c.Nested = append(c.Nested, &Typedef{
			Name:   w.text(n.ChildByFieldName("name")),
			Scope:  scope,
			Target: w.descriptorType(n.ChildByFieldName("type")),
		})
	case "preproc_ifdef", "preproc_if", "preproc_elif", "preproc_else":
		w.conditional(n, func(child *sitter.Node) {
			w.memberItem(child, c, access, scope)
		})
	}
}

type modifiers struct {
	static   bool
	virtual  bool
	constant bool
}

func (w *walker) modifiers(n *sitter.Node) modifiers {
	var m modifiers
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "storage_class_specifier":
			if w.text(child) == "static" {
				m.static = true
			}
		case "virtual", "virtual_function_specifier":
			m.virtual = true
		case "type_qualifier":
			if w.text(child) == "const" {
				m.constant = true
			}
		}
	}
	return m
}

func (w *walker) member(n *sitter.Node, c *Class, access Access, scope []string) {
	typeNode := n.ChildByFieldName("type")
	declNode := n.ChildByFieldName("declarator")

	if declNode == nil {
		if typeNode == nil || typeNode.ChildByFieldName("body") == nil {
			return
		}
		switch typeNode.Type() {
		case "class_specifier", "struct_specifier":
			if nested := w.class(typeNode, scope, ""); nested != nil {
				c.Nested = append(c.Nested, nested)
			}
		case "enum_specifier":
			if e := w.enum(typeNode, scope, ""); e != nil {
				c.Nested = append(c.Nested, e)
			}
		}
		return
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if t := n.Child(i).Type(); t == "delete_method_clause" {
			return
		}
	}

	mods := w.modifiers(n)
	t := Type{Name: cppname.NormalizeType(w.text(typeNode)), Const: mods.constant}

	for d := declNode; d != nil; {
		switch d.Type() {
		case "pointer_declarator":
			t.Pointer++
			d = d.ChildByFieldName("declarator")
		case "reference_declarator":
			t.Ref = true
			d = lastNamedChild(d)
		case "init_declarator":
			d = d.ChildByFieldName("declarator")
		case "function_declarator":
			if m := w.method(n, d, t, typeNode != nil, mods, access, c); m != nil {
				c.Members = append(c.Members, m)
			}
			return
		case "operator_cast":
			c.Members = append(c.Members, &Method{
				Name:   cppname.Conversion{Type: w.text(d.ChildByFieldName("type"))},
				Access: access,
				Line:   line(n),
			})
			return
		case "field_identifier", "identifier":
			c.Members = append(c.Members, &Field{
				Name:   w.text(d),
				Type:   t,
				Access: access,
				Static: mods.static,
				Line:   line(n),
			})
			return
		default:
			return
		}
	}
}

func (w *walker) method(n, fd *sitter.Node, ret Type, hasType bool, mods modifiers, access Access, c *Class) *Method {
	nameNode := fd.ChildByFieldName("declarator")
	if nameNode == nil {
		return nil
	}

	m := &Method{
		Return:  ret,
		Access:  access,
		Static:  mods.static,
		Virtual: mods.virtual,
		Line:    line(n),
		Doc:     w.doc(n),
	}

	switch nameNode.Type() {
	case "destructor_name":
		m.Name = w.name(nameNode)
		m.Destructor = true
		m.Return = Type{Name: "void"}
	case "operator_name", "template_function", "template_method":
		m.Name = w.name(nameNode)
		if m.Name == nil {
			return nil
		}
	case "field_identifier", "identifier":
		m.Name = cppname.Ident(w.text(nameNode))
		if !hasType {
			// Untyped declarations are constructors; anything else is a
			// macro invocation such as OBJECT(Node)
			if w.text(nameNode) != c.Name {
				return nil
			}
			m.Constructor = true
			m.Return = Type{Name: c.Name, Pointer: 1}
		}
	default:
		return nil
	}

	for i := 0; i < int(fd.ChildCount()); i++ {
		child := fd.Child(i)
		switch child.Type() {
		case "type_qualifier":
			if w.text(child) == "const" {
				m.Const = true
			}
		case "virtual_specifier":
			m.Virtual = true
		}
	}
	if def := n.ChildByFieldName("default_value"); def != nil && strings.TrimSpace(w.text(def)) == "0" {
		m.Pure = true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "pure_virtual_clause" {
			m.Pure = true
		}
	}

	m.Params, m.Variadic = w.params(fd.ChildByFieldName("parameters"))
	return m
}

func (w *walker) params(list *sitter.Node) ([]Param, bool) {
	if list == nil {
		return nil, false
	}

	var params []Param
	variadic := false
	for i := 0; i < int(list.ChildCount()); i++ {
		p := list.Child(i)
		switch p.Type() {
		case "...", "variadic_parameter_declaration":
			variadic = true
		case "parameter_declaration", "optional_parameter_declaration":
			param := Param{
				Type:    Type{Name: cppname.NormalizeType(w.text(p.ChildByFieldName("type")))},
				Default: w.text(p.ChildByFieldName("default_value")),
			}
			param.Type.Const = w.modifiers(p).constant
			for d := p.ChildByFieldName("declarator"); d != nil; {
				switch d.Type() {
				case "pointer_declarator", "abstract_pointer_declarator":
					param.Type.Pointer++
					d = d.ChildByFieldName("declarator")
				case "reference_declarator", "abstract_reference_declarator":
					param.Type.Ref = true
					d = lastNamedChild(d)
				case "identifier":
					param.Name = w.text(d)
					d = nil
				default:
					d = nil
				}
			}
			params = append(params, param)
		}
	}

	// f(void) takes no arguments
	if len(params) == 1 && params[0].Name == "" && params[0].Type.IsVoid() {
		params = nil
	}
	return params, variadic
}

func (w *walker) enum(n *sitter.Node, scope []string, name string) *Enum {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = w.text(nameNode)
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	e := &Enum{
		Name:   name,
		Scope:  scope,
		Header: w.path,
		Line:   line(n),
		Doc:    w.doc(n),
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if t := n.Child(i).Type(); t == "class" || t == "struct" {
			e.Scoped = true
		}
	}

	var collect func(*sitter.Node)
	collect = func(list *sitter.Node) {
		for i := 0; i < int(list.NamedChildCount()); i++ {
			child := list.NamedChild(i)
			switch child.Type() {
			case "enumerator":
				e.Values = append(e.Values, w.text(child.ChildByFieldName("name")))
			case "preproc_ifdef", "preproc_if", "preproc_elif", "preproc_else":
				w.conditional(child, func(inner *sitter.Node) {
					if inner.Type() == "enumerator" {
						e.Values = append(e.Values, w.text(inner.ChildByFieldName("name")))
					}
				})
			}
		}
	}
	collect(body)
	return e
}

func (w *walker) typedef(n *sitter.Node, scope []string) []Decl {
	typeNode := n.ChildByFieldName("type")
	declNode := n.ChildByFieldName("declarator")
	if typeNode == nil || declNode == nil {
		return nil
	}

	target := Type{Name: cppname.NormalizeType(w.text(typeNode)), Const: w.modifiers(n).constant}
	d := declNode
	for d != nil && d.Type() == "pointer_declarator" {
		target.Pointer++
		d = d.ChildByFieldName("declarator")
	}
	if d == nil || d.Type() != "type_identifier" {
		return nil
	}
	name := w.text(d)

	// typedef enum { ... } Name; and typedef struct { ... } Name;
	if typeNode.ChildByFieldName("body") != nil {
		anonymous := typeNode.ChildByFieldName("name") == nil
		switch typeNode.Type() {
		case "enum_specifier":
			if anonymous {
				if e := w.enum(typeNode, scope, w.text(d)); e != nil {
					return []Decl{e}
				}
				return nil
			}
			return []Decl{w.enum(typeNode, scope, "")}
		case "class_specifier", "struct_specifier":
			if anonymous {
				if c := w.class(typeNode, scope, w.text(d)); c != nil {
					return []Decl{c}
				}
				return nil
			}
			decls := w.item(typeNode, scope)
			return append(decls, &Typedef{Name: name, Scope: scope, Target: Type{Name: w.text(typeNode.ChildByFieldName("name"))}})
		}
	}

	return []Decl{&Typedef{Name: name, Scope: scope, Target: target}}
}

// descriptorType converts a type_descriptor (alias target) into a Type.
func (w *walker) descriptorType(n *sitter.Node) Type {
	if n == nil {
		return Type{}
	}
	t := Type{Name: cppname.NormalizeType(w.text(n.ChildByFieldName("type"))), Const: w.modifiers(n).constant}
	for d := n.ChildByFieldName("declarator"); d != nil; {
		switch d.Type() {
		case "abstract_pointer_declarator":
			t.Pointer++
			d = d.ChildByFieldName("declarator")
		case "abstract_reference_declarator":
			t.Ref = true
			d = lastNamedChild(d)
		default:
			d = nil
		}
	}
	return t
}

// doc collects the comment block that ends on the line above n.
func (w *walker) doc(n *sitter.Node) string {
	var lines []string
	next := n
	for prev := n.PrevSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevSibling() {
		if int(prev.EndPoint().Row)+1 < int(next.StartPoint().Row) {
			break
		}
		lines = append([]string{cleanComment(w.text(prev))}, lines...)
		next = prev
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func cleanComment(c string) string {
	c = strings.TrimSpace(c)
	if strings.HasPrefix(c, "/*") {
		c = strings.TrimSuffix(strings.TrimPrefix(c, "/*"), "*/")
		var out []string
		for _, l := range strings.Split(c, "\n") {
			l = strings.TrimSpace(l)
			l = strings.TrimSpace(strings.TrimLeft(l, "*!"))
			if l != "" {
				out = append(out, l)
			}
		}
		return strings.Join(out, "\n")
	}
	return strings.TrimSpace(strings.TrimLeft(c, "/!<"))
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

func appendScope(scope []string, names ...string) []string {
	out := make([]string, 0, len(scope)+len(names))
	out = append(out, scope...)
	return append(out, names...)
}
