package cppname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/jsbind/errors"
)

type foreignName struct{ Name }

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   Name
		want string
	}{
		{"identifier", Ident("Object"), "Object"},
		{"template", TemplateId{Base: "SharedPtr", Args: []string{"Node"}}, "SharedPtr<Node>"},
		{"template args normalized", TemplateId{Base: "HashMap", Args: []string{"String", " const  Variant * "}}, "HashMap<String,const Variant*>"},
		{"template no args", TemplateId{Base: "Vector"}, "Vector<>"},
		{"destructor", Destructor{Spelling: "Object"}, "~Object"},
		{"operator", Operator{Kind: OpEqual}, "operator_eq"},
		{"subscript", Operator{Kind: OpSubscript}, "operator_subscript"},
		{"conversion", Conversion{Type: "bool"}, "operator_cast bool"},
		{"qualified", Qualify("Atomic", "Object"), "Atomic::Object"},
		{"nested qualified", Qualified{
			Qualifiers: []Name{Ident("Atomic"), TemplateId{Base: "Vector", Args: []string{"int"}}},
			Name:       Destructor{Spelling: "Vector"},
		}, "Atomic::Vector<int>::~Vector"},
		{"selector", Selector{Parts: []string{"set", "Width:", "height:"}}, "setWidth:height:"},
		{"anonymous", Anonymous{}, "<anonymous>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Canonicalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, got, again, "canonicalization must be deterministic")
		})
	}
}

func TestCanonicalize_DistinctTemplateArgs(t *testing.T) {
	a := MustCanonicalize(TemplateId{Base: "Pair", Args: []string{"int", "float"}})
	b := MustCanonicalize(TemplateId{Base: "Pair", Args: []string{"float", "int"}})
	c := MustCanonicalize(TemplateId{Base: "Pair", Args: []string{"int,float"}})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c, "argument text is normalized, not re-split")
}

func TestCanonicalize_AnonymousAllEqual(t *testing.T) {
	assert.Equal(t, MustCanonicalize(Anonymous{}), MustCanonicalize(Anonymous{}))
}

func TestCanonicalize_Unknown(t *testing.T) {
	_, err := Canonicalize(nil)
	assert.True(t, errors.Is(err, errors.ErrUnknownName))

	_, err = Canonicalize(foreignName{})
	assert.True(t, errors.Is(err, errors.ErrUnknownName))

	_, err = Canonicalize(Operator{Kind: OperatorKind(999)})
	assert.True(t, errors.Is(err, errors.ErrUnknownName))

	_, err = Canonicalize(Qualified{Qualifiers: []Name{nil}, Name: Ident("X")})
	assert.True(t, errors.Is(err, errors.ErrUnknownName))

	assert.Panics(t, func() { MustCanonicalize(nil) })
}

func TestOperatorTokensDistinct(t *testing.T) {
	kinds := OperatorKinds()
	require.Len(t, kinds, len(operators))

	seenTokens := make(map[string]OperatorKind)
	seenSymbols := make(map[string]OperatorKind)
	for _, k := range kinds {
		token := k.Token()
		require.NotEmpty(t, token, "kind %d", k)
		if prev, dup := seenTokens[token]; dup {
			t.Fatalf("operators %q and %q share token %q", prev.Symbol(), k.Symbol(), token)
		}
		seenTokens[token] = k

		_, dup := seenSymbols[k.Symbol()]
		require.False(t, dup, "symbol %q listed twice", k.Symbol())
		seenSymbols[k.Symbol()] = k
	}
}

func TestOperatorFromSymbol(t *testing.T) {
	for _, k := range OperatorKinds() {
		got, ok := OperatorFromSymbol(k.Symbol())
		require.True(t, ok, k.Symbol())
		assert.Equal(t, k, got)
	}

	_, ok := OperatorFromSymbol("?:")
	assert.False(t, ok)
}

func TestSpelling(t *testing.T) {
	assert.Equal(t, "Object", Spelling(Qualify("Atomic", "Object")))
	assert.Equal(t, "~Node", Spelling(Qualified{Qualifiers: []Name{Ident("Atomic")}, Name: Destructor{Spelling: "Node"}}))
	assert.Equal(t, "", Spelling(nil))
}

func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"int":                       "int",
		"unsigned   int":            "unsigned int",
		"const String &":            "const String&",
		"Vector < SharedPtr<Node> >": "Vector<SharedPtr<Node>>",
		"const char *":              "const char*",
		"Atomic :: Object":          "Atomic::Object",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeType(in), in)
	}
}
