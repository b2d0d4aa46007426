package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	wrapped := Wrapf(ErrClassCollision, "class %s", "Widget")

	assert.Contains(t, wrapped.Error(), "class Widget")
	assert.Contains(t, wrapped.Error(), "class name collision")
	assert.True(t, Is(wrapped, ErrClassCollision))
	assert.False(t, Is(wrapped, ErrEnumCollision))
}

func TestWithHint(t *testing.T) {
	err := WithHint(Wrap(ErrMissingResource, "header Foo.h"), "check the module descriptor")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check the module descriptor", hints[0])
	assert.True(t, Is(err, ErrMissingResource))
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", New("boom"), false},
		{"wrapped sentinel", Wrap(ErrWriteFailed, "JSModules.cpp"), true},
		{"double wrapped", Wrap(Wrap(ErrUnresolvedBase, "Derived"), "preprocess"), true},
		{"fmt wrapped", fmt.Errorf("outer: %w", ErrUnknownName), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "enum value collision", Category(Wrap(ErrEnumValueCollision, "RED")))
	assert.Equal(t, "error", Category(New("other")))
}

func TestMark(t *testing.T) {
	cause := New("permission denied")
	err := Mark(Wrap(cause, "write JSModuleCore.cpp"), ErrWriteFailed)

	assert.True(t, Is(err, ErrWriteFailed))
	assert.True(t, Is(err, cause))
}
