package display

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/jsbind/errors"
)

func TestShouldOutputJSON(t *testing.T) {
	newTree := func() (*cobra.Command, *cobra.Command) {
		root := &cobra.Command{Use: "jsbind"}
		root.PersistentFlags().Bool("json", false, "")
		child := &cobra.Command{Use: "check", Run: func(*cobra.Command, []string) {}}
		root.AddCommand(child)
		return root, child
	}

	root, child := newTree()
	root.SetArgs([]string{"check"})
	require.NoError(t, root.Execute())
	assert.False(t, ShouldOutputJSON(child))

	root, child = newTree()
	root.SetArgs([]string{"check", "--json"})
	require.NoError(t, root.Execute())
	assert.True(t, ShouldOutputJSON(child))

	assert.False(t, ShouldOutputJSON(nil))
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON(&buf, map[string]int{"files": 5}))
	assert.Equal(t, "{\n  \"files\": 5\n}\n", buf.String())
}

func TestReportError(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	var buf bytes.Buffer
	err := errors.WithHint(errors.Wrap(errors.ErrMissingResource, "header Foo.h"), "check the module descriptor")
	ReportError(&buf, err)

	assert.Equal(t, "✗ header Foo.h: missing resource\n  hint: check the module descriptor\n", buf.String())
}

func TestReportUnexpected(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	var buf bytes.Buffer
	ReportUnexpected(&buf, errors.New("open jsbind.toml: permission denied"))
	ReportUnexpected(&buf, nil)

	assert.Equal(t, "✗ unexpected error: open jsbind.toml: permission denied\n", buf.String())
}
