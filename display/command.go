package display

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ShouldOutputJSON reports whether a command should print JSON instead of
// human-readable text. A command's own --json flag wins over the global one.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}

	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil {
		v, _ := cmd.Root().PersistentFlags().GetBool("json")
		return v
	}
	return false
}

// OutputJSON marshals v with MarshalJSON and prints it to w
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
