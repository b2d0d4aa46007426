package display

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/jsbind/errors"
)

// Success prints a green check line
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", pterm.Green("✓"), fmt.Sprintf(format, args...))
}

// Failure prints a red cross line
func Failure(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", pterm.Red("✗"), fmt.Sprintf(format, args...))
}

// ReportError prints err with every hint attached along its chain
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	Failure(w, "%s", pterm.Red(err.Error()))
	printHints(w, err)
}

// ReportUnexpected prints an error from outside the generator taxonomy
func ReportUnexpected(w io.Writer, err error) {
	if err == nil {
		return
	}
	Failure(w, "%s %s", pterm.Red("unexpected error:"), err.Error())
	printHints(w, err)
}

func printHints(w io.Writer, err error) {
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("hint:"), hint)
	}
}
