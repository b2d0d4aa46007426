package logger

import "time"

// Output controls what categories of information are shown at each verbosity level.
//
// Verbosity Levels:
//
//	0 (default) - Generated file summary, errors with hints
//	1 (-v)      - + Per-module progress through the pipeline phases
//	2 (-vv)     - + Class and enum registration, timing, config loaded
//	3 (-vvv)    - + Parser diagnostics for tolerated syntax errors
//
// Level 0 output is always shown and has no category.

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 1 (-v) - Informational
	OutputProgress OutputCategory = iota // Module phase transitions

	// Level 2 (-vv) - Detailed
	OutputRegistration // Class and enum registration
	OutputTiming       // Phase timing
	OutputConfig       // Config values loaded

	// Level 3 (-vvv) - Debug
	OutputParseDiagnostics // Syntax errors tolerated by the front end
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputProgress:         VerbosityInfo,
	OutputRegistration:     VerbosityDebug,
	OutputTiming:           VerbosityDebug,
	OutputConfig:           VerbosityDebug,
	OutputParseDiagnostics: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// Enabled reports whether category is shown at the verbosity the global
// logger was initialized with
func Enabled(category OutputCategory) bool {
	return ShouldOutput(Verbosity, category)
}

// Elapsed appends the time since start to keysAndValues when timing output
// is enabled
func Elapsed(start time.Time, keysAndValues ...interface{}) []interface{} {
	if !Enabled(OutputTiming) {
		return keysAndValues
	}
	return append(keysAndValues, FieldDurationMS, time.Since(start).Milliseconds())
}
