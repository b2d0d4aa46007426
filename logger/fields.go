package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across jsbind.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldPhase     = "phase"

	// Binding model
	FieldModule = "module"
	FieldClass  = "class"
	FieldEnum   = "enum"
	FieldValue  = "value"
	FieldBase   = "base"
	FieldMethod = "method"

	// Files and paths
	FieldHeader = "header"
	FieldFile   = "file"
	FieldLine   = "line"
	FieldDir    = "dir"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Registry struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func New() *Registry {
//	    return &Registry{
//	        logger: logger.ComponentLogger("registry"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	modLogger := logger.ChildLogger(baseLogger, logger.FieldModule, m.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
