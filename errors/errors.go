// Package errors provides error handling for jsbind.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints for the top-level handler
//
// Usage:
//
//	// Wrap a sentinel with context
//	return errors.Wrapf(errors.ErrClassCollision, "class %s", name)
//
//	// Add hints for users
//	return errors.WithHint(err, "rename one of the classes in its module descriptor")
//
//	// Check errors
//	if errors.Is(err, errors.ErrMissingResource) {
//	    // header or descriptor missing
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Sentinel errors for every fatal generator condition.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrDescriptor indicates a module descriptor or index that cannot be decoded
	ErrDescriptor = New("malformed module descriptor")

	// ErrMissingResource indicates a descriptor, header or declared class that does not exist
	ErrMissingResource = New("missing resource")

	// ErrClassCollision indicates two classes bound under the same name
	ErrClassCollision = New("class name collision")

	// ErrEnumCollision indicates two enums registered under the same name
	ErrEnumCollision = New("enum name collision")

	// ErrEnumValueCollision indicates an enum value already owned by another enum
	ErrEnumValueCollision = New("enum value collision")

	// ErrUnresolvedBase indicates a base class that is not registered
	ErrUnresolvedBase = New("unresolved base class")

	// ErrUnknownName indicates a name variant the canonicalizer does not recognize
	ErrUnknownName = New("unrecognized name variant")

	// ErrWriteFailed indicates an output file that could not be written
	ErrWriteFailed = New("write failed")

	// ErrRegistryClosed indicates a registration attempt after preprocessing began
	ErrRegistryClosed = New("registry closed")

	// ErrInvalidState indicates an operation called out of phase order
	ErrInvalidState = New("invalid state")
)

var fatal = []error{
	ErrDescriptor,
	ErrMissingResource,
	ErrClassCollision,
	ErrEnumCollision,
	ErrEnumValueCollision,
	ErrUnresolvedBase,
	ErrUnknownName,
	ErrWriteFailed,
	ErrRegistryClosed,
	ErrInvalidState,
}

// IsFatal reports whether err belongs to the generator error taxonomy.
func IsFatal(err error) bool {
	return err != nil && IsAny(err, fatal...)
}

// Category returns the sentinel message of a generator error, or "error" for anything else.
func Category(err error) string {
	for _, s := range fatal {
		if Is(err, s) {
			return s.Error()
		}
	}
	return "error"
}
