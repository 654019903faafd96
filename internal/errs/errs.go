// Package errs holds the error kinds a build can fail with.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell configuration problems from
// traversal, render and filesystem errors.
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindConfigMissing Kind = "config_missing"
	KindConfigParse   Kind = "config_parse"
	KindSourceMissing Kind = "source_missing"
	KindTraversal     Kind = "traversal"
	KindRender        Kind = "render"
	KindIO            Kind = "io"
	// KindPathInvariant means a walked path was not below the root it was
	// discovered under. It is a programming error, not a user error.
	KindPathInvariant Kind = "path_invariant"
)

// Error is a classified error. Op names the failed operation ("readdir",
// "render", "copy", ...) and Path the file it was operating on.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a classified error. err may be nil.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Errorf returns a classified error with a formatted cause.
func Errorf(kind Kind, op, path, format string, args ...interface{}) *Error {
	return New(kind, op, path, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
