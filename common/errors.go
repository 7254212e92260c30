// Package common - Error kinds shared by the evaluation packages.
package common

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a fatal evaluation error.
type Kind int

const (
	// KindIO is any I/O failure that is not covered by a more specific kind.
	KindIO Kind = iota
	// KindConfigNotFound means info.json or a path list is missing or unreadable.
	KindConfigNotFound
	// KindConfigMalformed means the config is not valid JSON, misses required
	// fields or the path lists disagree in length.
	KindConfigMalformed
	// KindImageLoad means a listed image is missing or cannot be decoded as labels.
	KindImageLoad
	// KindShapeMismatch means a ground-truth/prediction pair differs in pixel dimensions.
	KindShapeMismatch
	// KindPredictionOutOfRange means a counted prediction pixel is not a valid class index.
	KindPredictionOutOfRange
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindConfigNotFound:
		return "config not found"
	case KindConfigMalformed:
		return "config malformed"
	case KindImageLoad:
		return "image load failure"
	case KindShapeMismatch:
		return "shape mismatch"
	case KindPredictionOutOfRange:
		return "prediction out of range"
	default:
		return "i/o failure"
	}
}

// ExitCode returns the process exit status for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfigNotFound:
		return 2
	case KindConfigMalformed:
		return 3
	case KindImageLoad:
		return 4
	case KindShapeMismatch:
		return 5
	case KindPredictionOutOfRange:
		return 6
	default:
		return 1
	}
}

// Error is a classified evaluation error.
//
// Path is the file the failure relates to and may be empty.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error. The cause is wrapped with a stack trace
// when it does not carry one already.
func NewError(kind Kind, op, path string, cause error) *Error {
	if cause != nil {
		var traced interface{ StackTrace() pkgerrors.StackTrace }
		if !errors.As(cause, &traced) {
			cause = pkgerrors.WithStack(cause)
		}
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}

// Errorf creates a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: pkgerrors.Errorf(format, args...)}
}

// KindOf reports the kind of the first classified error in err's chain.
// Unclassified errors are KindIO.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ExitCode maps an error to the process exit status. A nil error is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
