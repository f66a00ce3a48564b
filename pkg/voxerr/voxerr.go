// Package voxerr defines the failure kinds reported by every pixvox stage.
//
// Each failing call returns its own *Error value; there is no shared
// last-error state, so results can be inspected from any goroutine.
package voxerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a failure
type Kind int

const (
	// KindIO covers open, read and write failures
	KindIO Kind = iota + 1

	// KindFormat means the input data is structurally invalid or unsupported
	KindFormat

	// KindUnsupportedFormat means no codec handles the file extension
	KindUnsupportedFormat

	// KindAllocation means a buffer would exceed the configured limits
	KindAllocation

	// KindConfig means the configuration is missing fields or out of range
	KindConfig
)

// Sentinels for errors.Is matching on a kind.
var (
	ErrIO                = errors.New("io error")
	ErrFormat            = errors.New("format error")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrAllocation        = errors.New("allocation error")
	ErrConfig            = errors.New("config error")
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IoError"
	case KindFormat:
		return "FormatError"
	case KindUnsupportedFormat:
		return "UnsupportedFormatError"
	case KindAllocation:
		return "AllocationError"
	case KindConfig:
		return "ConfigError"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindFormat:
		return ErrFormat
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindAllocation:
		return ErrAllocation
	case KindConfig:
		return ErrConfig
	}
	return nil
}

// Error is the result of a failed operation.
type Error struct {
	Kind Kind

	// Op names the failing operation, e.g. "decode" or "export"
	Op string

	// Path is the file involved, if any
	Path string

	// Msg is the human-readable reason
	Msg string

	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%q", e.Path)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind Kind, op, path string, cause error, format string, args ...interface{}) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{
		Kind: kind,
		Op:   op,
		Path: path,
		Msg:  fmt.Sprintf(format, args...),
		Err:  cause,
	}
}

// IO reports a file system failure.
func IO(op, path string, cause error, format string, args ...interface{}) *Error {
	return newError(KindIO, op, path, cause, format, args...)
}

// Format reports invalid input data.
func Format(op, path string, format string, args ...interface{}) *Error {
	return newError(KindFormat, op, path, nil, format, args...)
}

// FormatCause reports invalid input data detected by a lower layer.
func FormatCause(op, path string, cause error, format string, args ...interface{}) *Error {
	return newError(KindFormat, op, path, cause, format, args...)
}

// Unsupported reports an extension no codec handles.
func Unsupported(op, path string, format string, args ...interface{}) *Error {
	return newError(KindUnsupportedFormat, op, path, nil, format, args...)
}

// Allocation reports a buffer request beyond the named limits.
func Allocation(op string, format string, args ...interface{}) *Error {
	return newError(KindAllocation, op, "", nil, format, args...)
}

// Config reports an invalid configuration value.
func Config(op string, format string, args ...interface{}) *Error {
	return newError(KindConfig, op, "", nil, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// WithPath fills in the file path on an *Error that has none. Other errors
// are returned unchanged.
func WithPath(err error, path string) error {
	var e *Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}
