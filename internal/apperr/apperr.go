// Package apperr defines the error kinds surfaced by spackter commands.
// Every kind maps to exit status 1; the kind decides how callers react
// (abort before side effects, render a disambiguation table, ...).
package apperr

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindInvalidArgument
	KindNotFound
	KindAmbiguousSelection
	KindAlreadyExists
	KindPhaseFailure
	KindStorage
	KindDeclined
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindAmbiguousSelection:
		return "ambiguous selection"
	case KindAlreadyExists:
		return "already exists"
	case KindPhaseFailure:
		return "phase failure"
	case KindStorage:
		return "storage error"
	case KindDeclined:
		return "declined"
	default:
		return "error"
	}
}

// Sentinels for errors.Is checks.
var (
	ErrConfiguration      = &Error{Kind: KindConfiguration}
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrAmbiguousSelection = &Error{Kind: KindAmbiguousSelection}
	ErrAlreadyExists      = &Error{Kind: KindAlreadyExists}
	ErrPhaseFailure       = &Error{Kind: KindPhaseFailure}
	ErrStorage            = &Error{Kind: KindStorage}
	ErrDeclined           = &Error{Kind: KindDeclined}
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode implements the exit coder contract used by main.
func (e *Error) ExitCode() int { return 1 }

// Is matches kind sentinels (errors with no message and no cause).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Msg == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Configuration(format string, args ...any) error {
	return newf(KindConfiguration, format, args...)
}

func InvalidArgument(format string, args ...any) error {
	return newf(KindInvalidArgument, format, args...)
}

func NotFound(format string, args ...any) error { return newf(KindNotFound, format, args...) }

func AlreadyExists(format string, args ...any) error {
	return newf(KindAlreadyExists, format, args...)
}

func PhaseFailure(format string, args ...any) error {
	return newf(KindPhaseFailure, format, args...)
}

func Declined(format string, args ...any) error { return newf(KindDeclined, format, args...) }

// Storage wraps an I/O failure.
func Storage(err error, format string, args ...any) error {
	e := newf(KindStorage, format, args...)
	e.Err = err
	return e
}
