package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operational failure so handlers can pick the right
// HTTP status without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidState
	KindPreconditionFailed
	KindUpstream
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindInvalidState:
		return "invalid-state"
	case KindPreconditionFailed:
		return "precondition-failed"
	case KindUpstream:
		return "upstream"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error carries a Kind alongside a human-readable message and an optional
// wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with the given kind and message, retaining err as
// the cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, unwrapping as needed. Errors outside the
// taxonomy report KindUnknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error's kind to the HTTP status code the API surface
// promises for it.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPreconditionFailed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
