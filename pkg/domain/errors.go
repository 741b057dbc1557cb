package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// DefaultErrorCode is the code of any HodrError that does not name one.
const DefaultErrorCode = "internal-error"

var (
	// ErrStepSettled is returned when a step record leaves the pending state twice.
	ErrStepSettled = errors.New("step already settled")

	// ErrNoFinalizeStep is returned by Terminate when no finalize step was begun.
	ErrNoFinalizeStep = errors.New("finalize step not started")

	// ErrTerminated is returned when a terminated context is terminated again.
	ErrTerminated = errors.New("execution already terminated")
)

// HodrError is the error type that crosses the lane runner boundary. Code is a
// protocol-neutral status code; Contextual carries data for logs and telemetry.
type HodrError struct {
	Message    string
	Contextual map[string]any
	Code       string
	Detail     any
	Cause      error
}

// ErrorOption configures a HodrError.
type ErrorOption func(*HodrError)

// WithCode sets the protocol-neutral error code.
func WithCode(code string) ErrorOption {
	return func(e *HodrError) {
		if code != "" {
			e.Code = code
		}
	}
}

// WithContextual attaches unstructured contextual data.
func WithContextual(contextual map[string]any) ErrorOption {
	return func(e *HodrError) {
		e.Contextual = contextual
	}
}

// WithDetail attaches a detail payload, typically shown to clients.
func WithDetail(detail any) ErrorOption {
	return func(e *HodrError) {
		e.Detail = detail
	}
}

// WithCause wraps an underlying error.
func WithCause(cause error) ErrorOption {
	return func(e *HodrError) {
		e.Cause = cause
	}
}

// NewError creates a HodrError with the default code unless one is given.
func NewError(message string, opts ...ErrorOption) *HodrError {
	e := &HodrError{Message: message, Code: DefaultErrorCode}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HodrError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *HodrError) Unwrap() error { return e.Cause }

// Recode returns a copy of e carrying code, keeping the original as cause when
// it had none.
func (e *HodrError) Recode(code string) *HodrError {
	cp := *e
	cp.Code = code
	if cp.Cause == nil {
		cp.Cause = e
	}
	return &cp
}

// MarshalJSON renders the error for response bodies and execution journals.
func (e *HodrError) MarshalJSON() ([]byte, error) {
	out := struct {
		Message    string         `json:"message"`
		Code       string         `json:"code"`
		Contextual map[string]any `json:"contextual,omitempty"`
		Detail     any            `json:"detail,omitempty"`
		Cause      string         `json:"cause,omitempty"`
	}{
		Message:    e.Message,
		Code:       e.Code,
		Contextual: e.Contextual,
		Detail:     e.Detail,
	}
	if e.Cause != nil {
		out.Cause = e.Cause.Error()
	}
	return json.Marshal(out)
}

// FromThrown classifies any raised value as a HodrError. A HodrError anywhere
// in an error chain passes through; other errors become internal errors keyed
// by their type name; strings become messages; anything else is formatted.
func FromThrown(v any) *HodrError {
	switch t := v.(type) {
	case nil:
		return NewError("unknown error")
	case *HodrError:
		return t
	case error:
		var he *HodrError
		if errors.As(t, &he) {
			return he
		}
		return NewError(t.Error(),
			WithContextual(map[string]any{"name": typeName(t)}),
			WithCause(t),
		)
	case string:
		return NewError(t)
	default:
		return NewError(fmt.Sprint(t))
	}
}

// ConfigError reports a lane or destination that was not configured properly.
func ConfigError(message string, contextual map[string]any) *HodrError {
	return NewError(message, WithContextual(map[string]any{"config": contextual}))
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
