package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned when parsing an unsupported type string.
var ErrUnknownType = errors.New("unknown schema type")

// FieldError is a validation failure at a dotted path.
type FieldError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// AggregateError collects every failure found in one validation.
type AggregateError struct {
	Errors []*FieldError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors", len(e.Errors))
	for _, fe := range e.Errors {
		b.WriteString("; ")
		b.WriteString(fe.Error())
	}
	return b.String()
}

// FieldErrors returns the individual failures of err, if it is a validation error.
func FieldErrors(err error) []*FieldError {
	var agg *AggregateError
	if errors.As(err, &agg) {
		return agg.Errors
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}
	}
	return nil
}

// prefix flattens err into field errors nested under path.
func prefix(path string, err error) []error {
	fes := FieldErrors(err)
	if fes == nil {
		return []error{&FieldError{Path: path, Reason: err.Error()}}
	}
	out := make([]error, 0, len(fes))
	for _, fe := range fes {
		p := path
		switch {
		case fe.Path == "":
		case strings.HasPrefix(fe.Path, "["):
			p += fe.Path
		default:
			p += "." + fe.Path
		}
		out = append(out, &FieldError{Path: p, Reason: fe.Reason})
	}
	return out
}

func join(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	agg := &AggregateError{}
	for _, err := range errs {
		agg.Errors = append(agg.Errors, FieldErrors(err)...)
	}
	return agg
}
