// Package openapi is a validate-step plugin checking payloads against
// OpenAPI 3 schemas with kin-openapi.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/expr"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/getkin/kin-openapi/openapi3"
)

// ErrUnknownComponent is returned for component references missing from the document.
var ErrUnknownComponent = errors.New("unknown schema component")

// Component names a schema under components/schemas of the validator's document.
type Component string

// Violation is one schema failure.
type Violation struct {
	Pointer string `json:"pointer"`
	Reason  string `json:"reason"`
}

// Validator validates against *openapi3.Schema, *openapi3.SchemaRef and
// Component values.
type Validator struct {
	doc *openapi3.T
}

var _ ports.Validator = (*Validator)(nil)

// Option configures a Validator.
type Option func(*Validator)

// WithDocument resolves Component references against doc.
func WithDocument(doc *openapi3.T) Option {
	return func(v *Validator) {
		v.doc = doc
	}
}

// New creates a validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load parses and validates an OpenAPI document and creates a validator for
// its components.
func Load(ctx context.Context, data []byte) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return New(WithDocument(doc)), nil
}

func (v *Validator) Name() string { return "openapi-validator" }

func (v *Validator) CanValidate(s any) bool {
	switch s.(type) {
	case *openapi3.Schema, *openapi3.SchemaRef:
		return true
	case Component:
		return v.doc != nil
	}
	return false
}

// Validate checks the payload, or the value at targetPath within it. Values
// are normalized through JSON first so Go numeric and struct types validate
// like their wire form. Violations are journaled.
func (v *Validator) Validate(_ context.Context, exec *domain.ExecutionContext, s any, targetPath string) (any, error) {
	sch, err := v.resolve(s)
	if err != nil {
		return nil, err
	}

	payload := exec.Payload()
	value, err := normalize(expr.ExtractPath(payload, targetPath))
	if err != nil {
		return nil, err
	}

	err = sch.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return payload, nil
	}

	violations := collect(err)
	exec.AddJournalEntry(domain.JournalEntry{
		ID:    "openapi-validation-errors",
		Title: "OpenAPI Validation Errors",
		Entry: violations,
	})
	return nil, domain.NewError("Payload does not match OpenAPI schema",
		domain.WithCode(string(status.BadRequest)),
		domain.WithDetail(violations),
		domain.WithCause(err),
	)
}

func (v *Validator) resolve(s any) (*openapi3.Schema, error) {
	switch t := s.(type) {
	case *openapi3.Schema:
		return t, nil
	case *openapi3.SchemaRef:
		if t.Value == nil {
			return nil, fmt.Errorf("%w: unresolved reference %q", ErrUnknownComponent, t.Ref)
		}
		return t.Value, nil
	case Component:
		if v.doc != nil && v.doc.Components != nil {
			if ref, ok := v.doc.Components.Schemas[string(t)]; ok && ref.Value != nil {
				return ref.Value, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, t)
	}
	return nil, fmt.Errorf("unsupported schema object %T", s)
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("payload is not JSON-encodable: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collect(err error) []Violation {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Violation
		for _, e := range multi {
			out = append(out, collect(e)...)
		}
		return out
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		return []Violation{{Pointer: "/" + strings.Join(se.JSONPointer(), "/"), Reason: se.Reason}}
	}
	return []Violation{{Reason: err.Error()}}
}
