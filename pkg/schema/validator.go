package schema

import (
	"context"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/expr"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
)

// Validator is the validate-step plugin for Schema values.
type Validator struct{}

var _ ports.Validator = Validator{}

// NewValidator creates the plugin.
func NewValidator() Validator { return Validator{} }

func (Validator) Name() string { return "schema-validator" }

func (Validator) CanValidate(s any) bool {
	switch s.(type) {
	case Schema, *Schema:
		return true
	}
	return false
}

// Validate checks the payload, or the value at targetPath within it, and
// journals every failure. The payload is returned unchanged.
func (Validator) Validate(_ context.Context, exec *domain.ExecutionContext, s any, targetPath string) (any, error) {
	sch, _ := s.(Schema)
	if p, ok := s.(*Schema); ok && p != nil {
		sch = *p
	}

	payload := exec.Payload()
	err := Validate(sch, expr.ExtractPath(payload, targetPath))
	if err == nil {
		return payload, nil
	}

	fes := FieldErrors(err)
	exec.AddJournalEntry(domain.JournalEntry{
		ID:    "schema-validation-errors",
		Title: "Schema Validation Errors",
		Entry: fes,
	})
	return nil, domain.NewError("Payload does not match schema",
		domain.WithCode(string(status.BadRequest)),
		domain.WithDetail(fes),
		domain.WithCause(err),
	)
}
