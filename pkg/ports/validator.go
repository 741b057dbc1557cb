package ports

import (
	"context"

	"github.com/aretw0/hodr/pkg/domain"
)

// Validator is a schema-validation plugin. The first registered validator whose
// CanValidate accepts a schema object handles it.
type Validator interface {
	Name() string
	CanValidate(schema any) bool
	// Validate checks the payload, or the value at targetPath within it, and
	// returns the payload to continue with.
	Validate(ctx context.Context, exec *domain.ExecutionContext, schema any, targetPath string) (any, error)
}
