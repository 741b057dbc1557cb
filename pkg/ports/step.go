package ports

import (
	"context"

	"github.com/aretw0/hodr/pkg/domain"
)

// Step is one unit of processing in a lane. Execute returns the new payload.
// Errors of any type are normalized to *domain.HodrError by the lane runner.
type Step interface {
	Name() string
	Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error)
}

// StepFunc adapts a function to Step.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, exec *domain.ExecutionContext) (any, error)
}

func (s StepFunc) Name() string { return s.StepName }

func (s StepFunc) Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	return s.Fn(ctx, exec)
}
