// Package lane defines lanes, the ordered step lists that make up a unit of
// work, together with every built-in step and the fluent Builder used to
// configure them.
package lane

import (
	"context"
	"slices"

	"github.com/aretw0/hodr/internal/runtime"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
)

// Lane is an ordered list of steps plus the registry they resolve
// destinations and validators from. A lane has no mutators: its steps are
// fixed when it is created.
type Lane struct {
	root  ports.Registry
	steps []ports.Step
}

// New creates a lane owned by root. root may be nil for lanes that never
// reach a destination, validator or tracker.
func New(root ports.Registry, steps ...ports.Step) *Lane {
	return &Lane{root: root, steps: steps}
}

// Root returns the owning registry.
func (l *Lane) Root() ports.Registry { return l.root }

// Steps returns a copy of the configured steps.
func (l *Lane) Steps() []ports.Step { return slices.Clone(l.steps) }

// Run executes the lane against exec. The returned error is always a
// *domain.HodrError.
func (l *Lane) Run(ctx context.Context, exec *domain.ExecutionContext) error {
	var opts []runtime.Option
	if l.root != nil {
		opts = append(opts, runtime.WithLogger(l.root.Logger()), runtime.WithLifecycleHooks(l.root.Hooks()))
	}
	return runtime.New(opts...).Execute(ctx, exec, l.steps)
}
