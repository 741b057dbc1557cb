package testkit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
)

// Registry is a ports.Registry that keeps every recorded execution.
type Registry struct {
	destinations map[string]ports.Destination
	validators   []ports.Validator
	hooks        domain.LifecycleHooks

	mu       sync.Mutex
	recorded []*domain.ExecutionContext
}

var _ ports.Registry = (*Registry)(nil)

// NewRegistry creates a registry holding dests.
func NewRegistry(dests ...ports.Destination) *Registry {
	r := &Registry{destinations: make(map[string]ports.Destination)}
	for _, d := range dests {
		r.destinations[d.Name()] = d
	}
	return r
}

// WithValidators registers validators in order.
func (r *Registry) WithValidators(v ...ports.Validator) *Registry {
	r.validators = append(r.validators, v...)
	return r
}

// WithHooks sets the lifecycle hooks handed to lanes.
func (r *Registry) WithHooks(h domain.LifecycleHooks) *Registry {
	r.hooks = h
	return r
}

func (r *Registry) Destination(name string) (ports.Destination, bool) {
	d, ok := r.destinations[name]
	return d, ok
}

func (r *Registry) Validators() []ports.Validator { return r.validators }
func (r *Registry) Logger() *slog.Logger          { return logging.NewNop() }
func (r *Registry) Hooks() domain.LifecycleHooks  { return r.hooks }

func (r *Registry) Record(_ context.Context, exec *domain.ExecutionContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, exec)
}

// Recorded returns the executions recorded so far.
func (r *Registry) Recorded() []*domain.ExecutionContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.ExecutionContext(nil), r.recorded...)
}
