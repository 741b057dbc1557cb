// Package origin implements modules: named groups of functions, each function
// an input that runs its lane when invoked directly from Go.
package origin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/lane"
	"github.com/aretw0/hodr/pkg/ports"
)

// ErrNoSuchFunction is returned when looking up an undeclared function.
var ErrNoSuchFunction = errors.New("no such function")

// Func is a declared function bound as a Go closure.
type Func func(ctx context.Context, arg any) (any, error)

// Module is an origin grouping functions.
type Module struct {
	root      ports.Registry
	name      string
	functions map[string]*FunctionInput
	order     []string
}

var _ ports.Origin = (*Module)(nil)

// NewModule creates an empty module owned by root.
func NewModule(root ports.Registry, name string) *Module {
	return &Module{root: root, name: name, functions: make(map[string]*FunctionInput)}
}

func (m *Module) Name() string { return m.name }
func (m *Module) Type() string { return "Module" }

// Inputs returns the declared functions in declaration order.
func (m *Module) Inputs() []ports.Input {
	out := make([]ports.Input, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.functions[name])
	}
	return out
}

// Function declares a function and returns the builder for its lane.
// Declaring a name again replaces the earlier function.
func (m *Module) Function(name string) *lane.Builder {
	b := lane.NewBuilder(m.root, lane.KindGeneric)
	if _, ok := m.functions[name]; !ok {
		m.order = append(m.order, name)
	}
	m.functions[name] = &FunctionInput{root: m.root, module: m.name, name: name, builder: b}
	return b
}

// Input returns a declared function.
func (m *Module) Input(name string) (*FunctionInput, bool) {
	f, ok := m.functions[name]
	return f, ok
}

// GetFunction binds a declared function as a closure.
func (m *Module) GetFunction(name string) (Func, error) {
	f, ok := m.functions[name]
	if !ok {
		return nil, domain.NewError(fmt.Sprintf("No such function: '%s'", name), domain.WithCause(ErrNoSuchFunction))
	}
	return f.Invoke, nil
}

// FunctionInput is a module function. Its lane is fixed on first invocation.
type FunctionInput struct {
	root    ports.Registry
	module  string
	name    string
	builder *lane.Builder

	once sync.Once
	lane *lane.Lane
}

var _ ports.Input = (*FunctionInput)(nil)

func (f *FunctionInput) Name() string    { return f.name }
func (f *FunctionInput) Type() string    { return "Function" }
func (f *FunctionInput) Variant() string { return "function" }

// Module returns the name of the owning module.
func (f *FunctionInput) Module() string { return f.module }

// Invoke runs the function lane with arg as the initial payload and returns
// the final payload.
func (f *FunctionInput) Invoke(ctx context.Context, arg any) (any, error) {
	exec, err := f.Execute(ctx, arg)
	if err != nil {
		return nil, err
	}
	return exec.Payload(), nil
}

// Execute is like Invoke but returns the terminated execution, journal
// included. The execution is returned even when the lane fails.
func (f *FunctionInput) Execute(ctx context.Context, arg any) (*domain.ExecutionContext, error) {
	f.once.Do(func() { f.lane = f.builder.Lane() })

	now := time.Now()
	initial := &domain.StepExecution{
		Kind:       domain.KindInitial,
		Name:       "function-prepare",
		State:      domain.StepFinalized,
		Input:      arg,
		Output:     arg,
		StartedAt:  now,
		FinishedAt: now,
	}
	bindings, _ := arg.(map[string]any)
	exec := domain.NewExecution(
		domain.OriginID{Name: f.module, Input: f.name, Variant: f.Variant()},
		arg, initial, domain.NewAtoms(bindings), nil,
	)

	var hooks domain.LifecycleHooks
	if f.root != nil {
		hooks = f.root.Hooks()
	}
	hooks.FireExecutionStart(ctx, exec)

	runErr := f.lane.Run(ctx, exec)

	params := domain.FinalizeParams{Name: "function-finalize", Status: domain.StepFinalized, Input: exec.Payload()}
	if runErr != nil {
		params.Status = domain.StepError
		params.Input = domain.FromThrown(runErr)
	}
	exec.BeginFinalizationStep(params)
	_ = exec.Terminate()

	hooks.FireExecutionFinish(ctx, exec)
	if f.root != nil {
		f.root.Record(ctx, exec)
	}
	return exec, runErr
}
