package origin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/hodr/internal/testkit"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/origin"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upper(_ context.Context, p any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
	return strings.ToUpper(p.(string)), nil
}

func TestFunction_Invoke(t *testing.T) {
	root := testkit.NewRegistry()
	m := origin.NewModule(root, "text")
	m.Function("shout").Transform(upper)

	fn, err := m.GetFunction("shout")
	require.NoError(t, err)

	out, err := fn(context.Background(), "hej")
	require.NoError(t, err)
	assert.Equal(t, "HEJ", out)

	recorded := root.Recorded()
	require.Len(t, recorded, 1)
	exec := recorded[0]
	assert.Equal(t, domain.StatusFinalized, exec.State())
	assert.Equal(t, domain.OriginID{Name: "text", Input: "shout", Variant: "function"}, exec.Origin())
	assert.Equal(t, "function-prepare", exec.InitialStep().Name)
	assert.Equal(t, "function-finalize", exec.FinalizeStep().Name)
	assert.Equal(t, "HEJ", exec.FinalizeStep().Input)
}

func TestFunction_FailureFinalizesWithError(t *testing.T) {
	root := testkit.NewRegistry()
	m := origin.NewModule(root, "guards")
	m.Function("positive").ExpectExpr("n>0", status.BadRequest)

	f, ok := m.Input("positive")
	require.True(t, ok)

	exec, err := f.Execute(context.Background(), map[string]any{"n": 0})
	require.Error(t, err)

	var herr *domain.HodrError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, string(status.BadRequest), herr.Code)

	assert.Equal(t, domain.StatusError, exec.State())
	assert.Equal(t, domain.StepError, exec.FinalizeStep().State)
	assert.Equal(t, herr, exec.FinalizeStep().Input)
	assert.Len(t, root.Recorded(), 1)
}

func TestModule_GetFunctionUnknown(t *testing.T) {
	m := origin.NewModule(nil, "empty")
	_, err := m.GetFunction("nope")
	assert.ErrorIs(t, err, origin.ErrNoSuchFunction)
	assert.True(t, errors.Is(err, origin.ErrNoSuchFunction))
}

func TestModule_Inputs(t *testing.T) {
	m := origin.NewModule(nil, "mod")
	m.Function("b")
	m.Function("a")
	m.Function("b").Literal(1)

	inputs := m.Inputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, "b", inputs[0].Name())
	assert.Equal(t, "a", inputs[1].Name())
	assert.Equal(t, "Function", inputs[0].Type())
	assert.Equal(t, "function", inputs[0].Variant())
	assert.Equal(t, "Module", m.Type())

	out, ok := m.Input("b")
	require.True(t, ok)
	v, runErr := out.Invoke(context.Background(), nil)
	require.NoError(t, runErr)
	assert.Equal(t, 1, v)
}

func TestFunction_LifecycleHooks(t *testing.T) {
	var events []domain.EventType
	root := testkit.NewRegistry().WithHooks(domain.LifecycleHooks{
		OnExecutionStart:  func(_ context.Context, e *domain.ExecutionEvent) { events = append(events, e.Type) },
		OnExecutionFinish: func(_ context.Context, e *domain.ExecutionEvent) { events = append(events, e.Type) },
		OnStepStart:       func(_ context.Context, e *domain.StepEvent) { events = append(events, e.Type) },
		OnStepFinish:      func(_ context.Context, e *domain.StepEvent) { events = append(events, e.Type) },
	})
	m := origin.NewModule(root, "mod")
	m.Function("f").Literal("x")

	fn, err := m.GetFunction("f")
	require.NoError(t, err)
	_, err = fn(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{
		domain.EventExecutionStart, domain.EventStepStart, domain.EventStepFinish, domain.EventExecutionFinish,
	}, events)
}

func TestFunction_MapArgumentBindsAtoms(t *testing.T) {
	m := origin.NewModule(testkit.NewRegistry(), "atoms")
	m.Function("echo").Transform(func(_ context.Context, _ any, _ *domain.ExecutionContext, atoms domain.Atoms) (any, error) {
		v, _ := atoms.Get("user")
		return v, nil
	})

	fn, err := m.GetFunction("echo")
	require.NoError(t, err)
	out, err := fn(context.Background(), map[string]any{"user": "ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana", out)
}
