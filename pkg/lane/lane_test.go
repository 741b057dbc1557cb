package lane_test

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"testing"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/lane"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	destinations map[string]ports.Destination
	validators   []ports.Validator
}

func (r *stubRegistry) Destination(name string) (ports.Destination, bool) {
	d, ok := r.destinations[name]
	return d, ok
}
func (r *stubRegistry) Validators() []ports.Validator                    { return r.validators }
func (r *stubRegistry) Record(context.Context, *domain.ExecutionContext) {}
func (r *stubRegistry) Logger() *slog.Logger                             { return logging.NewNop() }
func (r *stubRegistry) Hooks() domain.LifecycleHooks                     { return domain.LifecycleHooks{} }

type stubDestination struct {
	name    string
	targets map[string]domain.Target
	invoke  func(path string, params *domain.RequestParams) (any, error)
}

func (d *stubDestination) Name() string { return d.name }
func (d *stubDestination) Invoke(_ context.Context, _ *domain.ExecutionContext, path string, params *domain.RequestParams) (any, error) {
	return d.invoke(path, params)
}
func (d *stubDestination) Target(name string) (domain.Target, bool) {
	t, ok := d.targets[name]
	return t, ok
}

type stubValidator struct{ seen []string }

func (v *stubValidator) Name() string { return "stub" }
func (v *stubValidator) CanValidate(schema any) bool {
	_, ok := schema.(string)
	return ok
}
func (v *stubValidator) Validate(_ context.Context, exec *domain.ExecutionContext, schema any, targetPath string) (any, error) {
	v.seen = append(v.seen, schema.(string)+"@"+targetPath)
	if schema == "reject" {
		return nil, errors.New("does not conform")
	}
	return exec.Payload(), nil
}

func newExecution(payload any, atoms map[string]any) *domain.ExecutionContext {
	return domain.NewExecution(domain.OriginID{Name: "lane", Input: "test", Variant: "function"},
		payload, nil, domain.NewAtoms(atoms), nil)
}

func run(t *testing.T, b *lane.Builder, exec *domain.ExecutionContext) error {
	t.Helper()
	return b.Lane().Run(context.Background(), exec)
}

func hodrErr(t *testing.T, err error) *domain.HodrError {
	t.Helper()
	var herr *domain.HodrError
	require.ErrorAs(t, err, &herr)
	return herr
}

func TestParallel_ResultsInLaneOrder(t *testing.T) {
	b := lane.NewBuilder(nil, lane.KindGeneric).Parallel(
		func(b *lane.Builder) {
			b.Transform(func(_ context.Context, p any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
				return strconv.Atoi(p.(string))
			})
		},
		func(b *lane.Builder) {
			b.Transform(func(_ context.Context, p any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
				return p == "12345", nil
			})
		},
		func(b *lane.Builder) {
			b.Transform(func(_ context.Context, p any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
				return p.(string) + p.(string), nil
			})
		},
	)

	exec := newExecution("12345", nil)
	require.NoError(t, run(t, b, exec))
	assert.Equal(t, []any{12345, true, "1234512345"}, exec.Payload())

	steps := exec.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "parallel", steps[0].Name)
	require.Len(t, steps[0].Forks, 3)
	assert.Equal(t, "transform", steps[0].Forks[0][0].Name)
}

func TestParallel_FirstErrorCancelsSiblings(t *testing.T) {
	b := lane.NewBuilder(nil, lane.KindGeneric).Parallel(
		func(b *lane.Builder) {
			b.Transform(func(ctx context.Context, _ any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})
		},
		func(b *lane.Builder) {
			b.Transform(func(context.Context, any, *domain.ExecutionContext, domain.Atoms) (any, error) {
				return nil, domain.NewError("branch failed", domain.WithCode(string(status.Conflict)))
			})
		},
	)

	exec := newExecution("x", nil)
	err := run(t, b, exec)
	require.Error(t, err)
	assert.Equal(t, "x", exec.Payload())
	assert.Equal(t, domain.StepError, exec.Steps()[0].State)
	assert.Equal(t, string(status.Conflict), hodrErr(t, err).Code)
}

func TestExtract_MergesAtomsAndJournalsComparisons(t *testing.T) {
	payload := map[string]any{
		"comments": []any{
			map[string]any{"id": 1, "text": "first"},
			map[string]any{"id": 2, "text": "second"},
		},
	}
	b := lane.NewBuilder(nil, lane.KindGeneric).Extract("comments[id=#commentId].text")

	exec := newExecution(payload, map[string]any{"commentId": "2"})
	require.NoError(t, run(t, b, exec))
	assert.Equal(t, "second", exec.Payload())

	journal := exec.Steps()[0].Metadata.Journal
	require.Len(t, journal, 1)
	assert.Equal(t, "extract-comparisons", journal[0].ID)
}

func TestExtractMap(t *testing.T) {
	b := lane.NewBuilder(nil, lane.KindHTTPRequest).ExtractMap(map[string]string{
		"id":      "params.id",
		"account": "session.account",
	})
	exec := newExecution(map[string]any{
		"params":  map[string]any{"id": "7"},
		"session": map[string]any{"account": "acc"},
	}, nil)

	require.NoError(t, run(t, b, exec))
	assert.Equal(t, map[string]any{"id": "7", "account": "acc"}, exec.Payload())
	assert.Equal(t, lane.KindGeneric, b.Kind())
}

func TestTransformField_CopiesPayload(t *testing.T) {
	original := map[string]any{"name": "ana", "age": 3}
	b := lane.NewBuilder(nil, lane.KindGeneric).TransformField("age",
		func(_ context.Context, p any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
			return p.(map[string]any)["age"].(int) + 1, nil
		})

	exec := newExecution(original, nil)
	require.NoError(t, run(t, b, exec))
	assert.Equal(t, map[string]any{"name": "ana", "age": 4}, exec.Payload())
	assert.Equal(t, 3, original["age"])
}

func TestTransformField_RejectsScalarPayload(t *testing.T) {
	b := lane.NewBuilder(nil, lane.KindGeneric).TransformField("x",
		func(context.Context, any, *domain.ExecutionContext, domain.Atoms) (any, error) { return 1, nil })

	err := run(t, b, newExecution(42, nil))
	assert.ErrorIs(t, err, lane.ErrUnexpectedPayload)
}

func TestExpectExpr(t *testing.T) {
	b := lane.NewBuilder(nil, lane.KindGeneric).ExpectExpr("owner=accountId", status.Forbidden)

	exec := newExecution(map[string]any{"owner": "a"}, map[string]any{"accountId": "a"})
	require.NoError(t, run(t, b, exec))
	assert.Equal(t, map[string]any{"owner": "a"}, exec.Payload())

	exec = newExecution(map[string]any{"owner": "b"}, map[string]any{"accountId": "a"})
	err := run(t, b, exec)
	herr := hodrErr(t, err)
	assert.Equal(t, "Expectation failed!", herr.Message)
	assert.Equal(t, string(status.Forbidden), herr.Code)
	assert.Equal(t, map[string]any{"statusCode": 403}, herr.Contextual["http"])

	journal := exec.Steps()[0].Metadata.Journal
	require.NotEmpty(t, journal)
	assert.Equal(t, "owner=accountId", journal[0].ID)
	assert.Equal(t, "Expression Comparison: owner=accountId", journal[0].Title)
}

func TestExpectValue(t *testing.T) {
	b := lane.NewBuilder(nil, lane.KindGeneric).ExpectValue(status.ResourceNotFound)

	require.NoError(t, run(t, b, newExecution(0, nil)))

	exec := newExecution(nil, nil)
	herr := hodrErr(t, run(t, b, exec))
	assert.Equal(t, string(status.ResourceNotFound), herr.Code)
	assert.Equal(t, "expect-value", exec.Steps()[0].Name)
}

func TestValidate(t *testing.T) {
	v := &stubValidator{}
	root := &stubRegistry{validators: []ports.Validator{v}}

	t.Run("Function Schema Bypasses Validators", func(t *testing.T) {
		fn := lane.ValidatorFunc(func(p any) (any, error) { return nil, errors.New("nope") })
		herr := hodrErr(t, run(t, lane.NewBuilder(root, lane.KindGeneric).Validate(fn), newExecution(1, nil)))
		assert.Equal(t, string(status.BadRequest), herr.Code)
		assert.Equal(t, "nope", herr.Message)
		assert.EqualError(t, errors.Unwrap(herr), "nope")
		assert.Empty(t, v.seen)
	})

	t.Run("First Capable Validator", func(t *testing.T) {
		require.NoError(t, run(t, lane.NewBuilder(root, lane.KindGeneric).ValidateAt("accept", "body"), newExecution(1, nil)))
		assert.Equal(t, []string{"accept@body"}, v.seen)

		herr := hodrErr(t, run(t, lane.NewBuilder(root, lane.KindGeneric).Validate("reject"), newExecution(1, nil)))
		assert.Equal(t, string(status.BadRequest), herr.Code)
	})

	t.Run("No Capable Validator Passes Through", func(t *testing.T) {
		exec := newExecution("payload", nil)
		require.NoError(t, run(t, lane.NewBuilder(root, lane.KindGeneric).Validate(42), exec))
		assert.Equal(t, "payload", exec.Payload())
	})
}

func TestCall_UnknownDestination(t *testing.T) {
	b := lane.NewBuilder(&stubRegistry{}, lane.KindGeneric).HTTPGet("missing", "/x", nil)

	exec := newExecution(nil, nil)
	err := run(t, b, exec)
	require.ErrorIs(t, err, lane.ErrDestinationNotFound)
	assert.Equal(t, "Destination 'missing' has not been configured.", hodrErr(t, err).Message)
	assert.Equal(t, "http-req-missing", exec.Steps()[0].Name)
}

func TestCall_HTTPResponseSteps(t *testing.T) {
	var gotPath string
	var gotParams *domain.RequestParams
	dest := &stubDestination{
		name: "api",
		invoke: func(path string, params *domain.RequestParams) (any, error) {
			gotPath, gotParams = path, params
			return &domain.HTTPResponse{StatusCode: 204, Body: map[string]any{"data": map[string]any{"id": 9}}}, nil
		},
	}
	root := &stubRegistry{destinations: map[string]ports.Destination{"api": dest}}

	b := lane.NewBuilder(root, lane.KindGeneric).
		HTTPPut("api", "/items/:id", &domain.RequestParams{PathParamsFrom: "id"}).
		ExpectHTTPSuccess().
		MapStatusCode(status.CondMap{status.When(status.Exact(204), 200)}).
		ExtractResponseBody("data.id")

	exec := newExecution(map[string]any{"id": 9}, nil)
	require.NoError(t, run(t, b, exec))
	assert.Equal(t, 9, exec.Payload())
	assert.Equal(t, "/items/:id", gotPath)
	assert.Equal(t, domain.MethodPut, gotParams.Method)

	cs, ok := exec.CanonicalStatus()
	require.True(t, ok)
	assert.Equal(t, 200, cs.HTTPStatus)
	assert.Equal(t, "http-status-remap", cs.InferredFrom)
	assert.Equal(t, "map-status-code", cs.InferredBy)
}

func TestExpectHTTPStatus_Rejects(t *testing.T) {
	dest := &stubDestination{name: "api", invoke: func(string, *domain.RequestParams) (any, error) {
		return &domain.HTTPResponse{StatusCode: 404}, nil
	}}
	root := &stubRegistry{destinations: map[string]ports.Destination{"api": dest}}

	err := run(t, lane.NewBuilder(root, lane.KindGeneric).HTTPGet("api", "/", nil).ExpectHTTPOk(), newExecution(nil, nil))
	herr := hodrErr(t, err)
	assert.Equal(t, "Response Status code 404 not accepted", herr.Message)
	assert.Equal(t, string(status.ResourceNotFound), herr.Code)
}

func TestCallTarget(t *testing.T) {
	dest := &stubDestination{
		name:    "store",
		targets: map[string]domain.Target{"latest": {Name: "latest", Path: "/latest"}},
		invoke:  func(path string, _ *domain.RequestParams) (any, error) { return path, nil },
	}
	root := &stubRegistry{destinations: map[string]ports.Destination{"store": dest}}

	exec := newExecution(nil, nil)
	require.NoError(t, run(t, lane.NewBuilder(root, lane.KindGeneric).CallTarget("store", "latest"), exec))
	assert.Equal(t, "/latest", exec.Payload())

	err := run(t, lane.NewBuilder(root, lane.KindGeneric).CallTarget("store", "oldest"), newExecution(nil, nil))
	assert.ErrorIs(t, err, lane.ErrTargetNotFound)
}

func TestSequence_ReturnsLastResult(t *testing.T) {
	b := lane.NewBuilder(nil, lane.KindGeneric).Sequence(func(b *lane.Builder) {
		b.Literal(map[string]any{"n": 2}).Extract("n")
	})

	exec := newExecution("start", nil)
	require.NoError(t, run(t, b, exec))
	assert.Equal(t, 2, exec.Payload())
	require.Len(t, exec.Steps(), 1)
	assert.Equal(t, "start", exec.Steps()[0].Input)
}

func TestBuilder_ConfigurationPanics(t *testing.T) {
	assert.Panics(t, func() { lane.NewBuilder(nil, lane.KindGeneric).Extract("a[") })
	assert.Panics(t, func() { lane.NewBuilder(nil, lane.KindGeneric).Literal(1).ExtractResponseBody("") })
	assert.Panics(t, func() { lane.NewBuilder(nil, lane.KindHTTPRequest).ExpectHTTPOk() })
	assert.NotPanics(t, func() { lane.NewBuilder(nil, lane.KindGeneric).Then(lane.NewLiteralStep(1)).ExpectHTTPOk() })
}
