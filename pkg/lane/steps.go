package lane

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/expr"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDestinationNotFound is the cause of call steps naming an unknown destination.
	ErrDestinationNotFound = errors.New("destination not found")

	// ErrTargetNotFound is the cause of call steps naming an unknown target.
	ErrTargetNotFound = errors.New("target not found")

	// ErrUnexpectedPayload is the cause of steps receiving a payload of the wrong shape.
	ErrUnexpectedPayload = errors.New("unexpected payload")
)

// TransformFunc maps the payload to a new value.
type TransformFunc func(ctx context.Context, payload any, exec *domain.ExecutionContext, atoms domain.Atoms) (any, error)

// Predicate decides whether an expect step passes.
type Predicate func(ctx context.Context, payload any, exec *domain.ExecutionContext, atoms domain.Atoms) (bool, error)

// ValidatorFunc is a schema object that validates by itself, bypassing the
// registered validators.
type ValidatorFunc func(payload any) (any, error)

// ExtractStep evaluates an extract directive against the payload, with the
// payload overlaid by the atoms as bindings.
type ExtractStep struct {
	extraction *expr.Extraction
}

// NewExtractStep compiles a single-expression extract step.
func NewExtractStep(expression string) (*ExtractStep, error) {
	x, err := expr.NewExtraction(expression)
	if err != nil {
		return nil, err
	}
	return &ExtractStep{extraction: x}, nil
}

// NewExtractMapStep compiles a named-map extract step.
func NewExtractMapStep(directive map[string]string) (*ExtractStep, error) {
	x, err := expr.NewExtractionMap(directive)
	if err != nil {
		return nil, err
	}
	return &ExtractStep{extraction: x}, nil
}

func (s *ExtractStep) Name() string { return "extract" }

func (s *ExtractStep) Execute(_ context.Context, exec *domain.ExecutionContext) (any, error) {
	type comparison struct {
		Comparison string `json:"comparison"`
		Result     any    `json:"result"`
	}
	var ops []comparison
	payload := exec.Payload()
	result := s.extraction.Extract(payload, exec.Atoms().Merge(payload), func(op expr.Operation) {
		ops = append(ops, comparison{Comparison: op.Desc, Result: op.Result})
	})

	if len(ops) > 0 {
		exec.AddJournalEntry(domain.JournalEntry{
			ID:    "extract-comparisons",
			Title: "Extract Comparisons",
			Entry: ops,
		})
	}
	return result, nil
}

// TransformStep applies a function to the payload. With a target field the
// result replaces only that field of a shallow copy of a map payload.
type TransformStep struct {
	fn     TransformFunc
	target string
}

// NewTransformStep creates a transform of the whole payload.
func NewTransformStep(fn TransformFunc) *TransformStep {
	return &TransformStep{fn: fn}
}

// NewTransformFieldStep creates a transform of a single field.
func NewTransformFieldStep(target string, fn TransformFunc) *TransformStep {
	return &TransformStep{fn: fn, target: target}
}

func (s *TransformStep) Name() string { return "transform" }

func (s *TransformStep) Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	payload := exec.Payload()
	v, err := s.fn(ctx, payload, exec, exec.Atoms())
	if err != nil {
		return nil, err
	}
	if s.target == "" {
		return v, nil
	}

	var out map[string]any
	switch p := payload.(type) {
	case nil:
		out = make(map[string]any, 1)
	case map[string]any:
		out = maps.Clone(p)
	default:
		return nil, domain.NewError(
			fmt.Sprintf("transform of field %q needs an object payload, got %T", s.target, payload),
			domain.WithCause(ErrUnexpectedPayload),
		)
	}
	out[s.target] = v
	return out, nil
}

// ValidateStep delegates to the first registered validator able to handle the
// schema object. Any failure is reported as bad-request.
type ValidateStep struct {
	root       ports.Registry
	schema     any
	targetPath string
}

// NewValidateStep creates a validate step. targetPath may be empty.
func NewValidateStep(root ports.Registry, schema any, targetPath string) *ValidateStep {
	return &ValidateStep{root: root, schema: schema, targetPath: targetPath}
}

func (s *ValidateStep) Name() string { return "validate" }

func (s *ValidateStep) Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	out, err := s.validate(ctx, exec)
	if err != nil {
		return nil, domain.FromThrown(err).Recode(string(status.BadRequest))
	}
	return out, nil
}

func (s *ValidateStep) validate(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	switch fn := s.schema.(type) {
	case ValidatorFunc:
		return fn(exec.Payload())
	case func(any) (any, error):
		return fn(exec.Payload())
	}
	if s.root != nil {
		for _, v := range s.root.Validators() {
			if v.CanValidate(s.schema) {
				return v.Validate(ctx, exec, s.schema, s.targetPath)
			}
		}
	}
	return exec.Payload(), nil
}

// ExpectStep fails with a coded error unless its predicate holds. The payload
// passes through unchanged.
type ExpectStep struct {
	name       string
	predicate  Predicate
	code       status.Code
	httpStatus int
}

// NewExpectStep creates an expect step from a predicate function.
func NewExpectStep(name string, predicate Predicate, code status.Code) *ExpectStep {
	if name == "" {
		name = "expect"
	}
	return &ExpectStep{name: name, predicate: predicate, code: code, httpStatus: status.HTTPForError(string(code))}
}

// NewExpectExprStep creates an expect step from an expression evaluated
// against the payload, with the payload overlaid by the atoms as bindings.
// Every comparison is journaled under the expression.
func NewExpectExprStep(expression string, code status.Code) (*ExpectStep, error) {
	eval, err := expr.ParseAndCompile(expression)
	if err != nil {
		return nil, err
	}
	predicate := func(_ context.Context, payload any, exec *domain.ExecutionContext, atoms domain.Atoms) (bool, error) {
		v := eval(payload, atoms.Merge(payload), func(op expr.Operation) {
			if op.Type == "compare" {
				exec.AddJournalEntry(domain.JournalEntry{
					ID:    expression,
					Title: "Expression Comparison: " + expression,
					Entry: op,
				})
			}
		})
		return expr.Truthy(v), nil
	}
	return NewExpectStep("expect", predicate, code), nil
}

func (s *ExpectStep) Name() string { return s.name }

func (s *ExpectStep) Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	ok, err := s.predicate(ctx, exec.Payload(), exec, exec.Atoms())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewError("Expectation failed!",
			domain.WithCode(string(s.code)),
			domain.WithContextual(map[string]any{"http": map[string]any{"statusCode": s.httpStatus}}),
		)
	}
	return exec.Payload(), nil
}

// CallStep invokes a named destination, optionally through one of its targets.
type CallStep struct {
	name        string
	root        ports.Registry
	destination string
	path        string
	target      string
	params      *domain.RequestParams
}

// NewCallStep creates a step calling path on destination.
func NewCallStep(root ports.Registry, destination, path string, params *domain.RequestParams) *CallStep {
	name := "invoke-" + destination
	if params != nil && params.Method != "" {
		name = "http-req-" + destination
	}
	return &CallStep{name: name, root: root, destination: destination, path: path, params: params}
}

// NewCallTargetStep creates a step calling a named target of destination.
func NewCallTargetStep(root ports.Registry, destination, target string) *CallStep {
	return &CallStep{name: "call-" + destination + "-" + target, root: root, destination: destination, target: target}
}

func (s *CallStep) Name() string { return s.name }

func (s *CallStep) Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	var dest ports.Destination
	if s.root != nil {
		dest, _ = s.root.Destination(s.destination)
	}
	if dest == nil {
		return nil, domain.NewError(
			fmt.Sprintf("Destination '%s' has not been configured.", s.destination),
			domain.WithContextual(map[string]any{"config": map[string]any{"destination": s.destination}}),
			domain.WithCause(ErrDestinationNotFound),
		)
	}

	path, params := s.path, s.params
	if s.target != "" {
		t, ok := dest.Target(s.target)
		if !ok {
			return nil, domain.NewError(
				fmt.Sprintf("Target '%s' has not been configured on destination '%s'.", s.target, s.destination),
				domain.WithContextual(map[string]any{"config": map[string]any{"destination": s.destination, "target": s.target}}),
				domain.WithCause(ErrTargetNotFound),
			)
		}
		path, params = t.Path, t.Params
	}
	return dest.Invoke(ctx, exec, path, params)
}

// MapStatusCodeStep rewrites the status of an HTTP response payload and
// records a 2xx result as the canonical status.
type MapStatusCodeStep struct {
	condMap status.CondMap
}

// NewMapStatusCodeStep creates a status remapping step.
func NewMapStatusCodeStep(m status.CondMap) *MapStatusCodeStep {
	return &MapStatusCodeStep{condMap: m}
}

func (s *MapStatusCodeStep) Name() string { return "map-status-code" }

func (s *MapStatusCodeStep) Execute(_ context.Context, exec *domain.ExecutionContext) (any, error) {
	resp, err := responsePayload(exec, s.Name())
	if err != nil {
		return nil, err
	}
	out := *resp
	out.StatusCode = status.MapStatusCode(resp.StatusCode, s.condMap)
	status.RecordCanonical(exec, out.StatusCode, "http-status-remap")
	return &out, nil
}

// SequenceStep runs nested steps in order within one journal record. Each
// nested step sees the result of the previous one; the last result is
// returned. On failure the payload is left as it was before the sequence.
type SequenceStep struct {
	steps []ports.Step
}

// NewSequenceStep creates a sequence of steps.
func NewSequenceStep(steps ...ports.Step) *SequenceStep {
	return &SequenceStep{steps: steps}
}

func (s *SequenceStep) Name() string { return "sequence" }

func (s *SequenceStep) Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	original := exec.Payload()
	var result any
	for _, step := range s.steps {
		v, err := step.Execute(ctx, exec)
		if err != nil {
			exec.SetPayload(original)
			return nil, err
		}
		result = v
		exec.SetPayload(v)
	}
	exec.SetPayload(original)
	return result, nil
}

// ParallelStep forks the execution once per lane and runs the forks
// concurrently. The result is the forks' final payloads in lane order. The
// first failing branch cancels the context shared by its siblings and is
// returned once every branch has stopped.
type ParallelStep struct {
	lanes []*Lane
}

// NewParallelStep creates a fan-out over lanes.
func NewParallelStep(lanes ...*Lane) *ParallelStep {
	return &ParallelStep{lanes: lanes}
}

func (s *ParallelStep) Name() string { return "parallel" }

func (s *ParallelStep) Execute(ctx context.Context, exec *domain.ExecutionContext) (any, error) {
	results := make([]any, len(s.lanes))
	forks := make([]*domain.ExecutionContext, len(s.lanes))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range s.lanes {
		fork := exec.Fork()
		forks[i] = fork
		g.Go(func() error {
			if err := l.Run(gctx, fork); err != nil {
				return err
			}
			results[i] = fork.Payload()
			return nil
		})
	}
	err := g.Wait()

	if rec := exec.CurrentStep(); rec != nil {
		for _, f := range forks {
			rec.Forks = append(rec.Forks, f.Steps())
		}
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// LiteralStep ignores the payload and yields a constant.
type LiteralStep struct {
	value any
}

// NewLiteralStep creates a constant step.
func NewLiteralStep(value any) *LiteralStep {
	return &LiteralStep{value: value}
}

func (s *LiteralStep) Name() string { return "literal" }

func (s *LiteralStep) Execute(context.Context, *domain.ExecutionContext) (any, error) {
	return s.value, nil
}

func responsePayload(exec *domain.ExecutionContext, step string) (*domain.HTTPResponse, error) {
	resp, ok := exec.Payload().(*domain.HTTPResponse)
	if !ok || resp == nil {
		return nil, domain.NewError(
			fmt.Sprintf("%s needs an HTTP response payload, got %T", step, exec.Payload()),
			domain.WithCause(ErrUnexpectedPayload),
		)
	}
	return resp, nil
}
