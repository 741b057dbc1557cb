package lane

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
)

// PayloadKind tracks what a builder knows about the payload at the end of
// the steps configured so far. Steps that only make sense on a given kind
// panic at configuration time when it does not match.
type PayloadKind int

const (
	// KindUnknown is the payload of custom steps and generic destination calls.
	KindUnknown PayloadKind = iota
	// KindGeneric is any value that is known not to be an HTTP message.
	KindGeneric
	// KindHTTPRequest is the payload routes start with.
	KindHTTPRequest
	// KindHTTPResponse is the payload of HTTP destination calls.
	KindHTTPResponse
)

func (k PayloadKind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindHTTPRequest:
		return "http-request"
	case KindHTTPResponse:
		return "http-response"
	}
	return "unknown"
}

// Builder configures a lane fluently. It is not safe for concurrent use and
// must not be modified after its lane starts serving traffic.
type Builder struct {
	root  ports.Registry
	kind  PayloadKind
	steps []ports.Step
}

// NewBuilder creates a builder whose first step will see a payload of kind.
func NewBuilder(root ports.Registry, kind PayloadKind) *Builder {
	return &Builder{root: root, kind: kind}
}

// Kind reports the payload kind after the configured steps.
func (b *Builder) Kind() PayloadKind { return b.kind }

// Steps returns a copy of the configured steps.
func (b *Builder) Steps() []ports.Step { return slices.Clone(b.steps) }

// Lane returns a lane running the configured steps.
func (b *Builder) Lane() *Lane { return New(b.root, b.Steps()...) }

func (b *Builder) add(step ports.Step, kind PayloadKind) *Builder {
	b.steps = append(b.steps, step)
	b.kind = kind
	return b
}

func (b *Builder) requireResponse(name string) {
	if b.kind != KindHTTPResponse && b.kind != KindUnknown {
		panic(fmt.Sprintf("lane: %s needs an HTTP response payload, the lane carries %s", name, b.kind))
	}
}

// Then appends a custom step.
func (b *Builder) Then(step ports.Step) *Builder {
	return b.add(step, KindUnknown)
}

// Extract replaces the payload with the value of an expression.
// It panics if the expression is invalid.
func (b *Builder) Extract(expression string) *Builder {
	s, err := NewExtractStep(expression)
	if err != nil {
		panic(err)
	}
	return b.add(s, KindGeneric)
}

// ExtractMap replaces the payload with an object built from named
// expressions. It panics if any expression is invalid.
func (b *Builder) ExtractMap(directive map[string]string) *Builder {
	s, err := NewExtractMapStep(directive)
	if err != nil {
		panic(err)
	}
	return b.add(s, KindGeneric)
}

// Transform replaces the payload with the result of fn.
func (b *Builder) Transform(fn TransformFunc) *Builder {
	return b.add(NewTransformStep(fn), KindGeneric)
}

// TransformField replaces one field of an object payload with the result of fn.
func (b *Builder) TransformField(field string, fn TransformFunc) *Builder {
	return b.add(NewTransformFieldStep(field, fn), KindGeneric)
}

// Validate checks the payload against schema.
func (b *Builder) Validate(schema any) *Builder {
	return b.add(NewValidateStep(b.root, schema, ""), b.kind)
}

// ValidateAt checks the value at targetPath against schema.
func (b *Builder) ValidateAt(schema any, targetPath string) *Builder {
	return b.add(NewValidateStep(b.root, schema, targetPath), b.kind)
}

// Expect fails the lane with code unless predicate holds.
func (b *Builder) Expect(predicate Predicate, code status.Code) *Builder {
	return b.add(NewExpectStep("expect", predicate, code), b.kind)
}

// ExpectExpr fails the lane with code unless the expression is truthy.
// It panics if the expression is invalid.
func (b *Builder) ExpectExpr(expression string, code status.Code) *Builder {
	s, err := NewExpectExprStep(expression, code)
	if err != nil {
		panic(err)
	}
	return b.add(s, b.kind)
}

// ExpectValue fails the lane with code when the payload is nil.
func (b *Builder) ExpectValue(code status.Code) *Builder {
	return b.add(NewExpectStep("expect-value", isPresent, code), b.kind)
}

// Literal replaces the payload with a constant.
func (b *Builder) Literal(value any) *Builder {
	return b.add(NewLiteralStep(value), KindGeneric)
}

// Sequence groups the steps configured by build into a single step.
func (b *Builder) Sequence(build func(*Builder)) *Builder {
	child := NewBuilder(b.root, b.kind)
	build(child)
	return b.add(NewSequenceStep(child.steps...), child.kind)
}

// Parallel runs one forked lane per branch and yields their results in
// branch order.
func (b *Builder) Parallel(branches ...func(*Builder)) *Builder {
	lanes := make([]*Lane, 0, len(branches))
	for _, build := range branches {
		child := NewBuilder(b.root, b.kind)
		build(child)
		lanes = append(lanes, child.Lane())
	}
	return b.add(NewParallelStep(lanes...), KindGeneric)
}

// Call invokes path on a named destination.
func (b *Builder) Call(destination, path string, params *domain.RequestParams) *Builder {
	kind := KindUnknown
	if params != nil && params.Method != "" {
		kind = KindHTTPResponse
	}
	return b.add(NewCallStep(b.root, destination, path, params), kind)
}

// InvokeDestination invokes path on a named destination with no request
// parameters.
func (b *Builder) InvokeDestination(destination, path string) *Builder {
	return b.add(NewCallStep(b.root, destination, path, nil), KindUnknown)
}

// CallTarget invokes a target preconfigured on a destination.
func (b *Builder) CallTarget(destination, target string) *Builder {
	return b.add(NewCallTargetStep(b.root, destination, target), KindUnknown)
}

func (b *Builder) httpCall(method string, destination, path string, params *domain.RequestParams) *Builder {
	return b.Call(destination, path, params.WithMethod(method))
}

// HTTPGet sends a GET request through destination.
func (b *Builder) HTTPGet(destination, path string, params *domain.RequestParams) *Builder {
	return b.httpCall(domain.MethodGet, destination, path, params)
}

// HTTPPost sends a POST request through destination.
func (b *Builder) HTTPPost(destination, path string, params *domain.RequestParams) *Builder {
	return b.httpCall(domain.MethodPost, destination, path, params)
}

// HTTPPut sends a PUT request through destination.
func (b *Builder) HTTPPut(destination, path string, params *domain.RequestParams) *Builder {
	return b.httpCall(domain.MethodPut, destination, path, params)
}

// HTTPPatch sends a PATCH request through destination.
func (b *Builder) HTTPPatch(destination, path string, params *domain.RequestParams) *Builder {
	return b.httpCall(domain.MethodPatch, destination, path, params)
}

// HTTPDelete sends a DELETE request through destination.
func (b *Builder) HTTPDelete(destination, path string, params *domain.RequestParams) *Builder {
	return b.httpCall(domain.MethodDelete, destination, path, params)
}

// ExpectHTTPStatus rejects responses whose status matches none of accepted.
func (b *Builder) ExpectHTTPStatus(accepted ...status.Pattern) *Builder {
	b.requireResponse("validate-http-status")
	return b.add(NewHTTPStatusStep(accepted...), KindHTTPResponse)
}

// ExpectHTTPOk accepts only 200 responses.
func (b *Builder) ExpectHTTPOk() *Builder {
	return b.ExpectHTTPStatus(status.Exact(200))
}

// ExpectHTTPSuccess accepts responses in the 200..220 range.
func (b *Builder) ExpectHTTPSuccess() *Builder {
	return b.ExpectHTTPStatus(status.Range{From: 200, To: 220})
}

// ExtractResponseBody replaces a response payload with its body, or the
// value at path inside it.
func (b *Builder) ExtractResponseBody(path string) *Builder {
	b.requireResponse("extract-http-body")
	return b.add(NewResponseBodyStep(path), KindGeneric)
}

// MapStatusCode rewrites the status of a response payload.
func (b *Builder) MapStatusCode(m status.CondMap) *Builder {
	b.requireResponse("map-status-code")
	return b.add(NewMapStatusCodeStep(m), KindHTTPResponse)
}

func isPresent(_ context.Context, payload any, _ *domain.ExecutionContext, _ domain.Atoms) (bool, error) {
	return payload != nil, nil
}
