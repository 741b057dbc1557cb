package testkit

import (
	"context"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
)

// RouteCall is a simulated inbound request. The adapter stores the response
// on it.
type RouteCall struct {
	Params   map[string]string    `json:"params,omitempty"`
	Headers  map[string]string    `json:"headers,omitempty"`
	Session  map[string]any       `json:"session,omitempty"`
	Body     any                  `json:"body,omitempty"`
	Response *domain.HTTPResponse `json:"-"`
}

// RouteAdapter drives routes without a server.
type RouteAdapter struct{}

var _ ports.RouteRequestAdapter[*RouteCall] = RouteAdapter{}

func (RouteAdapter) Name() string             { return "TestRouter" }
func (RouteAdapter) InitialStepName() string  { return "test-router-init" }
func (RouteAdapter) FinalizeStepName() string { return "test-router-finalize" }

func (RouteAdapter) ExtractRequest(call *RouteCall, route ports.RouteInfo) (*domain.HTTPRequest, error) {
	return &domain.HTTPRequest{
		Method:  route.Method,
		URI:     route.Path,
		Params:  call.Params,
		Headers: call.Headers,
		Session: call.Session,
		Body:    call.Body,
	}, nil
}

func (RouteAdapter) BuildInitialStepMetadata(*RouteCall, *domain.HTTPRequest) domain.StepMetadata {
	return domain.StepMetadata{}
}

func (RouteAdapter) BuildExecutionMetadata(_ *RouteCall, route ports.RouteInfo) map[string]any {
	return map[string]any{"route": route.Path}
}

func (RouteAdapter) SendResponse(_ context.Context, call *RouteCall, resp *domain.HTTPResponse, _ *domain.ExecutionContext) error {
	call.Response = resp
	return nil
}
