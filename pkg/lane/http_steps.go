package lane

import (
	"context"
	"fmt"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/expr"
	"github.com/aretw0/hodr/pkg/status"
)

// HTTPStatusStep rejects HTTP responses whose status matches none of the
// accepted patterns.
type HTTPStatusStep struct {
	accepted []status.Pattern
}

// NewHTTPStatusStep creates a response status check.
func NewHTTPStatusStep(accepted ...status.Pattern) *HTTPStatusStep {
	return &HTTPStatusStep{accepted: accepted}
}

func (s *HTTPStatusStep) Name() string { return "validate-http-status" }

func (s *HTTPStatusStep) Execute(_ context.Context, exec *domain.ExecutionContext) (any, error) {
	resp, err := responsePayload(exec, s.Name())
	if err != nil {
		return nil, err
	}
	for _, p := range s.accepted {
		if p.Matches(resp.StatusCode) {
			return resp, nil
		}
	}
	return nil, domain.NewError(
		fmt.Sprintf("Response Status code %d not accepted", resp.StatusCode),
		domain.WithCode(string(status.ErrorFromHTTP(resp.StatusCode))),
		domain.WithContextual(map[string]any{"http": map[string]any{"statusCode": resp.StatusCode}}),
		domain.WithDetail(resp.Body),
	)
}

// ResponseBodyStep replaces an HTTP response payload with its body, or with
// the value at a dotted path inside it.
type ResponseBodyStep struct {
	path string
}

// NewResponseBodyStep creates a body extraction. path may be empty.
func NewResponseBodyStep(path string) *ResponseBodyStep {
	return &ResponseBodyStep{path: path}
}

func (s *ResponseBodyStep) Name() string { return "extract-http-body" }

func (s *ResponseBodyStep) Execute(_ context.Context, exec *domain.ExecutionContext) (any, error) {
	resp, err := responsePayload(exec, s.Name())
	if err != nil {
		return nil, err
	}
	return expr.ExtractPath(resp.Body, s.path), nil
}
