package ports

import (
	"context"

	"github.com/aretw0/hodr/pkg/domain"
)

// RouteInfo describes the route an inbound request matched.
type RouteInfo struct {
	Router string
	Method string
	Path   string
}

// RouteRequestAdapter bridges a server framework and a route. Raw is the
// framework's request handle. The route calls ExtractRequest,
// BuildInitialStepMetadata and BuildExecutionMetadata before running its lane
// and SendResponse afterwards.
type RouteRequestAdapter[Raw any] interface {
	// Name is decorative and may appear in step descriptions.
	Name() string
	InitialStepName() string
	FinalizeStepName() string
	ExtractRequest(raw Raw, route RouteInfo) (*domain.HTTPRequest, error)
	BuildInitialStepMetadata(raw Raw, req *domain.HTTPRequest) domain.StepMetadata
	BuildExecutionMetadata(raw Raw, route RouteInfo) map[string]any
	SendResponse(ctx context.Context, raw Raw, resp *domain.HTTPResponse, exec *domain.ExecutionContext) error
}
