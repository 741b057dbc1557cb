package ports

import (
	"context"

	"github.com/aretw0/hodr/pkg/domain"
)

// DestinationAdapter is the invocation strategy of a destination.
type DestinationAdapter interface {
	Invoke(ctx context.Context, exec *domain.ExecutionContext, path string, params *domain.RequestParams) (any, error)
}

// Destination is a named external target a call step dispatches to.
type Destination interface {
	Name() string
	Invoke(ctx context.Context, exec *domain.ExecutionContext, path string, params *domain.RequestParams) (any, error)
	// Target returns a pre-bound path and parameter template.
	Target(name string) (domain.Target, bool)
}

// HTTPClient performs the network call of an HTTP destination.
type HTTPClient interface {
	Do(ctx context.Context, exec *domain.ExecutionContext, req *domain.HTTPRequest) (*domain.HTTPResponse, error)
}
