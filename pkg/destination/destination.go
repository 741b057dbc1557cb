// Package destination implements named call targets and the adapters that
// reach them: outgoing HTTP through a pluggable client, static files on disk
// and objects in a gocloud.dev blob bucket.
package destination

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"gocloud.dev/blob"
)

var (
	// ErrMissingPathParam is the cause of a URI template naming an unbound parameter.
	ErrMissingPathParam = errors.New("missing path parameter")
)

// Destination is a named target with one invocation strategy and any number
// of pre-bound targets. Configuration happens before traffic.
type Destination struct {
	name    string
	adapter ports.DestinationAdapter
	targets map[string]domain.Target
}

var _ ports.Destination = (*Destination)(nil)

// Option configures a Destination.
type Option func(*Destination)

// WithAdapter sets the invocation strategy.
func WithAdapter(adapter ports.DestinationAdapter) Option {
	return func(d *Destination) {
		d.adapter = adapter
	}
}

// WithTarget registers a pre-bound target.
func WithTarget(t domain.Target) Option {
	return func(d *Destination) {
		d.targets[t.Name] = t
	}
}

// New creates a destination.
func New(name string, opts ...Option) *Destination {
	d := &Destination{name: name, targets: make(map[string]domain.Target)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Destination) Name() string { return d.name }

// Adapter returns the configured invocation strategy, if any.
func (d *Destination) Adapter() ports.DestinationAdapter { return d.adapter }

// Use sets the invocation strategy.
func (d *Destination) Use(adapter ports.DestinationAdapter) *Destination {
	d.adapter = adapter
	return d
}

// HTTP makes the destination call endpoint through client.
func (d *Destination) HTTP(endpoint string, client ports.HTTPClient, opts ...HTTPOption) *Destination {
	return d.Use(NewHTTPAdapter(endpoint, client, opts...))
}

// FileSystem makes the destination resolve static content under root.
func (d *Destination) FileSystem(root string) *Destination {
	return d.Use(NewFSAdapter(root))
}

// Blob makes the destination read objects from bucket.
func (d *Destination) Blob(bucket *blob.Bucket, opts ...BlobOption) *Destination {
	return d.Use(NewBlobAdapter(bucket, opts...))
}

// AddTarget registers a pre-bound path and parameter template.
func (d *Destination) AddTarget(name, path string, params *domain.RequestParams) *Destination {
	d.targets[name] = domain.Target{Name: name, Path: path, Params: params}
	return d
}

// Target returns a pre-bound target.
func (d *Destination) Target(name string) (domain.Target, bool) {
	t, ok := d.targets[name]
	return t, ok
}

// Targets returns all pre-bound targets ordered by name.
func (d *Destination) Targets() []domain.Target {
	out := slices.Collect(maps.Values(d.targets))
	slices.SortFunc(out, func(a, b domain.Target) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Invoke delegates to the adapter. A destination without one is a no-op
// returning nil, so lanes can be declared before their destinations are.
func (d *Destination) Invoke(ctx context.Context, exec *domain.ExecutionContext, path string, params *domain.RequestParams) (any, error) {
	if d.adapter == nil {
		return nil, nil
	}
	return d.adapter.Invoke(ctx, exec, path, params)
}
