// Package router implements HTTP routers as origins. A router collects routes,
// each a method, a path template and a lane; a server adapter matches inbound
// requests and hands them to HandleRequest together with its
// ports.RouteRequestAdapter.
package router

import (
	"sync"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/lane"
	"github.com/aretw0/hodr/pkg/ports"
)

// FinalizeFunc shapes the response body of a successful execution.
type FinalizeFunc func(exec *domain.ExecutionContext, payload any) (any, error)

// ErrorFormatter shapes the response body of a failed execution.
type ErrorFormatter func(exec *domain.ExecutionContext, err *domain.HodrError) (any, error)

// Router is an origin made of HTTP routes.
type Router struct {
	root        ports.Registry
	name        string
	routes      []*Route
	finalize    FinalizeFunc
	formatError ErrorFormatter
}

var _ ports.Origin = (*Router)(nil)

// New creates an empty router owned by root. Successful payloads become the
// response body as is and errors are rendered as themselves.
func New(root ports.Registry, name string) *Router {
	return &Router{
		root: root,
		name: name,
		finalize: func(_ *domain.ExecutionContext, payload any) (any, error) {
			return payload, nil
		},
		formatError: func(_ *domain.ExecutionContext, err *domain.HodrError) (any, error) {
			return err, nil
		},
	}
}

func (r *Router) Name() string { return r.name }
func (r *Router) Type() string { return "Router" }

// Inputs returns the routes in declaration order.
func (r *Router) Inputs() []ports.Input {
	out := make([]ports.Input, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt)
	}
	return out
}

// Routes returns the routes in declaration order.
func (r *Router) Routes() []*Route {
	return append([]*Route(nil), r.routes...)
}

// FinalizePayload replaces the success body shaper.
func (r *Router) FinalizePayload(fn FinalizeFunc) *Router {
	r.finalize = fn
	return r
}

// FormatError replaces the error body shaper.
func (r *Router) FormatError(fn ErrorFormatter) *Router {
	r.formatError = fn
	return r
}

// Get declares a GET route.
func (r *Router) Get(path string) *lane.Builder { return r.Route(domain.MethodGet, path) }

// Post declares a POST route.
func (r *Router) Post(path string) *lane.Builder { return r.Route(domain.MethodPost, path) }

// Put declares a PUT route.
func (r *Router) Put(path string) *lane.Builder { return r.Route(domain.MethodPut, path) }

// Patch declares a PATCH route.
func (r *Router) Patch(path string) *lane.Builder { return r.Route(domain.MethodPatch, path) }

// Delete declares a DELETE route.
func (r *Router) Delete(path string) *lane.Builder { return r.Route(domain.MethodDelete, path) }

// Route declares a route and returns the builder for its lane. Path segments
// of the form ":name" are route parameters.
func (r *Router) Route(method, path string) *lane.Builder {
	b := lane.NewBuilder(r.root, lane.KindHTTPRequest)
	r.routes = append(r.routes, &Route{router: r, method: method, path: path, builder: b})
	return b
}

// Route is one method and path template of a router.
type Route struct {
	router  *Router
	method  string
	path    string
	builder *lane.Builder

	once sync.Once
	lane *lane.Lane
}

var _ ports.Input = (*Route)(nil)

func (rt *Route) Name() string    { return rt.path }
func (rt *Route) Type() string    { return "Route" }
func (rt *Route) Variant() string { return rt.method }

// Method returns the HTTP method.
func (rt *Route) Method() string { return rt.method }

// Path returns the path template.
func (rt *Route) Path() string { return rt.path }

// Info describes the route to request adapters.
func (rt *Route) Info() ports.RouteInfo {
	return ports.RouteInfo{Router: rt.router.name, Method: rt.method, Path: rt.path}
}

func (rt *Route) compiled() *lane.Lane {
	rt.once.Do(func() { rt.lane = rt.builder.Lane() })
	return rt.lane
}
