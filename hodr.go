package hodr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/destination"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/inspector"
	"github.com/aretw0/hodr/pkg/lane"
	"github.com/aretw0/hodr/pkg/origin"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/router"
	"github.com/aretw0/hodr/pkg/tracker"
)

const (
	DefaultAppID   = "hodr-app"
	DefaultAppName = "Hodr Application"
)

// ErrUnsupportedPlugin is returned by Use for values that are neither
// trackers nor validators.
var ErrUnsupportedPlugin = errors.New("unsupported plugin")

// App is the application handle. It owns the origins, destinations,
// validators and trackers, and is what every lane consults at run time.
// Configure it before serving traffic.
type App struct {
	id     string
	name   string
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	mu           sync.RWMutex
	modules      map[string]*origin.Module
	routers      map[string]*router.Router
	origins      []ports.Origin
	destinations map[string]*destination.Destination
	validators   []ports.Validator
	trackers     []ports.Tracker
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets the structured logger handed to lanes and adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithAppID sets the application identifier.
func WithAppID(id string) Option {
	return func(a *App) {
		a.id = id
	}
}

// WithAppName sets the human readable application name.
func WithAppName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// New creates an App.
func New(opts ...Option) *App {
	a := &App{
		id:           DefaultAppID,
		name:         DefaultAppName,
		logger:       logging.NewNop(),
		modules:      make(map[string]*origin.Module),
		routers:      make(map[string]*router.Router),
		destinations: make(map[string]*destination.Destination),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) ID() string           { return a.id }
func (a *App) Name() string         { return a.name }
func (a *App) Logger() *slog.Logger { return a.logger }

// Module returns the module called name, creating it on first use.
func (a *App) Module(name string) *origin.Module {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.modules[name]; ok {
		return m
	}
	m := origin.NewModule(registry{a}, name)
	a.modules[name] = m
	a.origins = append(a.origins, m)
	return m
}

// Function declares a standalone function, held by a module of its own
// called "<name>-module".
func (a *App) Function(name string) *lane.Builder {
	return a.Module(name + "-module").Function(name)
}

// GetFunction returns a callable for a function declared on module.
func (a *App) GetFunction(module, name string) (origin.Func, error) {
	a.mu.RLock()
	m, ok := a.modules[module]
	a.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no module %q", origin.ErrNoSuchFunction, module)
	}
	return m.GetFunction(name)
}

// FunctionInput returns a function declared on module, for callers that
// need the whole execution rather than its payload.
func (a *App) FunctionInput(module, name string) (*origin.FunctionInput, bool) {
	a.mu.RLock()
	m, ok := a.modules[module]
	a.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return m.Input(name)
}

// Router returns the router called name, creating it on first use.
func (a *App) Router(name string) *router.Router {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r, ok := a.routers[name]; ok {
		return r
	}
	r := router.New(registry{a}, name)
	a.routers[name] = r
	a.origins = append(a.origins, r)
	return r
}

// Routers returns the declared routers in declaration order.
func (a *App) Routers() []*router.Router {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []*router.Router
	for _, o := range a.origins {
		if r, ok := o.(*router.Router); ok {
			out = append(out, r)
		}
	}
	return out
}

// Destination returns the destination called name, creating it on first use.
// The returned value is configured in place.
func (a *App) Destination(name string) *destination.Destination {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.destinations[name]; ok {
		return d
	}
	d := destination.New(name)
	a.destinations[name] = d
	return d
}

// Destinations returns every declared destination.
func (a *App) Destinations() []*destination.Destination {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*destination.Destination, 0, len(a.destinations))
	for _, d := range a.destinations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Use registers trackers and validators. Validators are consulted in
// registration order.
func (a *App) Use(plugins ...any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range plugins {
		switch v := p.(type) {
		case ports.Tracker:
			a.trackers = append(a.trackers, v)
		case ports.Validator:
			a.validators = append(a.validators, v)
		default:
			return fmt.Errorf("%w: %T", ErrUnsupportedPlugin, p)
		}
	}
	return nil
}

// Origins returns the modules and routers in declaration order.
func (a *App) Origins() []ports.Origin {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]ports.Origin(nil), a.origins...)
}

// Trackers returns the registered trackers.
func (a *App) Trackers() []ports.Tracker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]ports.Tracker(nil), a.trackers...)
}

// Record hands a terminated execution to every tracker. Tracker failures
// are logged and never reach the caller.
func (a *App) Record(ctx context.Context, exec *domain.ExecutionContext) {
	for _, t := range a.Trackers() {
		if err := t.Record(ctx, exec); err != nil {
			a.logger.Warn("tracker failed to record execution",
				"tracker", t.Name(), "execution_id", exec.ID(), "err", err)
		}
	}
}

// Inspector declares the inspector router backed by the first tracker,
// registering a memory tracker when none is present.
func (a *App) Inspector() *router.Router {
	trackers := a.Trackers()
	if len(trackers) == 0 {
		t := tracker.NewMemory()
		_ = a.Use(t)
		trackers = append(trackers, t)
	}
	r := a.Router(inspector.RouterName)
	if len(r.Routes()) == 0 {
		inspector.Install(r, a, trackers[0])
	}
	return r
}

// registry is the ports.Registry view of an App held by lanes.
type registry struct{ app *App }

var _ ports.Registry = registry{}

func (r registry) Destination(name string) (ports.Destination, bool) {
	r.app.mu.RLock()
	defer r.app.mu.RUnlock()
	d, ok := r.app.destinations[name]
	if !ok {
		return nil, false
	}
	return d, true
}

func (r registry) Validators() []ports.Validator {
	r.app.mu.RLock()
	defer r.app.mu.RUnlock()
	return r.app.validators
}

func (r registry) Record(ctx context.Context, exec *domain.ExecutionContext) {
	r.app.Record(ctx, exec)
}

func (r registry) Logger() *slog.Logger         { return r.app.logger }
func (r registry) Hooks() domain.LifecycleHooks { return r.app.hooks }
