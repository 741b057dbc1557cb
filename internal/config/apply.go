package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/hodr"
	hodrhttp "github.com/aretw0/hodr/pkg/adapters/http"
	"github.com/aretw0/hodr/pkg/adapters/redis"
	"github.com/aretw0/hodr/pkg/destination"
	"github.com/aretw0/hodr/pkg/lane"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/schema"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/aretw0/hodr/pkg/tracker"
	"github.com/aretw0/hodr/pkg/validator/openapi"
)

// Resources holds what Apply opened. Close releases it.
type Resources struct {
	closers []io.Closer
}

// Close closes every opened resource.
func (r *Resources) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// ApplyOption configures Apply.
type ApplyOption func(*applier)

// WithHTTPClient makes every http destination use client.
func WithHTTPClient(client ports.HTTPClient) ApplyOption {
	return func(a *applier) {
		a.client = client
	}
}

type applier struct {
	client ports.HTTPClient
	res    *Resources
}

// Apply validates cfg and declares its tracker, validators, destinations
// and origins on app.
func Apply(ctx context.Context, app *hodr.App, cfg *Config, opts ...ApplyOption) (*Resources, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &applier{res: &Resources{}}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.tracker(app, cfg.Tracker); err != nil {
		return a.res, err
	}
	if err := app.Use(schema.NewValidator()); err != nil {
		return a.res, err
	}
	if cfg.OpenAPI != "" {
		data, err := os.ReadFile(cfg.OpenAPI)
		if err != nil {
			return a.res, fmt.Errorf("read openapi document: %w", err)
		}
		v, err := openapi.Load(ctx, data)
		if err != nil {
			return a.res, err
		}
		if err := app.Use(v); err != nil {
			return a.res, err
		}
	}

	for _, name := range sortedKeys(cfg.Destinations) {
		if err := a.destination(ctx, app, name, cfg.Destinations[name]); err != nil {
			return a.res, fmt.Errorf("destination %s: %w", name, err)
		}
	}

	for _, module := range sortedKeys(cfg.Modules) {
		functions := cfg.Modules[module]
		for _, fn := range sortedKeys(functions) {
			if err := buildLane(app.Module(module).Function(fn), functions[fn]); err != nil {
				return a.res, fmt.Errorf("function %s.%s: %w", module, fn, err)
			}
		}
	}

	for _, name := range sortedKeys(cfg.Routers) {
		r := app.Router(name)
		for _, rt := range cfg.Routers[name] {
			if err := buildLane(r.Route(strings.ToUpper(rt.Method), rt.Path), rt.Steps); err != nil {
				return a.res, fmt.Errorf("route %s %s: %w", rt.Method, rt.Path, err)
			}
		}
	}

	app.Logger().Info("configuration applied",
		"destinations", len(cfg.Destinations), "modules", len(cfg.Modules), "routers", len(cfg.Routers))
	return a.res, nil
}

func (a *applier) tracker(app *hodr.App, tc TrackerConfig) error {
	var t ports.Tracker
	if tc.Type == "redis" {
		rt := redis.New(tc.Addr, tc.Password, tc.DB, redis.WithKey(tc.Key), redis.WithLimit(tc.Limit))
		a.res.closers = append(a.res.closers, rt)
		t = rt
	} else {
		t = tracker.NewMemory(tracker.WithLimit(tc.Limit))
	}
	if len(tc.Redact) > 0 {
		var err error
		if t, err = tracker.Redact(t, tc.Redact...); err != nil {
			return err
		}
	}
	return app.Use(t)
}

func (a *applier) destination(ctx context.Context, app *hodr.App, name string, dc DestinationConfig) error {
	d := app.Destination(name)
	switch dc.Type {
	case DestinationHTTP:
		client := a.client
		if client == nil {
			opts := []hodrhttp.ClientOption{hodrhttp.WithClientLogger(app.Logger())}
			if dc.Timeout > 0 {
				opts = append(opts, hodrhttp.WithHTTPClient(&http.Client{Timeout: dc.Timeout}))
			}
			client = hodrhttp.NewClient(opts...)
		}
		var hopts []destination.HTTPOption
		for _, k := range sortedKeys(dc.Headers) {
			hopts = append(hopts, destination.WithHeader(k, dc.Headers[k]))
		}
		d.HTTP(dc.BaseURL, client, hopts...)
	case DestinationFS:
		d.FileSystem(dc.Root)
	case DestinationBlob:
		adapter, err := destination.OpenBlobAdapter(ctx, dc.URL, destination.WithPrefix(dc.Prefix))
		if err != nil {
			return err
		}
		a.res.closers = append(a.res.closers, adapter)
		d.Use(adapter)
	}
	for _, t := range sortedKeys(dc.Targets) {
		d.AddTarget(t, dc.Targets[t].Path, dc.Targets[t].Params)
	}
	return nil
}

// buildLane appends steps to b. The steps have been validated; the builder
// still rejects steps that do not fit the payload kind, such as response
// checks on a lane that made no call.
func buildLane(b *lane.Builder, steps LaneSteps) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidStep, r)
		}
	}()
	for _, s := range steps {
		code := status.Code(s.Code)
		switch s.Kind {
		case StepExtract:
			b.Extract(s.Expr)
		case StepExtractMap:
			b.ExtractMap(s.Map)
		case StepExpect:
			b.ExpectExpr(s.Expr, orDefault(code, status.BadRequest))
		case StepExpectValue:
			b.ExpectValue(orDefault(code, status.ResourceNotFound))
		case StepValidate:
			var sch any = openapi.Component(s.Component)
			if s.Schema != nil {
				sch, _ = schema.FromSpec(s.Schema)
			}
			b.ValidateAt(sch, s.At)
		case StepCall:
			params := s.Params
			if s.Method != "" {
				params = params.WithMethod(strings.ToUpper(s.Method))
			}
			b.Call(s.Destination, s.Path, params)
		case StepCallTarget:
			b.CallTarget(s.Destination, s.Target)
		case StepExpectHTTPStatus:
			patterns, _ := parsePatterns(s.Status)
			b.ExpectHTTPStatus(patterns...)
		case StepExpectHTTPOk:
			b.ExpectHTTPOk()
		case StepExpectHTTPSuccess:
			b.ExpectHTTPSuccess()
		case StepExtractResponseBody:
			b.ExtractResponseBody(s.Path)
		case StepMapStatusCode:
			m, _ := parseStatusMap(s.StatusMap)
			b.MapStatusCode(m)
		case StepLiteral:
			b.Literal(s.Value)
		}
	}
	return nil
}

func orDefault(code, fallback status.Code) status.Code {
	if code == "" {
		return fallback
	}
	return code
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
