// Package inspector exposes the declared origins and the tracked executions
// of an application as a read-only JSON API, itself served by a hodr router.
package inspector

import (
	"context"
	"net/url"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/router"
)

// RouterName is the name of the inspector router. Its own executions are
// hidden from the API.
const RouterName = "__inspector"

// Catalog lists the declared origins.
type Catalog interface {
	Origins() []ports.Origin
}

// InputInfo describes an input.
type InputInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Variant string `json:"variant"`
}

// OriginInfo describes an origin and its inputs.
type OriginInfo struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Inputs []InputInfo `json:"inputs"`
}

// Install adds the inspector routes to r:
//
//	GET /__inspector/api/origins
//	GET /__inspector/api/origins/:origin/input/:input/:variant/executions
//	GET /__inspector/api/inputs/executions
func Install(r *router.Router, catalog Catalog, tracker ports.Tracker) {
	r.Get("/__inspector/api/origins").Transform(
		func(context.Context, any, *domain.ExecutionContext, domain.Atoms) (any, error) {
			return Origins(catalog), nil
		})

	r.Get("/__inspector/api/origins/:origin/input/:input/:variant/executions").Transform(
		func(ctx context.Context, _ any, _ *domain.ExecutionContext, atoms domain.Atoms) (any, error) {
			want := domain.OriginID{
				Name:    param(atoms, "origin"),
				Input:   param(atoms, "input"),
				Variant: param(atoms, "variant"),
			}
			return Executions(ctx, tracker, func(e *domain.Execution) bool { return e.Origin == want })
		})

	r.Get("/__inspector/api/inputs/executions").Transform(
		func(ctx context.Context, _ any, _ *domain.ExecutionContext, _ domain.Atoms) (any, error) {
			return Executions(ctx, tracker, func(*domain.Execution) bool { return true })
		})
}

// Origins describes every origin except the inspector itself.
func Origins(catalog Catalog) []OriginInfo {
	out := []OriginInfo{}
	for _, o := range catalog.Origins() {
		if o.Name() == RouterName {
			continue
		}
		info := OriginInfo{Name: o.Name(), Type: o.Type(), Inputs: []InputInfo{}}
		for _, in := range o.Inputs() {
			info.Inputs = append(info.Inputs, InputInfo{Name: in.Name(), Type: in.Type(), Variant: in.Variant()})
		}
		out = append(out, info)
	}
	return out
}

// Executions returns the tracked executions matching keep, excluding the
// inspector's own, oldest first.
func Executions(ctx context.Context, tracker ports.Tracker, keep func(*domain.Execution) bool) ([]*domain.Execution, error) {
	recorded, err := tracker.Recorded(ctx)
	if err != nil {
		return nil, err
	}
	out := []*domain.Execution{}
	for _, e := range recorded {
		if e.Origin.Name == RouterName || !keep(e) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func param(atoms domain.Atoms, name string) string {
	v, _ := atoms.Get(name)
	s, _ := v.(string)
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
