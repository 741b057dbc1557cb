package tracker

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
)

// Mask replaces the value of every redacted key.
const Mask = "***"

type redacted struct {
	next     ports.Tracker
	patterns []*regexp.Regexp
}

// Redact wraps next so that recorded executions come back with the values of
// matching atom, metadata and map-payload keys masked. Nested maps are masked
// too. The wrapped tracker still keeps the original values.
func Redact(next ports.Tracker, patterns ...string) (ports.Tracker, error) {
	r := &redacted{next: next}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redact pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

func (r *redacted) Name() string { return r.next.Name() }

func (r *redacted) Record(ctx context.Context, exec *domain.ExecutionContext) error {
	return r.next.Record(ctx, exec)
}

func (r *redacted) Recorded(ctx context.Context) ([]*domain.Execution, error) {
	execs, err := r.next.Recorded(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Execution, len(execs))
	for i, e := range execs {
		cp := *e
		cp.Atoms = r.mask(e.Atoms)
		cp.Metadata = r.mask(e.Metadata)
		if m, ok := e.Payload.(map[string]any); ok {
			cp.Payload = r.mask(m)
		}
		out[i] = &cp
	}
	return out, nil
}

func (r *redacted) mask(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch {
		case r.matches(k):
			out[k] = Mask
		default:
			if sub, ok := v.(map[string]any); ok {
				v = r.mask(sub)
			}
			out[k] = v
		}
	}
	return out
}

func (r *redacted) matches(key string) bool {
	for _, p := range r.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
