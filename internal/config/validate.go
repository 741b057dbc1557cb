package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/expr"
	"github.com/aretw0/hodr/pkg/schema"
	"github.com/aretw0/hodr/pkg/status"
)

var routeMethods = map[string]bool{
	domain.MethodGet:    true,
	domain.MethodPost:   true,
	domain.MethodPut:    true,
	domain.MethodPatch:  true,
	domain.MethodDelete: true,
}

// Validate checks the whole file, origins included.
func (c *Config) Validate() error {
	if c.App.ID == "" {
		return ErrInvalidAppID
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if f := logging.Format(c.Log.Format); f != logging.FormatText && f != logging.FormatJSON {
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, c.Log.Format)
	}

	switch c.Tracker.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTrackerType, c.Tracker.Type)
	}
	if c.Tracker.Limit <= 0 || c.Tracker.Limit > MaxTrackerLimit {
		return fmt.Errorf("%w: %d", ErrInvalidTrackerLimit, c.Tracker.Limit)
	}
	for _, p := range c.Tracker.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRedactPattern, err)
		}
	}

	for name, d := range c.Destinations {
		if err := d.validate(); err != nil {
			return fmt.Errorf("destination %s: %w", name, err)
		}
	}

	for module, functions := range c.Modules {
		for fn, steps := range functions {
			if err := c.validateSteps(steps); err != nil {
				return fmt.Errorf("function %s.%s: %w", module, fn, err)
			}
		}
	}

	for name, routes := range c.Routers {
		for i, rt := range routes {
			if !routeMethods[strings.ToUpper(rt.Method)] || !strings.HasPrefix(rt.Path, "/") {
				return fmt.Errorf("router %s: %w: #%d %s %q", name, ErrInvalidRoute, i, rt.Method, rt.Path)
			}
			if err := c.validateSteps(rt.Steps); err != nil {
				return fmt.Errorf("route %s %s: %w", rt.Method, rt.Path, err)
			}
		}
	}
	return nil
}

func (d DestinationConfig) validate() error {
	switch d.Type {
	case DestinationHTTP:
	case DestinationFS:
		if d.Root == "" {
			return fmt.Errorf("%w: fs destinations need a root", ErrMissingDestinationURL)
		}
	case DestinationBlob:
		if d.URL == "" {
			return fmt.Errorf("%w: blob destinations need a url", ErrMissingDestinationURL)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDestinationType, d.Type)
	}
	return nil
}

func (c *Config) validateSteps(steps LaneSteps) error {
	for i, s := range steps {
		if err := c.validateStep(s); err != nil {
			return fmt.Errorf("step #%d (%s): %w", i, s.Kind, err)
		}
	}
	return nil
}

func (c *Config) validateStep(s StepConfig) error {
	switch s.Kind {
	case StepExtract, StepExpect:
		if _, err := expr.ParseAndCompile(s.Expr); err != nil {
			return err
		}
	case StepExtractMap:
		if len(s.Map) == 0 {
			return fmt.Errorf("%w: extract_map needs a map", ErrInvalidStep)
		}
		for _, e := range s.Map {
			if _, err := expr.ParseAndCompile(e); err != nil {
				return err
			}
		}
	case StepExpectValue, StepExpectHTTPOk, StepExpectHTTPSuccess, StepExtractResponseBody, StepLiteral:
	case StepValidate:
		if (s.Schema == nil) == (s.Component == "") {
			return fmt.Errorf("%w: validate needs exactly one of schema or component", ErrInvalidStep)
		}
		if s.Schema != nil {
			if _, err := schema.FromSpec(s.Schema); err != nil {
				return err
			}
		}
		if s.Component != "" && c.OpenAPI == "" {
			return fmt.Errorf("%w: component %q needs an openapi document", ErrInvalidStep, s.Component)
		}
	case StepCall:
		if err := c.requireDestination(s.Destination); err != nil {
			return err
		}
		if s.Method != "" && !routeMethods[strings.ToUpper(s.Method)] {
			return fmt.Errorf("%w: method %q", ErrInvalidStep, s.Method)
		}
	case StepCallTarget:
		if err := c.requireDestination(s.Destination); err != nil {
			return err
		}
		if _, ok := c.Destinations[s.Destination].Targets[s.Target]; !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownTarget, s.Destination, s.Target)
		}
	case StepExpectHTTPStatus:
		if len(s.Status) == 0 {
			return fmt.Errorf("%w: expect_http_status needs statuses", ErrInvalidStep)
		}
		if _, err := parsePatterns(s.Status); err != nil {
			return err
		}
	case StepMapStatusCode:
		if _, err := parseStatusMap(s.StatusMap); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStepKind, s.Kind)
	}
	return nil
}

func (c *Config) requireDestination(name string) error {
	if _, ok := c.Destinations[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDestination, name)
	}
	return nil
}

// parsePattern reads "404" as an exact status and "500-599" as an inclusive
// range.
func parsePattern(s string) (status.Pattern, error) {
	from, to, isRange := strings.Cut(strings.TrimSpace(s), "-")
	lo, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return nil, fmt.Errorf("%w: status pattern %q", ErrInvalidStep, s)
	}
	if !isRange {
		return status.Exact(lo), nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil || hi < lo {
		return nil, fmt.Errorf("%w: status pattern %q", ErrInvalidStep, s)
	}
	return status.Range{From: lo, To: hi}, nil
}

func parsePatterns(in []string) ([]status.Pattern, error) {
	out := make([]status.Pattern, 0, len(in))
	for _, s := range in {
		p, err := parsePattern(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseStatusMap(in []StatusClause) (status.CondMap, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: map_status_code needs clauses", ErrInvalidStep)
	}
	out := make(status.CondMap, 0, len(in))
	for _, c := range in {
		p, err := parsePattern(c.Match)
		if err != nil {
			return nil, err
		}
		out = append(out, status.When(p, c.Status))
	}
	return out, nil
}
