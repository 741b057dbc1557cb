package schema

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/hodr/pkg/domain"
)

// Schema maps field names to their expected types.
type Schema map[string]Type

// Validate checks that data is an object conforming to s. Fields are checked
// in name order and every failure is reported. Fields not in the schema are
// allowed.
func Validate(s Schema, data any) error {
	fields, ok := asObject(data)
	if !ok {
		return join([]error{&FieldError{Reason: fmt.Sprintf("expected object, got %s", kind(data))}})
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(s)) {
		typ := s[name]
		value, exists := fields[name]
		if !exists {
			if _, optional := typ.(optionalType); optional {
				continue
			}
			errs = append(errs, &FieldError{Path: name, Reason: "required"})
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, prefix(name, err)...)
		}
	}
	return join(errs)
}

func asObject(data any) (map[string]any, bool) {
	switch d := data.(type) {
	case map[string]any:
		return d, true
	case map[string]string:
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out, true
	case domain.Binder:
		return d.Bindings(), true
	}
	return nil, false
}
