package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type checks a single value.
type Type interface {
	Name() string
	Validate(value any) error
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %s", kind(value))
	}
	return nil
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got fractional number %v", v)
	}
	return fmt.Errorf("expected int, got %s", kind(value))
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	}
	return fmt.Errorf("expected float, got %s", kind(value))
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %s", kind(value))
	}
	return nil
}

type anyType struct{}

func (anyType) Name() string { return "any" }

func (anyType) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("expected a value, got null")
	}
	return nil
}

type sliceType struct {
	elem Type
}

func (t sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected list, got %s", kind(value))
	}
	var errs []error
	for i := range rv.Len() {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			errs = append(errs, prefix(fmt.Sprintf("[%d]", i), err)...)
		}
	}
	return join(errs)
}

type objectType struct {
	fields Schema
}

func (t objectType) Name() string { return "object" }

func (t objectType) Validate(value any) error {
	return Validate(t.fields, value)
}

type optionalType struct {
	inner Type
}

func (t optionalType) Name() string { return t.inner.Name() + "?" }

func (t optionalType) Validate(value any) error {
	if value == nil {
		return nil
	}
	return t.inner.Validate(value)
}

type customType struct {
	name     string
	validate func(any) error
}

func (t customType) Name() string             { return t.name }
func (t customType) Validate(value any) error { return t.validate(value) }

func String() Type { return stringType{} }
func Int() Type    { return intType{} }
func Float() Type  { return floatType{} }
func Bool() Type   { return boolType{} }

// Any accepts every non-null value.
func Any() Type { return anyType{} }

// Slice accepts lists whose elements all match elem.
func Slice(elem Type) Type { return sliceType{elem: elem} }

// Object accepts objects matching a nested schema.
func Object(fields Schema) Type { return objectType{fields: fields} }

// Optional accepts a missing or null value, or one matching inner.
func Optional(inner Type) Type { return optionalType{inner: inner} }

// Custom wraps a validation function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}

// ParseType parses "string", "int", "float", "bool", "any", "[T]" and "T?".
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutSuffix(s, "?"); ok {
		t, err := ParseType(inner)
		if err != nil {
			return nil, err
		}
		return Optional(t), nil
	}
	if len(s) > 2 && s[0] == '[' && s[len(s)-1] == ']' {
		elem, err := ParseType(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	switch s {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "any":
		return Any(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// ParseTypeMap parses a field-to-type-string map into a Schema.
func ParseTypeMap(m map[string]string) (Schema, error) {
	out := make(Schema, len(m))
	for key, s := range m {
		t, err := ParseType(s)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = t
	}
	return out, nil
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	}
	return reflect.TypeOf(v).Kind().String()
}
