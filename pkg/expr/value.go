package expr

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

const lengthProperty = "length"

// Property returns the member called name of v. Maps are indexed by key,
// structs by json tag or field name, and sequences and strings expose their
// length as "length". The boolean reports whether the member exists.
func Property(v any, name string) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		x, ok := t[name]
		return x, ok
	case map[string]string:
		x, ok := t[name]
		if !ok {
			return nil, false
		}
		return x, true
	case string:
		if name == lengthProperty {
			return len(t), true
		}
		return nil, false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return unwrap(mv), true
	case reflect.Slice, reflect.Array:
		if name == lengthProperty {
			return rv.Len(), true
		}
	case reflect.Struct:
		return structField(rv, name)
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name || (tag == "" && f.Name == name) {
			return unwrap(rv.Field(i)), true
		}
	}
	return nil, false
}

// unwrap converts a reflected value to any, mapping nil references to nil.
func unwrap(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

func elements(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = unwrap(rv.Index(i))
	}
	return items, true
}

// Truthy reports whether v counts as true in a filter or predicate position.
// nil, false, zero, NaN and the empty string are false; everything else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func coerce(v any, hint TypeHint) any {
	switch hint {
	case HintNumber:
		return ToNumber(v)
	case HintString:
		return ToString(v)
	case HintBoolean:
		if s, ok := v.(string); ok && s == "false" {
			return false
		}
		return Truthy(v)
	}
	return v
}

// ToNumber converts v to a float64 the way a loosely typed language would:
// numeric strings parse, booleans become 0 or 1, nil is 0 and anything else
// is NaN.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return math.NaN()
}

// ToString renders scalars without decoration. nil becomes the empty string.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return describe(v)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}

// compare applies op with strict equality semantics: values of different
// kinds are never equal. Ordering falls back to numeric conversion when the
// operands are not both strings.
func compare(l, r any, op Operator) bool {
	switch op {
	case OpEqual:
		return strictEqual(l, r)
	case OpNotEqual:
		return !strictEqual(l, r)
	}

	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			switch op {
			case OpGreater:
				return ls > rs
			case OpGreaterEqual:
				return ls >= rs
			case OpLess:
				return ls < rs
			case OpLessEqual:
				return ls <= rs
			}
		}
	}

	lf, rf := ToNumber(l), ToNumber(r)
	if math.IsNaN(lf) || math.IsNaN(rf) {
		return false
	}
	switch op {
	case OpGreater:
		return lf > rf
	case OpGreaterEqual:
		return lf >= rf
	case OpLess:
		return lf < rf
	case OpLessEqual:
		return lf <= rf
	}
	return false
}

func strictEqual(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	if lf, ok := toFloat(l); ok {
		rf, ok := toFloat(r)
		return ok && lf == rf
	}
	switch lt := l.(type) {
	case string:
		rs, ok := r.(string)
		return ok && lt == rs
	case bool:
		rb, ok := r.(bool)
		return ok && lt == rb
	}
	return false
}
