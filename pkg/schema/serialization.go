package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON renders the schema as field-to-type-string pairs. Object
// fields render as nested maps; custom types by name.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.spec())
}

func (s Schema) spec() map[string]any {
	out := make(map[string]any, len(s))
	for key, t := range s {
		if o, ok := t.(objectType); ok {
			out[key] = o.fields.spec()
			continue
		}
		out[key] = t.Name()
	}
	return out
}

// UnmarshalJSON parses field-to-type-string pairs; nested maps become objects.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromSpec(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML parses the same shape as UnmarshalJSON.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromSpec(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FromSpec builds a schema from decoded configuration: string values are
// type strings and map values are nested object schemas.
func FromSpec(spec map[string]any) (Schema, error) {
	out := make(Schema, len(spec))
	for key, v := range spec {
		switch t := v.(type) {
		case string:
			typ, err := ParseType(t)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			out[key] = typ
		case map[string]any:
			nested, err := FromSpec(t)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			out[key] = Object(nested)
		default:
			return nil, fmt.Errorf("field %s: expected type string or object, got %T", key, v)
		}
	}
	return out, nil
}
