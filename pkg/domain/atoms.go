package domain

import "maps"

// Atoms is an immutable set of named bindings available to expressions during
// one execution. Forked contexts share the same Atoms value.
type Atoms struct {
	values map[string]any
}

// NewAtoms snapshots values. Later changes to the map are not observed.
func NewAtoms(values map[string]any) Atoms {
	return Atoms{values: maps.Clone(values)}
}

// Get returns the binding called name.
func (a Atoms) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Len is the number of bindings.
func (a Atoms) Len() int { return len(a.values) }

// Map returns a copy of the bindings.
func (a Atoms) Map() map[string]any {
	out := maps.Clone(a.values)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// Binder is implemented by payloads that expose named bindings of their own.
type Binder interface {
	Bindings() map[string]any
}

// Merge returns base overlaid with the atoms. Map and Binder payloads
// contribute their keys; any other base contributes nothing. The result is
// the binding map used when evaluating expressions against a payload.
func (a Atoms) Merge(base any) map[string]any {
	out := make(map[string]any)
	switch b := base.(type) {
	case map[string]any:
		maps.Copy(out, b)
	case Binder:
		maps.Copy(out, b.Bindings())
	}
	maps.Copy(out, a.values)
	return out
}
