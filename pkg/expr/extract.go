package expr

import (
	"fmt"
	"strings"
)

// Extraction is a compiled extract directive: either a single expression or a
// named map of expressions.
type Extraction struct {
	single Evaluator
	named  map[string]Evaluator
}

// NewExtraction compiles a single-expression directive. Its result is the
// value of the expression itself, not a wrapping map.
func NewExtraction(expression string) (*Extraction, error) {
	eval, err := ParseAndCompile(expression)
	if err != nil {
		return nil, err
	}
	return &Extraction{single: eval}, nil
}

// NewExtractionMap compiles a named map of expressions. Its result is a map
// with the same keys holding each expression's value.
func NewExtractionMap(directive map[string]string) (*Extraction, error) {
	named := make(map[string]Evaluator, len(directive))
	for key, expression := range directive {
		eval, err := ParseAndCompile(expression)
		if err != nil {
			return nil, fmt.Errorf("extract %q: %w", key, err)
		}
		named[key] = eval
	}
	return &Extraction{named: named}, nil
}

// Extract evaluates the directive against input.
func (e *Extraction) Extract(input any, bindings map[string]any, report Reporter) any {
	if e.named == nil {
		return e.single(input, bindings, report)
	}
	result := make(map[string]any, len(e.named))
	for key, eval := range e.named {
		result[key] = eval(input, bindings, report)
	}
	return result
}

// ExtractPath walks a plain dotted property path without any expression
// syntax. An empty path or nil input yields the input unchanged.
func ExtractPath(input any, path string) any {
	if input == nil || path == "" {
		return input
	}
	v := input
	for _, key := range strings.Split(path, ".") {
		next, ok := Property(v, key)
		if !ok {
			return nil
		}
		v = next
	}
	return v
}
