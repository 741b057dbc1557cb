package expr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation describes a comparison performed during evaluation.
type Operation struct {
	Type   string `json:"type"`
	Desc   string `json:"desc"`
	Result any    `json:"result"`
}

// Reporter receives every operation performed by an Evaluator. It is purely
// diagnostic and never changes the outcome of an evaluation.
type Reporter func(Operation)

// Evaluator is a compiled expression. It is safe for concurrent use.
type Evaluator func(input any, bindings map[string]any, report Reporter) any

// Compile turns a syntax tree into an Evaluator.
func Compile(node Node) (Evaluator, error) {
	switch n := node.(type) {
	case *Literal:
		v := n.Value
		return func(any, map[string]any, Reporter) any { return v }, nil

	case *BindingRef:
		return func(_ any, bindings map[string]any, _ Reporter) any {
			var v any = bindings
			for _, seg := range n.Segments {
				if v == nil {
					return coerce(nil, n.Hint)
				}
				v, _ = Property(v, seg)
			}
			return coerce(v, n.Hint)
		}, nil

	case *Path:
		segments := make([]Evaluator, 0, len(n.Segments))
		for _, seg := range n.Segments {
			fn, err := compileSegment(seg)
			if err != nil {
				return nil, err
			}
			segments = append(segments, fn)
		}
		return func(input any, bindings map[string]any, report Reporter) any {
			v := input
			for _, fn := range segments {
				v = fn(v, bindings, report)
				if v == nil {
					return nil
				}
			}
			return v
		}, nil

	case *Comparison:
		left, err := Compile(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Compile(n.Right)
		if err != nil {
			return nil, err
		}
		return func(input any, bindings map[string]any, report Reporter) any {
			l := left(input, bindings, nil)
			r := right(input, bindings, nil)
			result := compare(l, r, n.Operator)
			if report != nil {
				report(Operation{
					Type:   "compare",
					Desc:   strings.Join([]string{describe(l), n.Operator.legend(), describe(r)}, " "),
					Result: result,
				})
			}
			return result
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown node %T", ErrInvalidExpression, node)
}

func compileSegment(seg Segment) (Evaluator, error) {
	if seg.Filter == nil {
		name := seg.Name
		return func(input any, _ map[string]any, _ Reporter) any {
			v, _ := Property(input, name)
			return v
		}, nil
	}

	filter, err := Compile(seg.Filter)
	if err != nil {
		return nil, err
	}
	return func(input any, bindings map[string]any, report Reporter) any {
		list, _ := Property(input, seg.Name)
		items, ok := elements(list)
		if !ok {
			return nil
		}
		for _, item := range items {
			if Truthy(filter(item, bindings, report)) {
				return item
			}
		}
		return nil
	}, nil
}

// ParseAndCompile parses and compiles an expression in one go.
func ParseAndCompile(expression string) (Evaluator, error) {
	node, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return Compile(node)
}

// MustCompile is like ParseAndCompile but panics if the expression is invalid.
// It is meant for expressions fixed at configuration time.
func MustCompile(expression string) Evaluator {
	eval, err := ParseAndCompile(expression)
	if err != nil {
		panic(err)
	}
	return eval
}

func describe(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
