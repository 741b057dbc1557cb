// Package expr implements the path and predicate expression language used by
// extract, expect and validation steps.
//
// An expression is either a property path or a comparison whose left side is
// a property path:
//
//	body.comments
//	comments.length>0
//	comments[id=commentId]
//	comments[id=#commentId]
//
// Paths walk maps, structs (by json tag or field name) and sequences. A
// bracketed filter on a segment selects the first element of that sequence for
// which the inner expression is truthy. The right side of a comparison is a
// literal (quoted string or digits) or a reference into the binding map,
// optionally prefixed with a type hint: '#' number, '!' boolean, '$' string.
//
// Expressions are parsed once and compiled into an Evaluator, a pure function
// of its input and bindings:
//
//	eval := expr.MustCompile("comments[id=#commentId]")
//	comment := eval(payload, map[string]any{"commentId": "655"}, nil)
package expr
