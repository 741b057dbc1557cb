package status

import "fmt"

// Pattern matches HTTP status codes.
type Pattern interface {
	Matches(httpStatus int) bool
}

// Exact matches a single status code.
type Exact int

// Matches implements Pattern.
func (e Exact) Matches(httpStatus int) bool { return int(e) == httpStatus }

func (e Exact) String() string { return fmt.Sprintf("%d", int(e)) }

// Range matches status codes between From and To, inclusive.
type Range struct {
	From int
	To   int
}

// Matches implements Pattern.
func (r Range) Matches(httpStatus int) bool {
	return httpStatus >= r.From && httpStatus <= r.To
}

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.From, r.To) }

// Clause rewrites statuses matching Pattern to Replacement.
type Clause struct {
	Pattern     Pattern
	Replacement int
}

// CondMap is an ordered list of remapping clauses.
type CondMap []Clause

// When is shorthand for building a Clause.
func When(p Pattern, replacement int) Clause {
	return Clause{Pattern: p, Replacement: replacement}
}

// MapStatusCode rewrites httpStatus according to m. An exact clause always
// beats a range clause regardless of order; among ranges the first match wins.
// Statuses matching no clause are returned unchanged.
func MapStatusCode(httpStatus int, m CondMap) int {
	for _, c := range m {
		if e, ok := c.Pattern.(Exact); ok && e.Matches(httpStatus) {
			return c.Replacement
		}
	}
	for _, c := range m {
		if _, ok := c.Pattern.(Exact); ok {
			continue
		}
		if c.Pattern.Matches(httpStatus) {
			return c.Replacement
		}
	}
	return httpStatus
}
