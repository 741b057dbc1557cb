package expr

import "regexp"

var tokenPattern = regexp.MustCompile(`[#!$]?[a-zA-Z_][a-zA-Z0-9_]*|[><=!]=?|"(?:[^"\\]|\\.)*"|\d+|\[|\]|\.`)

// Tokenize splits an expression into identifiers (optionally type-prefixed),
// comparators, quoted strings, digit runs and the punctuation '[', ']' and '.'.
// Characters that match none of these, such as whitespace, are skipped.
func Tokenize(expression string) []string {
	return tokenPattern.FindAllString(expression, -1)
}
