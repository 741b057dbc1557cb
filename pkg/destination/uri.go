package destination

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aretw0/hodr/pkg/expr"
)

var templateParam = regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandTemplate substitutes every ":name" segment of template with the
// path-escaped value of params[name]. Unbound names are an error.
func ExpandTemplate(template string, params map[string]any) (string, error) {
	var missing []string
	out := templateParam.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1:]
		v, ok := params[name]
		if !ok || v == nil {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(expr.ToString(v))
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s in %q", ErrMissingPathParam, strings.Join(missing, ", "), template)
	}
	return out, nil
}

// JoinURI joins URI parts with single slashes, skipping empty parts.
func JoinURI(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(kept) == 0 {
			kept = append(kept, strings.TrimRight(p, "/"))
		} else {
			kept = append(kept, strings.TrimLeft(p, "/"))
		}
	}
	return strings.Join(kept, "/")
}
