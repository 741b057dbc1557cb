package expr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidExpression is returned for expressions that do not follow the grammar.
var ErrInvalidExpression = errors.New("invalid expression")

var (
	identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	digitPattern = regexp.MustCompile(`^[0-9]+$`)
)

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

// Parse turns an expression into its syntax tree.
func Parse(expression string) (Node, error) {
	p := &parser{tokens: Tokenize(expression)}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression %q", ErrInvalidExpression, expression)
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected token %q in %q", ErrInvalidExpression, p.peek(), expression)
	}
	return node, nil
}

func (p *parser) parseExpression() (Node, error) {
	left, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	if !isOperator(p.peek()) {
		return left, nil
	}
	op := Operator(p.next())

	right, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Comparison{Operator: op, Left: left, Right: right}, nil
}

func (p *parser) parsePath() (*Path, error) {
	path := &Path{}
	for {
		ident := p.next()
		if !identPattern.MatchString(ident) {
			return nil, fmt.Errorf("%w: invalid identifier %q", ErrInvalidExpression, ident)
		}

		seg := Segment{Name: ident}
		if p.peek() == "[" {
			p.next()
			filter, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if tok := p.next(); tok != "]" {
				return nil, fmt.Errorf("%w: expected ] but found %q", ErrInvalidExpression, tok)
			}
			seg.Filter = filter
		}
		path.Segments = append(path.Segments, seg)

		if p.peek() != "." {
			return path, nil
		}
		p.next()
	}
}

func (p *parser) parseValue() (Node, error) {
	tok := p.next()
	switch {
	case tok == "":
		return nil, fmt.Errorf("%w: missing value after comparator", ErrInvalidExpression)
	case digitPattern.MatchString(tok):
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
		}
		return &Literal{Value: n}, nil
	case strings.HasPrefix(tok, `"`):
		s, err := strconv.Unquote(tok)
		if err != nil {
			s = tok[1 : len(tok)-1]
		}
		return &Literal{Value: s}, nil
	case identPattern.MatchString(strings.TrimLeft(tok, "#!$")):
		return p.parseBindingRef(tok)
	}
	return nil, fmt.Errorf("%w: unexpected value %q", ErrInvalidExpression, tok)
}

func (p *parser) parseBindingRef(base string) (Node, error) {
	ref := &BindingRef{}
	switch base[0] {
	case '#':
		ref.Hint, base = HintNumber, base[1:]
	case '!':
		ref.Hint, base = HintBoolean, base[1:]
	case '$':
		ref.Hint, base = HintString, base[1:]
	}

	ref.Segments = []string{base}
	for p.peek() == "." {
		p.next()
		seg := p.next()
		if !identPattern.MatchString(seg) {
			return nil, fmt.Errorf("%w: invalid identifier %q", ErrInvalidExpression, seg)
		}
		ref.Segments = append(ref.Segments, seg)
	}
	return ref, nil
}
