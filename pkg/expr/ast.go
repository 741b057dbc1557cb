package expr

// Node is an element of a parsed expression.
type Node interface {
	node()
}

// Operator is a comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
)

// legend is the operator as it appears in comparison reports.
func (o Operator) legend() string {
	switch o {
	case OpEqual:
		return "==="
	case OpNotEqual:
		return "!=="
	default:
		return string(o)
	}
}

func isOperator(tok string) bool {
	switch Operator(tok) {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	}
	return false
}

// TypeHint forces a coercion on a binding reference.
type TypeHint string

const (
	HintNone    TypeHint = ""
	HintNumber  TypeHint = "number"
	HintBoolean TypeHint = "boolean"
	HintString  TypeHint = "string"
)

// Segment is one step of a property path. When Filter is set the segment
// selects the first element of a sequence matching the filter.
type Segment struct {
	Name   string
	Filter Node
}

// Path walks nested properties of the evaluated input.
type Path struct {
	Segments []Segment
}

// Comparison applies Operator to the evaluated Left and Right nodes.
type Comparison struct {
	Operator Operator
	Left     Node
	Right    Node
}

// Literal is a constant string or integer.
type Literal struct {
	Value any
}

// BindingRef resolves a dotted path in the binding map rather than the input.
type BindingRef struct {
	Segments []string
	Hint     TypeHint
}

func (*Path) node()       {}
func (*Comparison) node() {}
func (*Literal) node()    {}
func (*BindingRef) node() {}
