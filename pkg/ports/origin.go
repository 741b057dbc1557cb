package ports

// Input is one entry point of an origin: a function of a module or a route
// of a router.
type Input interface {
	Name() string
	Type() string
	Variant() string
}

// Origin groups inputs that trigger executions.
type Origin interface {
	Name() string
	Type() string
	Inputs() []Input
}
