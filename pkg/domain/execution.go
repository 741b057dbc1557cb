package domain

import "time"

// Execution is a point-in-time copy of an ExecutionContext, as kept by trackers.
type Execution struct {
	ID           string           `json:"id"`
	Origin       OriginID         `json:"origin"`
	State        ContextStatus    `json:"state"`
	InputTopic   string           `json:"inputTopic,omitempty"`
	Payload      any              `json:"payload,omitempty"`
	Atoms        map[string]any   `json:"atoms,omitempty"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
	InitialStep  *StepExecution   `json:"initialStep"`
	Steps        []*StepExecution `json:"steps"`
	FinalizeStep *StepExecution   `json:"finalizeStep,omitempty"`
	StartedAt    time.Time        `json:"startedAt"`
	FinishedAt   time.Time        `json:"finishedAt,omitzero"`
}

// Snapshot copies the context for inspection.
func (c *ExecutionContext) Snapshot() *Execution {
	return &Execution{
		ID:           c.id,
		Origin:       c.origin,
		State:        c.state,
		InputTopic:   c.inputTopic,
		Payload:      c.payload,
		Atoms:        c.atoms.Map(),
		Metadata:     c.Metadata(),
		InitialStep:  c.initialStep,
		Steps:        c.Steps(),
		FinalizeStep: c.finalizeStep,
		StartedAt:    c.startedAt,
		FinishedAt:   c.finishedAt,
	}
}
