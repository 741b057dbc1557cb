package domain

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// ContextStatus is the lifecycle state of an ExecutionContext.
type ContextStatus string

const (
	StatusRunning   ContextStatus = "running"
	StatusFinalized ContextStatus = "finalized"
	StatusError     ContextStatus = "error"
)

// Metadata keys understood by the engine and its adapters.
const (
	MetaCanonicalStatus = "canonicalStatus"
	MetaPayloadTypeHint = "payloadTypeHint"
)

// PayloadStaticContent marks a payload that names a file to be served as is.
const PayloadStaticContent = "static-content"

// OriginID identifies what triggered an execution.
type OriginID struct {
	Name    string `json:"name"`
	Input   string `json:"input"`
	Variant string `json:"variant"`
}

// CanonicalStatus is the status an execution has resolved to, and which step
// inferred it.
type CanonicalStatus struct {
	Code         string `json:"code"`
	HTTPStatus   int    `json:"httpStatus,omitempty"`
	InferredFrom string `json:"inferredFrom,omitempty"`
	InferredBy   string `json:"inferredBy,omitempty"`
}

// FinalizeParams describes the finalize step to begin.
type FinalizeParams struct {
	Name     string
	Status   StepStatus
	Input    any
	Metadata StepMetadata
}

// ExecutionContext is the state of one unit of work. It is owned by a single
// goroutine at a time; parallel branches work on forks.
type ExecutionContext struct {
	id           string
	origin       OriginID
	state        ContextStatus
	payload      any
	atoms        Atoms
	metadata     map[string]any
	inputTopic   string
	steps        []*StepExecution
	initialStep  *StepExecution
	finalizeStep *StepExecution
	currentStep  *StepExecution
	startedAt    time.Time
	finishedAt   time.Time
}

// NewExecution creates a running context whose current step is initial.
func NewExecution(origin OriginID, payload any, initial *StepExecution, atoms Atoms, metadata map[string]any) *ExecutionContext {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	if initial == nil {
		initial = &StepExecution{Kind: KindInitial, State: StepPending, StartedAt: time.Now()}
	}
	initial.Kind = KindInitial
	return &ExecutionContext{
		id:          uuid.NewString(),
		origin:      origin,
		state:       StatusRunning,
		payload:     payload,
		atoms:       atoms,
		metadata:    metadata,
		initialStep: initial,
		currentStep: initial,
		startedAt:   time.Now(),
	}
}

func (c *ExecutionContext) ID() string                   { return c.id }
func (c *ExecutionContext) Origin() OriginID             { return c.origin }
func (c *ExecutionContext) State() ContextStatus         { return c.state }
func (c *ExecutionContext) Payload() any                 { return c.payload }
func (c *ExecutionContext) Atoms() Atoms                 { return c.atoms }
func (c *ExecutionContext) InitialStep() *StepExecution  { return c.initialStep }
func (c *ExecutionContext) FinalizeStep() *StepExecution { return c.finalizeStep }

// CurrentStep is the step receiving journal entries, or nil once terminated.
func (c *ExecutionContext) CurrentStep() *StepExecution { return c.currentStep }

// Steps returns the journal of configured steps in execution order.
func (c *ExecutionContext) Steps() []*StepExecution {
	out := make([]*StepExecution, len(c.steps))
	copy(out, c.steps)
	return out
}

// SetPayload replaces the payload.
func (c *ExecutionContext) SetPayload(payload any) { c.payload = payload }

// InputTopic is the transport-level subject of the execution, such as a URI.
func (c *ExecutionContext) InputTopic() string { return c.inputTopic }

// SetInputTopic records the transport-level subject of the execution.
func (c *ExecutionContext) SetInputTopic(topic string) { c.inputTopic = topic }

// Meta returns a metadata value.
func (c *ExecutionContext) Meta(key string) (any, bool) {
	v, ok := c.metadata[key]
	return v, ok
}

// SetMeta stores a metadata value.
func (c *ExecutionContext) SetMeta(key string, value any) { c.metadata[key] = value }

// Metadata returns a copy of the metadata map.
func (c *ExecutionContext) Metadata() map[string]any { return maps.Clone(c.metadata) }

// CanonicalStatus returns the status recorded by SetCanonicalStatus.
func (c *ExecutionContext) CanonicalStatus() (CanonicalStatus, bool) {
	cs, ok := c.metadata[MetaCanonicalStatus].(CanonicalStatus)
	return cs, ok
}

// SetCanonicalStatus records the status the execution resolved to.
func (c *ExecutionContext) SetCanonicalStatus(cs CanonicalStatus) {
	c.metadata[MetaCanonicalStatus] = cs
}

// AddJournalEntry appends entry to the journal of the current step.
func (c *ExecutionContext) AddJournalEntry(entry JournalEntry) *ExecutionContext {
	if c.currentStep != nil {
		c.currentStep.addJournalEntry(entry)
	}
	return c
}

// BeginStep appends a pending record for a configured step and makes it current.
func (c *ExecutionContext) BeginStep(name string) *StepExecution {
	step := NewStepExecution(name, c.payload)
	c.steps = append(c.steps, step)
	c.currentStep = step
	return step
}

// BeginFinalizationStep creates the finalize record and makes it current.
// An empty status means pending.
func (c *ExecutionContext) BeginFinalizationStep(p FinalizeParams) *StepExecution {
	state := p.Status
	if state == "" {
		state = StepPending
	}
	c.finalizeStep = &StepExecution{
		Kind:      KindFinalize,
		Name:      p.Name,
		State:     state,
		Input:     p.Input,
		StartedAt: time.Now(),
		Metadata: StepMetadata{
			Input:   p.Metadata.Input,
			Output:  p.Metadata.Output,
			Journal: append([]JournalEntry(nil), p.Metadata.Journal...),
		},
	}
	c.currentStep = c.finalizeStep
	return c.finalizeStep
}

// Terminate is the only transition out of running. A pending finalize step
// becomes finalized and its state becomes the state of the context.
func (c *ExecutionContext) Terminate() error {
	if c.state != StatusRunning {
		return ErrTerminated
	}
	if c.finalizeStep == nil {
		return ErrNoFinalizeStep
	}
	if c.finalizeStep.State == StepPending {
		c.finalizeStep.State = StepFinalized
	}
	if c.finalizeStep.State == StepError {
		c.state = StatusError
	} else {
		c.state = StatusFinalized
	}
	c.finalizeStep.FinishedAt = time.Now()
	c.finishedAt = c.finalizeStep.FinishedAt
	c.currentStep = nil
	return nil
}

// Fork creates an independent context for a parallel branch. The fork shares
// the origin and atoms, starts from a snapshot of the payload and metadata,
// and owns an empty step history.
func (c *ExecutionContext) Fork() *ExecutionContext {
	now := time.Now()
	initial := &StepExecution{
		Kind:       KindInitial,
		Name:       "fork",
		State:      StepFinalized,
		Input:      c.payload,
		Output:     c.payload,
		StartedAt:  now,
		FinishedAt: now,
	}
	return &ExecutionContext{
		id:          uuid.NewString(),
		origin:      c.origin,
		state:       StatusRunning,
		payload:     c.payload,
		atoms:       c.atoms,
		metadata:    maps.Clone(c.metadata),
		inputTopic:  c.inputTopic,
		initialStep: initial,
		currentStep: initial,
		startedAt:   now,
	}
}
