package domain

import "time"

// StepStatus is the lifecycle state of a StepExecution.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepFinalized StepStatus = "finalized"
	StepError     StepStatus = "error"
)

// StepKind distinguishes the reserved initial and finalize records from
// records of configured steps.
type StepKind string

const (
	KindInitial  StepKind = "initial"
	KindStep     StepKind = "step"
	KindFinalize StepKind = "finalize"
)

// Type hints for journal entries.
const (
	HintString     = "string"
	HintPlaintext  = "plaintext"
	HintStacktrace = "stacktrace"
)

// JournalEntry is a free-form diagnostic record attached to a step.
type JournalEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Entry       any    `json:"entry,omitempty"`
	TypeHint    string `json:"typeHint,omitempty"`
}

// Description documents the input or output of a step.
type Description struct {
	Description string `json:"description,omitempty"`
}

// StepMetadata holds the journal and the input/output descriptions of a step.
type StepMetadata struct {
	Input   Description    `json:"input"`
	Output  Description    `json:"output"`
	Journal []JournalEntry `json:"journal"`
}

// StepExecution records one step of an execution. Its state leaves pending
// exactly once and its journal only grows.
type StepExecution struct {
	Kind       StepKind           `json:"type"`
	Name       string             `json:"name"`
	State      StepStatus         `json:"state"`
	Input      any                `json:"input,omitempty"`
	Output     any                `json:"output,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt time.Time          `json:"finishedAt,omitzero"`
	Metadata   StepMetadata       `json:"metadata"`
	Forks      [][]*StepExecution `json:"forks,omitempty"`
}

// NewStepExecution starts a pending record for a configured step.
func NewStepExecution(name string, input any) *StepExecution {
	return &StepExecution{
		Kind:      KindStep,
		Name:      name,
		State:     StepPending,
		Input:     input,
		StartedAt: time.Now(),
	}
}

// Finish moves a pending step to finalized with the given output.
func (s *StepExecution) Finish(output any) error {
	if s.State != StepPending {
		return ErrStepSettled
	}
	s.State = StepFinalized
	s.Output = output
	s.FinishedAt = time.Now()
	return nil
}

// Fail moves a pending step to error.
func (s *StepExecution) Fail() error {
	if s.State != StepPending {
		return ErrStepSettled
	}
	s.State = StepError
	s.FinishedAt = time.Now()
	return nil
}

// Duration is the time between start and finish, or zero while running.
func (s *StepExecution) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *StepExecution) addJournalEntry(entry JournalEntry) {
	s.Metadata.Journal = append(s.Metadata.Journal, entry)
}
