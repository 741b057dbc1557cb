package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventExecutionStart  EventType = "execution_start"
	EventExecutionFinish EventType = "execution_finish"
	EventStepStart       EventType = "step_start"
	EventStepFinish      EventType = "step_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	ExecutionID string    `json:"execution_id"`
	Origin      OriginID  `json:"origin"`
}

// StepEvent is fired around every configured step.
type StepEvent struct {
	EventBase
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
	Code     string        `json:"code,omitempty"`
}

// ExecutionEvent is fired when an origin starts and terminates an execution.
type ExecutionEvent struct {
	EventBase
	State    ContextStatus `json:"state"`
	Duration time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnExecutionStart  func(context.Context, *ExecutionEvent)
	OnExecutionFinish func(context.Context, *ExecutionEvent)
	OnStepStart       func(context.Context, *StepEvent)
	OnStepFinish      func(context.Context, *StepEvent)
}

// NewStepEvent builds a step event for exec.
func NewStepEvent(exec *ExecutionContext, typ EventType, step string) *StepEvent {
	return &StepEvent{
		EventBase: EventBase{Timestamp: time.Now(), Type: typ, ExecutionID: exec.ID(), Origin: exec.Origin()},
		Step:      step,
	}
}

// NewExecutionEvent builds an execution event for exec.
func NewExecutionEvent(exec *ExecutionContext, typ EventType) *ExecutionEvent {
	ev := &ExecutionEvent{
		EventBase: EventBase{Timestamp: time.Now(), Type: typ, ExecutionID: exec.ID(), Origin: exec.Origin()},
		State:     exec.State(),
	}
	if !exec.finishedAt.IsZero() {
		ev.Duration = exec.finishedAt.Sub(exec.startedAt)
	}
	return ev
}

// FireExecutionStart invokes OnExecutionStart if set.
func (h LifecycleHooks) FireExecutionStart(ctx context.Context, exec *ExecutionContext) {
	if h.OnExecutionStart != nil {
		h.OnExecutionStart(ctx, NewExecutionEvent(exec, EventExecutionStart))
	}
}

// FireExecutionFinish invokes OnExecutionFinish if set.
func (h LifecycleHooks) FireExecutionFinish(ctx context.Context, exec *ExecutionContext) {
	if h.OnExecutionFinish != nil {
		h.OnExecutionFinish(ctx, NewExecutionEvent(exec, EventExecutionFinish))
	}
}
