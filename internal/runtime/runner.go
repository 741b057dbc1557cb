// Package runtime executes lanes: it runs configured steps in order against an
// execution context, keeps the step journal and normalizes failures.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
)

// Runner executes step lists.
type Runner struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks registers step hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs steps in order. Each step gets a journal record whose input is
// the current payload; on success its result becomes the payload. The first
// failure marks its record as error, journals a diagnostic entry on it and
// aborts the lane. The returned error is always a *domain.HodrError.
func (r *Runner) Execute(ctx context.Context, exec *domain.ExecutionContext, steps []ports.Step) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return domain.NewError("execution cancelled before step "+step.Name(), domain.WithCause(err))
		}

		rec := exec.BeginStep(step.Name())
		r.fireStart(ctx, exec, step.Name())
		r.logger.Debug("step started", "step", step.Name(), "execution_id", exec.ID())

		out, err := invoke(ctx, step, exec)
		if err == nil {
			_ = rec.Finish(out)
			exec.SetPayload(out)
			r.fireFinish(ctx, exec, rec, nil)
			r.logger.Debug("step finished", "step", step.Name(), "execution_id", exec.ID(), "duration", rec.Duration())
			continue
		}

		_ = rec.Fail()
		exec.AddJournalEntry(diagnostic(err))

		herr := normalize(err)
		r.fireFinish(ctx, exec, rec, herr)
		r.logger.Warn("step failed",
			"step", step.Name(),
			"execution_id", exec.ID(),
			"origin", exec.Origin().Name,
			"code", herr.Code,
			"error", err,
		)
		return herr
	}
	return nil
}

func (r *Runner) fireStart(ctx context.Context, exec *domain.ExecutionContext, name string) {
	if r.hooks.OnStepStart != nil {
		r.hooks.OnStepStart(ctx, domain.NewStepEvent(exec, domain.EventStepStart, name))
	}
}

func (r *Runner) fireFinish(ctx context.Context, exec *domain.ExecutionContext, rec *domain.StepExecution, herr *domain.HodrError) {
	if r.hooks.OnStepFinish == nil {
		return
	}
	ev := domain.NewStepEvent(exec, domain.EventStepFinish, rec.Name)
	ev.Duration = rec.Duration()
	if herr != nil {
		ev.IsError = true
		ev.Code = herr.Code
	}
	r.hooks.OnStepFinish(ctx, ev)
}

// panicError carries a value recovered from a panicking step.
type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func invoke(ctx context.Context, step ports.Step, exec *domain.ExecutionContext) (out any, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &panicError{value: v, stack: debug.Stack()}
		}
	}()
	return step.Execute(ctx, exec)
}

func normalize(err error) *domain.HodrError {
	var pe *panicError
	if errors.As(err, &pe) {
		return domain.FromThrown(pe.value)
	}
	return domain.FromThrown(err)
}

func diagnostic(err error) domain.JournalEntry {
	entry := domain.JournalEntry{ID: "error", Title: "Error"}

	var pe *panicError
	if errors.As(err, &pe) {
		entry.Description = describeType(pe.value)
		entry.Entry = fmt.Sprintf("%v\n\n%s", pe.value, pe.stack)
		entry.TypeHint = domain.HintStacktrace
		return entry
	}

	entry.Description = describeType(err)
	entry.Entry = err.Error()
	entry.TypeHint = domain.HintString
	return entry
}

func describeType(v any) string {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
