package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hodr/pkg/domain"
)

// LoggingHooks logs execution boundaries at info and steps at debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecutionStart: func(ctx context.Context, e *domain.ExecutionEvent) {
			logger.InfoContext(ctx, "execution started",
				"execution_id", e.ExecutionID, "origin", e.Origin.Name, "input", e.Origin.Input)
		},
		OnExecutionFinish: func(ctx context.Context, e *domain.ExecutionEvent) {
			level := slog.LevelInfo
			if e.State == domain.StatusError {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "execution finished",
				"execution_id", e.ExecutionID, "origin", e.Origin.Name, "input", e.Origin.Input,
				"state", e.State, "duration", e.Duration)
		},
		OnStepFinish: func(ctx context.Context, e *domain.StepEvent) {
			attrs := []any{"execution_id", e.ExecutionID, "step", e.Step, "duration", e.Duration}
			if e.IsError {
				attrs = append(attrs, "code", e.Code)
			}
			logger.DebugContext(ctx, "step finished", attrs...)
		},
	}
}

// Combine chains hooks; each callback fires in argument order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnExecutionStart = chain(out.OnExecutionStart, h.OnExecutionStart)
		out.OnExecutionFinish = chain(out.OnExecutionFinish, h.OnExecutionFinish)
		out.OnStepStart = chain(out.OnStepStart, h.OnStepStart)
		out.OnStepFinish = chain(out.OnStepFinish, h.OnStepFinish)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
