package ports

import (
	"context"
	"log/slog"

	"github.com/aretw0/hodr/pkg/domain"
)

// Registry is the application handle lanes and steps hold. It owns the
// destinations, validators and trackers; configuration happens before traffic
// so lookups need no further coordination.
type Registry interface {
	Destination(name string) (Destination, bool)
	Validators() []Validator
	// Record hands a finished execution to every tracker.
	Record(ctx context.Context, exec *domain.ExecutionContext)
	Logger() *slog.Logger
	Hooks() domain.LifecycleHooks
}
