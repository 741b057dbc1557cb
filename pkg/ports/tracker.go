package ports

import (
	"context"

	"github.com/aretw0/hodr/pkg/domain"
)

// Tracker keeps a bounded, ordered record of executions for inspection.
// Once at capacity the oldest record is evicted first.
type Tracker interface {
	Name() string
	Record(ctx context.Context, exec *domain.ExecutionContext) error
	// Recorded returns the kept executions, oldest first.
	Recorded(ctx context.Context) ([]*domain.Execution, error)
}
