// Package tracker keeps finished executions for the inspector.
package tracker

import (
	"context"
	"sync"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
)

// DefaultLimit is the number of executions a tracker keeps unless told otherwise.
const DefaultLimit = 100

// Memory is a bounded in-memory tracker. Once full, recording evicts the
// oldest execution. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	limit   int
	records []*domain.Execution
}

var _ ports.Tracker = (*Memory)(nil)

// Option configures a Memory tracker.
type Option func(*Memory)

// WithLimit sets the capacity. Non-positive values keep the default.
func WithLimit(limit int) Option {
	return func(m *Memory) {
		if limit > 0 {
			m.limit = limit
		}
	}
}

// NewMemory creates an empty tracker.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{limit: DefaultLimit}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Name() string { return "memory-tracker" }

// Record keeps a snapshot of exec.
func (m *Memory) Record(_ context.Context, exec *domain.ExecutionContext) error {
	snap := exec.Snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) >= m.limit {
		m.records = append(m.records[:0], m.records[len(m.records)-m.limit+1:]...)
	}
	m.records = append(m.records, snap)
	return nil
}

// Recorded returns the kept executions, oldest first.
func (m *Memory) Recorded(context.Context) ([]*domain.Execution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Execution, len(m.records))
	copy(out, m.records)
	return out, nil
}
