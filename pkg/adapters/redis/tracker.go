// Package redis provides a Redis-backed execution tracker, so several hodr
// instances can share one inspector history.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultLimit is the number of executions kept unless told otherwise.
const DefaultLimit = 100

// Tracker implements ports.Tracker on a capped Redis list of JSON snapshots.
type Tracker struct {
	client *backend.Client
	key    string
	limit  int
}

var _ ports.Tracker = (*Tracker)(nil)

type Option func(*Tracker)

// WithKey sets the list key.
func WithKey(key string) Option {
	return func(t *Tracker) {
		t.key = key
	}
}

// WithLimit sets the capacity. Non-positive values keep the default.
func WithLimit(limit int) Option {
	return func(t *Tracker) {
		if limit > 0 {
			t.limit = limit
		}
	}
}

// New creates a tracker with its own client.
func New(address, password string, db int, opts ...Option) *Tracker {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a tracker from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Tracker {
	t := &Tracker{
		client: client,
		key:    "hodr:executions",
		limit:  DefaultLimit,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Name() string { return "redis-tracker" }

// Record appends a snapshot of exec and trims the list to the limit.
func (t *Tracker) Record(ctx context.Context, exec *domain.ExecutionContext) error {
	data, err := json.Marshal(exec.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", exec.ID(), err)
	}

	pipe := t.client.TxPipeline()
	pipe.RPush(ctx, t.key, data)
	pipe.LTrim(ctx, t.key, int64(-t.limit), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record execution %s: %w", exec.ID(), err)
	}
	return nil
}

// Recorded returns the kept executions, oldest first.
func (t *Tracker) Recorded(ctx context.Context) ([]*domain.Execution, error) {
	items, err := t.client.LRange(ctx, t.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read executions: %w", err)
	}

	out := make([]*domain.Execution, 0, len(items))
	for _, item := range items {
		var exec domain.Execution
		if err := json.Unmarshal([]byte(item), &exec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution: %w", err)
		}
		out = append(out, &exec)
	}
	return out, nil
}

// Close closes the underlying client.
func (t *Tracker) Close() error {
	return t.client.Close()
}
