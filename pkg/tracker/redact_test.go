package tracker_test

import (
	"context"
	"testing"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_Contract(t *testing.T) {
	ports.RunTrackerContract(t, func(t *testing.T, limit int) ports.Tracker {
		r, err := tracker.Redact(tracker.NewMemory(tracker.WithLimit(limit)), "secret")
		require.NoError(t, err)
		return r
	})
}

func TestRedact_MasksMatchingKeys(t *testing.T) {
	ctx := context.Background()
	mem := tracker.NewMemory()
	r, err := tracker.Redact(mem, "(?i)password|token|key")
	require.NoError(t, err)

	payload := map[string]any{
		"password": "hunter2",
		"user":     map[string]any{"name": "ana", "token": "t-1"},
	}
	atoms := domain.NewAtoms(map[string]any{"apiKey": "k-1", "id": 7})
	exec := domain.NewExecution(domain.OriginID{Name: "auth"}, payload, nil, atoms, nil)
	require.NoError(t, r.Record(ctx, exec))

	got, err := r.Recorded(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{
		"password": tracker.Mask,
		"user":     map[string]any{"name": "ana", "token": tracker.Mask},
	}, got[0].Payload)
	assert.Equal(t, map[string]any{"apiKey": tracker.Mask, "id": 7}, got[0].Atoms)
	assert.Equal(t, "memory-tracker", r.Name())

	raw, err := mem.Recorded(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", raw[0].Payload.(map[string]any)["password"])
}

func TestRedact_InvalidPattern(t *testing.T) {
	_, err := tracker.Redact(tracker.NewMemory(), "(")
	assert.Error(t, err)
}
