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

func TestMemory_Contract(t *testing.T) {
	ports.RunTrackerContract(t, func(_ *testing.T, limit int) ports.Tracker {
		return tracker.NewMemory(tracker.WithLimit(limit))
	})
}

func TestMemory_DefaultLimit(t *testing.T) {
	m := tracker.NewMemory(tracker.WithLimit(0))
	ctx := context.Background()
	for range tracker.DefaultLimit + 5 {
		exec := domain.NewExecution(domain.OriginID{Name: "o"}, nil, nil, domain.NewAtoms(nil), nil)
		require.NoError(t, m.Record(ctx, exec))
	}

	recorded, err := m.Recorded(ctx)
	require.NoError(t, err)
	assert.Len(t, recorded, tracker.DefaultLimit)
}
