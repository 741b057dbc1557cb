package ports

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTrackerContract runs a suite of tests to verify that a Tracker implementation
// adheres to the defined interface contract. newTracker must return an empty
// tracker holding at most limit executions.
func RunTrackerContract(t *testing.T, newTracker func(t *testing.T, limit int) Tracker) {
	ctx := context.Background()

	t.Run("Record and Read Back", func(t *testing.T) {
		tracker := newTracker(t, 10)
		exec := finishedExecution("greet", "hello")

		require.NoError(t, tracker.Record(ctx, exec), "Record should not return error")

		recorded, err := tracker.Recorded(ctx)
		require.NoError(t, err)
		require.Len(t, recorded, 1)
		assert.Equal(t, exec.ID(), recorded[0].ID)
		assert.Equal(t, "greet", recorded[0].Origin.Input)
		assert.Equal(t, domain.StatusFinalized, recorded[0].State)
		assert.Equal(t, "hello", recorded[0].Payload)
	})

	t.Run("Empty", func(t *testing.T) {
		tracker := newTracker(t, 10)
		recorded, err := tracker.Recorded(ctx)
		require.NoError(t, err)
		assert.Empty(t, recorded)
	})

	t.Run("Evicts Oldest First", func(t *testing.T) {
		tracker := newTracker(t, 3)
		var ids []string
		for i := range 5 {
			exec := finishedExecution(fmt.Sprintf("input-%d", i), i)
			ids = append(ids, exec.ID())
			require.NoError(t, tracker.Record(ctx, exec))
		}

		recorded, err := tracker.Recorded(ctx)
		require.NoError(t, err)
		require.Len(t, recorded, 3)
		for i, rec := range recorded {
			assert.Equal(t, ids[i+2], rec.ID, "position %d", i)
		}
	})
}

func finishedExecution(input string, payload any) *domain.ExecutionContext {
	exec := domain.NewExecution(
		domain.OriginID{Name: "contract", Input: input, Variant: "function"},
		payload,
		&domain.StepExecution{Name: "prepare", State: domain.StepFinalized},
		domain.NewAtoms(nil),
		nil,
	)
	exec.BeginFinalizationStep(domain.FinalizeParams{Name: "finalize", Input: payload})
	_ = exec.Terminate()
	return exec
}
