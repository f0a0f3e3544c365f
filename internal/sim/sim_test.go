package sim

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chairs/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGame(t *testing.T, policy domain.ChairPolicy) *domain.Game {
	t.Helper()
	g, err := domain.NewGame("SIM", domain.DefaultGameSettings(), policy)
	require.NoError(t, err)
	return g
}

func TestRunPlaysToGameOver(t *testing.T) {
	g := newGame(t, nil)

	summary, err := NewRunner(g, DefaultOptions(), testLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, g.IsOver())
	require.NotEmpty(t, summary.Rounds)
	assert.LessOrEqual(t, len(summary.Rounds), domain.ChairCount)
	assert.NotEmpty(t, summary.Winners)
	assert.Equal(t, domain.ChairCount, len(summary.Winners)+len(summary.Eliminated))
	assert.Greater(t, summary.SimulatedTime, time.Duration(0))

	eliminations := 0
	for i, round := range summary.Rounds {
		assert.Equal(t, i+1, round.Number)
		assert.NotEqual(t, domain.NoChair, round.RemovedChair, "round %d", round.Number)
		if round.HasElimination() {
			eliminations++
		} else {
			assert.True(t, round.Fault, "round %d", round.Number)
		}
	}
	assert.Equal(t, len(summary.Eliminated), eliminations)
	assert.Equal(t, len(summary.Rounds), eliminations+summary.Faults)
}

func TestRunFirstRoundRemovesBottomLeftChair(t *testing.T) {
	g := newGame(t, domain.NewPriorityPolicy())

	summary, err := NewRunner(g, DefaultOptions(), testLogger()).Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, summary.Rounds)
	assert.Equal(t, 8, summary.Rounds[0].RemovedChair)
	// With every seat filled the first round always eliminates someone
	assert.True(t, summary.Rounds[0].HasElimination())
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	run := func() *Summary {
		policy, err := domain.NewChairPolicy(domain.PolicyRandom, 7)
		require.NoError(t, err)
		opts := DefaultOptions()
		opts.Seed = 42
		summary, err := NewRunner(newGame(t, policy), opts, testLogger()).Run(context.Background())
		require.NoError(t, err)
		return summary
	}

	a, b := run(), run()

	assert.Equal(t, a.Eliminated, b.Eliminated)
	assert.Equal(t, a.Winners, b.Winners)
	assert.Equal(t, a.Steps, b.Steps)
	require.Equal(t, len(a.Rounds), len(b.Rounds))
	for i := range a.Rounds {
		assert.Equal(t, a.Rounds[i].RemovedChair, b.Rounds[i].RemovedChair)
		assert.Equal(t, a.Rounds[i].SettledSlot, b.Rounds[i].SettledSlot)
	}
}

func TestRunStepLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSteps = 10

	summary, err := NewRunner(newGame(t, nil), opts, testLogger()).Run(context.Background())
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, 10, summary.Steps)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newGame(t, nil)
	_, err := NewRunner(g, DefaultOptions(), testLogger()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.PhaseIdle, g.Phase())
}
