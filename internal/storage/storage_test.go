package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gwentx/internal/game"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	one := 1
	s := &game.MatchSummary{
		ID:         uuid.New(),
		Rounds:     []game.RoundResult{{Round: 1, Winner: &one, ScoreA: 10, ScoreB: 12}},
		Winner:     1,
		FinishedAt: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveSummary(ctx, s))
	assert.ErrorIs(t, store.SaveSummary(ctx, s), ErrAlreadyExists)

	// Later changes to the caller's copy do not leak into the store.
	*s.Rounds[0].Winner = 0

	got, err := store.GetSummary(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Rounds, 1)
	assert.Equal(t, 1, *got.Rounds[0].Winner)

	_, err = store.GetSummary(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	base := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		s := &game.MatchSummary{ID: uuid.New(), FinishedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.SaveSummary(ctx, s))
		ids = append(ids, s.ID)
	}

	got, err := store.ListSummaries(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{ids[3], ids[2], ids[1]}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})

	_, err = store.ListSummaries(ctx, -1)
	assert.Error(t, err)
}

func TestMemoryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemory()
	assert.ErrorIs(t, store.SaveSummary(ctx, &game.MatchSummary{ID: uuid.New()}), context.Canceled)
	_, err := store.ListSummaries(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
