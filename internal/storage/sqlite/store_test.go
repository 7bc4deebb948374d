package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
	"github.com/peterkuimelis/gwentx/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "gwentx.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func sampleSummary(finished time.Time) *game.MatchSummary {
	zero := 0
	return &game.MatchSummary{
		ID:       uuid.New(),
		Factions: [2]string{"realms", "monsters"},
		Decks:    [2]string{"Temerian Vanguard", "Wild Hunt Swarm"},
		Rounds: []game.RoundResult{
			{Round: 1, Winner: &zero, ScoreA: 42, ScoreB: 37},
			{Round: 2, Winner: nil, ScoreA: 20, ScoreB: 20},
		},
		Lives:      [2]int{1, 0},
		Winner:     0,
		Reason:     "P2 is out of lives",
		StartedAt:  finished.Add(-10 * time.Minute),
		FinishedAt: finished,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestSaveAndGetSummary(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	want := sampleSummary(time.Date(2026, time.March, 3, 18, 0, 0, 0, time.UTC))

	require.NoError(t, store.SaveSummary(ctx, want))

	got, err := store.GetSummary(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, *want, got)
	require.Len(t, got.Rounds, 2)
	assert.Nil(t, got.Rounds[1].Winner, "drawn rounds keep a nil winner")
}

func TestSaveSummaryRejectsDuplicate(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	s := sampleSummary(time.Now().UTC().Truncate(time.Millisecond))

	require.NoError(t, store.SaveSummary(ctx, s))
	assert.ErrorIs(t, store.SaveSummary(ctx, s), storage.ErrAlreadyExists)

	assert.Error(t, store.SaveSummary(ctx, &game.MatchSummary{}), "summary id is required")
	assert.Error(t, store.SaveSummary(ctx, nil))
}

func TestGetSummaryNotFound(t *testing.T) {
	store := openTempStore(t)
	_, err := store.GetSummary(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListSummariesNewestFirst(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		s := sampleSummary(base.Add(time.Duration(i) * time.Hour))
		require.NoError(t, store.SaveSummary(ctx, s))
		ids = append(ids, s.ID)
	}

	got, err := store.ListSummaries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
	assert.Len(t, got[0].Rounds, 2)

	_, err = store.ListSummaries(ctx, 0)
	assert.Error(t, err)
}

func TestStoreReopensWithoutReapplyingMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gwentx.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	require.NoError(t, err)
	s := sampleSummary(time.Date(2026, time.May, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, first.SaveSummary(ctx, s))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.GetSummary(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Reason, got.Reason)
}

func TestStoreIsSummarySink(t *testing.T) {
	store := openTempStore(t)

	cat := game.DefaultCatalog()
	d0, err := game.DeckByNumber("../../../decks.yaml", cat, 1)
	require.NoError(t, err)
	d1, err := game.DeckByNumber("../../../decks.yaml", cat, 3)
	require.NoError(t, err)

	m, err := game.NewMatch(game.MatchConfig{Decks: [2]*game.Deck{d0, d1}, Sink: store, Seed: 9},
		conceder{}, conceder{})
	require.NoError(t, err)
	_, err = m.Run(context.Background())
	require.NoError(t, err)

	got, err := store.GetSummary(context.Background(), m.Summary.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Summary.Winner, got.Winner)
	assert.Contains(t, got.Reason, "concedes")
}

func TestExtractUpMigration(t *testing.T) {
	assert.Equal(t, "\nCREATE TABLE a (x);\n",
		ExtractUpMigration("-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;\n"))
	assert.Equal(t, "CREATE TABLE b (y);", ExtractUpMigration("CREATE TABLE b (y);"))
}

func TestApplyMigrationsRunsEachFileOnce(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"002_extra.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE extra (n INTEGER);\nINSERT INTO extra (n) VALUES (1);\n")},
		"notes.txt":     {Data: []byte("ignored")},
	}

	require.NoError(t, ApplyMigrations(ctx, store.db, fsys, "."))
	require.NoError(t, ApplyMigrations(ctx, store.db, fsys, "."))

	var n int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM extra").Scan(&n))
	assert.Equal(t, 1, n)

	assert.Error(t, ApplyMigrations(ctx, nil, fsys, "."))
}

// conceder gives up on its first turn.
type conceder struct{}

func (conceder) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	for _, a := range actions {
		if a.Type == game.ActionConcede {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}

func (conceder) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.CardInstance, min, max int) ([]*game.CardInstance, error) {
	return nil, nil
}

func (conceder) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	return false, nil
}

func (conceder) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}
