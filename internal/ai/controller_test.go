package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
)

func TestControllerServesLadderAfterRejection(t *testing.T) {
	m := newBoard(t)
	gs := m.State
	gs.Players[0].PlaysThisRound = 1
	give(t, m, 0, "zoltan")
	give(t, m, 0, "yarpen")

	c := NewController(testPolicy(), nil)
	ctx := context.Background()
	actions := m.LegalActions(0)

	first, err := c.ChooseAction(ctx, gs, actions)
	require.NoError(t, err)
	require.Equal(t, game.ActionPlayCard, first.Type)

	var rest []game.Action
	for _, a := range actions {
		if !a.Same(first) {
			rest = append(rest, a)
		}
	}
	second, err := c.ChooseAction(ctx, gs, rest)
	require.NoError(t, err)
	assert.Equal(t, game.ActionPlayCard, second.Type)
	assert.False(t, second.Same(first))

	// All plays rejected: the controller falls back to pass.
	third, err := c.ChooseAction(ctx, gs, []game.Action{{Type: game.ActionPass, Player: 0, Row: game.NoTargetRow}})
	require.NoError(t, err)
	assert.Equal(t, game.ActionPass, third.Type)

	// A new turn plans afresh.
	gs.Turn++
	again, err := c.ChooseAction(ctx, gs, actions)
	require.NoError(t, err)
	assert.Equal(t, game.ActionPlayCard, again.Type)
}

func TestControllerHonoursCancelledContext(t *testing.T) {
	m := newBoard(t)
	c := NewController(testPolicy(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ChooseAction(ctx, m.State, m.LegalActions(0))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = c.ChooseCards(ctx, m.State, game.PromptMedic, nil, 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestControllerChoosesCards(t *testing.T) {
	m := newBoard(t)
	gs := m.State
	c := NewController(testPolicy(), nil)
	ctx := context.Background()

	inst := func(key string) *game.CardInstance {
		def, ok := m.Catalog.Lookup(key)
		require.True(t, ok, key)
		return gs.CreateCardInstance(def, 0)
	}

	t.Run("medic revives the strongest", func(t *testing.T) {
		yarpen, cahir := inst("yarpen"), inst("cahir")
		got, err := c.ChooseCards(ctx, gs, game.PromptMedic, []*game.CardInstance{yarpen, cahir}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []*game.CardInstance{cahir}, got)
	})

	t.Run("medic prefers a spy", func(t *testing.T) {
		cahir, spy := inst("cahir"), inst("prince_stennis")
		got, err := c.ChooseCards(ctx, gs, game.PromptMedic, []*game.CardInstance{cahir, spy}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []*game.CardInstance{spy}, got)
	})

	t.Run("decoy reclaims a spy", func(t *testing.T) {
		black, spy := inst("black_archer"), inst("prince_stennis")
		got, err := c.ChooseCards(ctx, gs, game.PromptDecoy, []*game.CardInstance{black, spy}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []*game.CardInstance{spy}, got)
	})

	t.Run("mulligan drops a duplicate weather", func(t *testing.T) {
		f1, f2 := inst("biting_frost"), inst("biting_frost")
		got, err := c.ChooseCards(ctx, gs, game.PromptMulligan, []*game.CardInstance{inst("cahir"), f1, inst("geralt"), f2}, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, []*game.CardInstance{f2}, got)
	})

	t.Run("mulligan drops a weak plain unit", func(t *testing.T) {
		yarpen := inst("yarpen")
		got, err := c.ChooseCards(ctx, gs, game.PromptMulligan, []*game.CardInstance{inst("cahir"), yarpen}, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, []*game.CardInstance{yarpen}, got)
	})

	t.Run("mulligan keeps a good hand", func(t *testing.T) {
		got, err := c.ChooseCards(ctx, gs, game.PromptMulligan, []*game.CardInstance{inst("cahir"), inst("geralt")}, 0, 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("other prompts take the minimum strongest", func(t *testing.T) {
		yarpen, cahir, ves := inst("yarpen"), inst("cahir"), inst("ves")
		got, err := c.ChooseCards(ctx, gs, "Pick two", []*game.CardInstance{yarpen, cahir, ves}, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, []*game.CardInstance{cahir, ves}, got)
	})

	yes, err := c.ChooseYesNo(ctx, gs, game.PromptGoFirst)
	require.NoError(t, err)
	assert.False(t, yes)
}

func TestPolicyVersusPolicy(t *testing.T) {
	cat := game.DefaultCatalog()
	for i := 1; i <= 5; i++ {
		j := i%5 + 1
		t.Run(fmt.Sprintf("deck %d vs %d", i, j), func(t *testing.T) {
			d0, err := game.DeckByNumber(decksFile, cat, i)
			require.NoError(t, err)
			d1, err := game.DeckByNumber(decksFile, cat, j)
			require.NoError(t, err)

			newSeat := func(seed int64) *Controller {
				cfg := DefaultConfig()
				cfg.Seed = seed
				return NewController(NewPolicy(cfg, cat), nil)
			}
			logger := log.NewMemoryLogger()
			m, err := game.NewMatch(game.MatchConfig{
				Decks:  [2]*game.Deck{d0, d1},
				Logger: logger,
				Seed:   int64(100 + i),
			}, newSeat(int64(i)), newSeat(int64(i*31)))
			require.NoError(t, err)

			winner, err := m.Run(context.Background())
			require.NoError(t, err)
			assert.True(t, m.State.Over)
			assert.Contains(t, []int{-1, 0, 1}, winner)
			assert.NotEmpty(t, m.Summary.Rounds)
			assert.LessOrEqual(t, len(m.Summary.Rounds), 3)
			assert.Empty(t, logger.EventsOfType(log.EventConcede), "the policy never concedes")
		})
	}
}
