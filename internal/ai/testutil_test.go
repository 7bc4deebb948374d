package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gwentx/internal/game"
)

const decksFile = "../../decks.yaml"

// newBoard creates a Realms vs Nilfgaard match in round two with empty
// hands and no leader or faction charge, so only the cards a test hands out
// produce actions. Deck lists are cleared so no removal is known.
func newBoard(t *testing.T) *game.Match {
	t.Helper()
	cat := game.DefaultCatalog()
	d0, err := game.DeckByNumber(decksFile, cat, 1)
	require.NoError(t, err)
	d1, err := game.DeckByNumber(decksFile, cat, 2)
	require.NoError(t, err)

	m, err := game.NewMatch(game.MatchConfig{
		Decks:      [2]*game.Deck{d0, d1},
		Seed:       1,
		NoShuffle:  true,
		NoCoinToss: true,
	}, nil, nil)
	require.NoError(t, err)

	gs := m.State
	gs.Round = 2
	gs.Turn = 1
	for _, p := range gs.Players {
		p.Hand = nil
		p.DeckList = nil // no known removal unless a test adds it
		p.LeaderAvailable = false
		p.FactionCharges = 0
	}
	return m
}

func testPolicy() *Policy {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return NewPolicy(cfg, nil)
}

// give puts a fresh copy of the catalog card key into player's hand.
func give(t *testing.T, m *game.Match, player int, key string) *game.CardInstance {
	t.Helper()
	def, ok := m.Catalog.Lookup(key)
	require.True(t, ok, "unknown card %s", key)
	ci := m.State.CreateCardInstance(def, player)
	m.State.Players[player].AddToHand(ci)
	return ci
}

// put plays key for player onto board row, resetting the play counter.
func put(t *testing.T, m *game.Match, player int, key string, row int) *game.CardInstance {
	t.Helper()
	ci := give(t, m, player, key)
	gs := m.State
	active := gs.Active
	gs.Active = player
	require.NoError(t, m.Execute(game.Action{Type: game.ActionPlayCard, Player: player, Card: ci, Row: row}))
	gs.Active = active
	gs.Players[player].PlaysThisRound = 0
	return ci
}

// playAction builds the PlayCard action for a hand card.
func playAction(player int, ci *game.CardInstance, row int) game.Action {
	return game.Action{Type: game.ActionPlayCard, Player: player, Card: ci, Row: row}
}

func hasType(actions []game.Action, typ game.ActionType) bool {
	for _, a := range actions {
		if a.Type == typ {
			return true
		}
	}
	return false
}
