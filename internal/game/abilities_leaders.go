package game

import (
	"github.com/peterkuimelis/gwentx/internal/log"
)

// --- Shared activation gates ---

func weatherActive(m *Match, card *CardInstance, player int) bool {
	return len(m.State.Board.Weather.Cards) > 0
}

func deckNotEmpty(m *Match, card *CardInstance, player int) bool {
	return m.State.Players[player].DeckCount() > 0
}

func graveHasUnit(m *Match, card *CardInstance, player int) bool {
	return len(m.State.Players[player].GraveUnits()) > 0
}

func opponentHasUnits(m *Match, card *CardInstance, player int) bool {
	return len(m.State.Board.Units(m.State.Opponent(player))) > 0
}

// --- Leaders ---

func leaderFrostCan(m *Match, card *CardInstance, player int) bool {
	return !m.State.Board.Weather.Has(AbilityFrost)
}

// leaderFrost plays a frost card from the deck, or a fresh one when the deck has none.
func leaderFrost(m *Match, card *CardInstance, player int) error {
	p := m.State.Players[player]
	for _, c := range p.Deck {
		if c.Card.Primary() == AbilityFrost {
			p.RemoveFromDeck(c)
			m.playWeather(c, player)
			return nil
		}
	}
	m.playWeather(m.mint(m.tokenCard(AbilityFrost), player), player)
	return nil
}

func leaderClear(m *Match, card *CardInstance, player int) error {
	m.clearWeather()
	return nil
}

func leaderHornSiegeCan(m *Match, card *CardInstance, player int) bool {
	return m.State.Board.Row(player, LaneSiege).Effects.Horn == 0
}

func leaderHornSiege(m *Match, card *CardInstance, player int) error {
	m.addToRow(m.mint(m.tokenCard(AbilityHorn), player), m.State.Board.Row(player, LaneSiege))
	return nil
}

func leaderDraw(m *Match, card *CardInstance, player int) error {
	m.drawCards(player, 1)
	return nil
}

func leaderScorchSiege(m *Match, card *CardInstance, player int) error {
	m.scorchRow(m.State.Board.Row(m.State.Opponent(player), LaneSiege), card.Card.Name)
	return nil
}

// leaderMedic revives a chosen grave unit. Cancelling keeps the leader.
func leaderMedic(m *Match, card *CardInstance, player int) error {
	chosen, err := m.requestChoice(player, PromptMedic, m.State.Players[player].GraveUnits(), 1, 1)
	if err != nil {
		return err
	}
	if len(chosen) == 0 {
		return ErrSelectionCancelled
	}
	m.revive(chosen[0], player)
	return nil
}

func leaderScorchWard(m *Match, card *CardInstance, player int) error {
	m.State.Players[player].RoundEffects.ScorchWard = true
	return nil
}

func leaderRallyCan(m *Match, card *CardInstance, player int) bool {
	return m.State.Board.Row(player, LaneClose).UnitCount() > 0
}

// leaderRally floors the close row's units at their base power until round end.
func leaderRally(m *Match, card *CardInstance, player int) error {
	gs := m.State
	units := gs.Board.Row(player, LaneClose).Units()
	for _, u := range units {
		u.AddModifier(Modifier{Source: card.ID, HasFloor: true, Floor: u.Card.BasePower})
	}
	gs.Hooks.RoundEnd.Add(func() bool {
		for _, u := range units {
			u.RemoveModifiersBySource(card.ID)
		}
		return true
	})
	m.refreshScores()
	return nil
}

// leaderHalfWeather makes weather halve the owner's rows instead of clamping.
func leaderHalfWeather(m *Match, card *CardInstance, player int) {
	for _, row := range m.State.Board.SideRows(player) {
		row.HalfWeather = true
	}
}

// --- Faction charges ---

func chargeRealms(m *Match, card *CardInstance, player int) error {
	m.drawCards(player, 1)
	return nil
}

// chargeNilfgaard drops a lock token on the opponent's strongest row.
func chargeNilfgaard(m *Match, card *CardInstance, player int) error {
	gs := m.State
	var target *Row
	for _, row := range gs.Board.SideRows(gs.Opponent(player)) {
		if target == nil || row.Total > target.Total {
			target = row
		}
	}
	m.addToRow(m.mint(m.tokenCard(AbilityLock), player), target)
	return nil
}

// chargeMonsters returns a random grave unit to hand.
func chargeMonsters(m *Match, card *CardInstance, player int) error {
	gs := m.State
	p := gs.Players[player]
	units := p.GraveUnits()
	if len(units) == 0 {
		return illegal("no unit in grave")
	}
	pick := units[m.rng.Intn(len(units))]
	p.RemoveFromGrave(pick)
	p.AddToHand(pick)
	m.log(log.NewCardMovedEvent(gs.Round, gs.Turn, player, pick.Card.Name, "Grave", "Hand", log.NoRow))
	return nil
}

func chargeScoiatael(m *Match, card *CardInstance, player int) error {
	m.clearWeather()
	return nil
}

func chargeSkelligeCan(m *Match, card *CardInstance, player int) bool {
	return m.State.Board.Row(player, LaneClose).Effects.Mardroeme == 0
}

func chargeSkellige(m *Match, card *CardInstance, player int) error {
	m.addToRow(m.mint(m.tokenCard(AbilityMardroeme), player), m.State.Board.Row(player, LaneClose))
	return nil
}
