package game

import (
	"fmt"

	"github.com/peterkuimelis/gwentx/internal/log"
)

// scorchActivated destroys every strongest non-hero unit on the board,
// skipping shielded rows and warded sides.
func scorchActivated(m *Match, card *CardInstance, player int) error {
	gs := m.State
	best := 0
	var victims []*CardInstance
	for _, row := range gs.Board.Rows {
		if row.Effects.Shield > 0 || gs.Players[row.Owner()].RoundEffects.ScorchWard {
			continue
		}
		for _, c := range row.Units() {
			if c.Card.Hero {
				continue
			}
			switch {
			case c.Power > best:
				best = c.Power
				victims = []*CardInstance{c}
			case c.Power == best && best > 0:
				victims = append(victims, c)
			}
		}
	}
	for _, c := range victims {
		m.destroy(c, card.Card.Name)
	}
	return nil
}

// nightfallActivated darkens every row for nocturnal units until round end.
func nightfallActivated(m *Match, card *CardInstance, player int) error {
	gs := m.State
	for _, row := range gs.Board.Rows {
		row.Effects.Nightfall = true
	}
	m.log(log.NewWeatherEvent(gs.Round, gs.Turn, player, card.Card.Name, "Night falls over the battlefield"))
	m.refreshScores()
	return nil
}

func seizeCanActivate(m *Match, card *CardInstance, player int) bool {
	return m.State.Board.Row(m.State.Opponent(player), LaneClose).Weakest() != nil
}

// seizeActivated takes the weakest unit from the opponent's close row.
func seizeActivated(m *Match, card *CardInstance, player int) error {
	gs := m.State
	target := gs.Board.Row(gs.Opponent(player), LaneClose).Weakest()
	if target == nil {
		return illegal("no unit to seize")
	}
	target.decoyTarget = true
	if !m.removeFromRow(target) {
		return nil
	}
	m.log(log.NewAbilityEvent(gs.Round, gs.Turn, player, target.Card.Name, "Seize", "seized"))
	m.addToRow(target, gs.Board.Row(player, LaneClose))
	return nil
}

func bankActivated(m *Match, card *CardInstance, player int) error {
	m.drawCards(player, 1)
	return nil
}

// embargoActivated blocks the opponent's specials until their next turn ends.
func embargoActivated(m *Match, card *CardInstance, player int) error {
	gs := m.State
	opp := gs.Opponent(player)
	gs.Players[opp].RoundEffects.Embargoed = true
	round := gs.Round
	gs.Hooks.TurnEnd.Add(func() bool {
		if gs.Round != round {
			return true
		}
		if gs.Active != opp {
			return false
		}
		gs.Players[opp].RoundEffects.Embargoed = false
		return true
	})
	return nil
}

// --- Weather ---

// playWeather moves a weather card into the shared zone. A duplicate kind
// or a clear card goes straight to the grave.
func (m *Match) playWeather(card *CardInstance, player int) {
	gs := m.State
	kind := card.Card.Primary()
	if kind == AbilityClear {
		m.log(log.NewWeatherEvent(gs.Round, gs.Turn, player, card.Card.Name, "The skies clear"))
		m.clearWeather()
		m.toGrave(card)
		return
	}
	if gs.Board.Weather.Has(kind) {
		m.log(log.NewWeatherEvent(gs.Round, gs.Turn, player, card.Card.Name, card.Card.Name+" is already active"))
		m.toGrave(card)
		return
	}
	from := card.Zone.String()
	card.Zone = ZoneWeather
	gs.Board.Weather.Cards = append(gs.Board.Weather.Cards, card)
	m.log(log.NewCardMovedEvent(gs.Round, gs.Turn, card.Owner, card.Card.Name, from, "Weather", log.NoRow))
	m.log(log.NewWeatherEvent(gs.Round, gs.Turn, player, card.Card.Name, fmt.Sprintf("%s darkens %v", card.Card.Name, weatherRows[kind])))
	m.applyWeather()
}

// clearWeather discards every active weather card.
func (m *Match) clearWeather() {
	gs := m.State
	cards := gs.Board.Weather.Cards
	gs.Board.Weather.Cards = nil
	for _, c := range cards {
		m.toGrave(c)
	}
	m.applyWeather()
}
