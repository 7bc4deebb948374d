package game

import (
	"fmt"

	"github.com/peterkuimelis/gwentx/internal/log"
)

// startRound resets per-round state and runs the round-start queue.
func (m *Match) startRound() {
	gs := m.State
	gs.Round++
	gs.Phase = StateRoundStart
	gs.Active = gs.First

	for side, p := range gs.Players {
		p.Passed = false
		p.PlaysThisRound = 0
		p.RoundEffects = RoundEffects{Schools: make(map[AbilityID]int)}
		for _, u := range gs.Board.Units(side) {
			if !u.Locked {
				applyRoundCounters(&p.RoundEffects, u, 1)
			}
		}
	}
	m.log(log.NewRoundStartEvent(gs.Round, gs.First))

	if gs.Round == 3 {
		for side, p := range gs.Players {
			if p.Faction == FactionSkellige {
				m.skelligeRevival(side)
			}
		}
	}
	gs.Hooks.RoundStart.Run()
	m.refreshScores()
}

// skelligeRevival brings two random grave units back onto the board.
func (m *Match) skelligeRevival(side int) {
	gs := m.State
	m.log(log.NewFactionEvent(gs.Round, gs.Turn, side, gs.Players[side].Faction.String()))
	for i := 0; i < 2; i++ {
		units := gs.Players[side].GraveUnits()
		if len(units) == 0 {
			return
		}
		m.revive(units[m.rng.Intn(len(units))], side)
	}
}

// endRound resolves the round, charges lives and clears the board.
func (m *Match) endRound() {
	gs := m.State
	gs.Phase = StateRoundEnd
	s0, s1 := gs.Players[0].Score, gs.Players[1].Score

	winner := -1
	switch {
	case s0 > s1:
		winner = 0
	case s1 > s0:
		winner = 1
	default:
		n0 := gs.Players[0].Faction == FactionNilfgaard
		n1 := gs.Players[1].Faction == FactionNilfgaard
		if n0 != n1 {
			winner = 0
			if n1 {
				winner = 1
			}
		}
	}

	result := RoundResult{Round: gs.Round, ScoreA: s0, ScoreB: s1}
	if winner >= 0 {
		w := winner
		result.Winner = &w
	}
	gs.Rounds = append(gs.Rounds, result)
	m.log(log.NewRoundEndedEvent(gs.Round, winner, s0, s1))

	for side, p := range gs.Players {
		if side == winner {
			continue
		}
		p.Lives--
		m.log(log.NewLifeLostEvent(gs.Round, side, p.Lives))
	}

	gs.Hooks.RoundEnd.Run()

	next := 1 - gs.First
	if winner >= 0 {
		next = 1 - winner
	}

	dead0, dead1 := gs.Players[0].Lives <= 0, gs.Players[1].Lives <= 0
	switch {
	case dead0 && dead1:
		m.endMatch(-1, "both players are out of lives")
		return
	case dead0:
		m.endMatch(1, "P1 is out of lives")
		return
	case dead1:
		m.endMatch(0, "P2 is out of lives")
		return
	}

	if winner >= 0 && gs.Players[winner].Faction == FactionRealms {
		m.log(log.NewFactionEvent(gs.Round, gs.Turn, winner, FactionRealms.String()))
		m.drawCards(winner, 1)
	}

	m.cleanup()
	gs.First = next
}

// cleanup moves every card without persistence to its owner's grave and
// clears weather and nightfall.
func (m *Match) cleanup() {
	gs := m.State
	m.inCleanup = true
	defer func() { m.inCleanup = false }()

	for side, p := range gs.Players {
		if p.Faction != FactionMonsters {
			continue
		}
		units := gs.Board.Units(side)
		if len(units) == 0 {
			continue
		}
		keep := units[m.rng.Intn(len(units))]
		keep.noRemove = true
		m.log(log.NewFactionEvent(gs.Round, gs.Turn, side, fmt.Sprintf("%s keeps %s", p.Faction, keep.Card.Name)))
	}

	for side := 0; side < 2; side++ {
		units := gs.Board.Units(side)
		for _, u := range units {
			switch {
			case u.Immortal > 0:
				u.noRemove = true
				u.Immortal--
			case u.Card.Has(AbilityResilience) && !u.resilient && hasResilientPartner(units, u):
				u.noRemove = true
				u.resilient = true
			}
		}
	}

	for _, row := range gs.Board.Rows {
		for _, c := range row.residents() {
			if c.noRemove {
				c.noRemove = false
				continue
			}
			if m.removeFromRow(c) {
				m.toGrave(c)
			}
		}
		row.Effects.Nightfall = false
	}
	m.clearWeather()
}

func hasResilientPartner(units []*CardInstance, card *CardInstance) bool {
	for _, u := range units {
		if u.ID != card.ID && u.Card.Has(AbilityResilience) {
			return true
		}
	}
	return false
}
