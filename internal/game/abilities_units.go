package game

import (
	"github.com/peterkuimelis/gwentx/internal/log"
)

// --- Unit ability behaviours ---

func spyPlaced(m *Match, card *CardInstance, row *Row) {
	m.drawCards(card.Owner, m.State.Rules.SpyDraws)
}

// medicPlaced revives the target chosen before the play was committed, or
// asks now when the medic arrived through another effect.
func medicPlaced(m *Match, card *CardInstance, row *Row) {
	side := card.Controller
	target := m.preselected[card.ID]
	delete(m.preselected, card.ID)
	if target == nil {
		candidates := m.State.Players[side].GraveUnits()
		if len(candidates) == 0 {
			return
		}
		chosen, err := m.requestChoice(side, PromptMedic, candidates, 1, 1)
		if err != nil || len(chosen) == 0 {
			m.fail(err)
			return
		}
		target = chosen[0]
	}
	m.revive(target, side)
}

// musterPlaced pulls every card sharing the muster target out of the deck.
func musterPlaced(m *Match, card *CardInstance, row *Row) {
	if card.Card.Target == "" {
		return
	}
	owner := m.State.Players[card.Owner]
	var pulled []*CardInstance
	for _, c := range owner.Deck {
		if c.Card.Has(AbilityMuster) && c.Card.Target == card.Card.Target {
			pulled = append(pulled, c)
		}
	}
	for _, c := range pulled {
		if !owner.RemoveFromDeck(c) {
			continue // taken by a nested muster
		}
		m.placeUnit(c, card.Controller, row.Lane())
	}
}

// rowScorchPlaced kills the strongest units of the opposing lane row.
func rowScorchPlaced(lane Lane) func(m *Match, card *CardInstance, row *Row) {
	return func(m *Match, card *CardInstance, row *Row) {
		target := m.State.Board.Row(m.State.Opponent(card.Controller), lane)
		m.scorchRow(target, card.Card.Name)
	}
}

// scorchRow destroys the strongest non-hero units on row when its total
// reaches the threshold and neither a shield nor a ward protects it.
func (m *Match) scorchRow(row *Row, source string) {
	gs := m.State
	if row.Total < gs.Rules.ScorchThreshold || row.Effects.Shield > 0 || gs.Players[row.Owner()].RoundEffects.ScorchWard {
		return
	}
	for _, c := range row.Strongest() {
		m.destroy(c, source)
	}
}

// avengerRemoved summons the avenger's target, deferred to the next round
// start when the removal is part of round-end cleanup.
func avengerRemoved(m *Match, card *CardInstance, row *Row) {
	def, ok := m.Catalog.Lookup(card.Card.Target)
	if !ok {
		m.Diag.Warn("avenger target missing from catalog", "card", card.Card.Key, "target", card.Card.Target)
		return
	}
	owner, lane := card.Owner, row.Lane()
	summon := func() {
		inst := m.mint(def, owner)
		m.log(log.NewAbilityEvent(m.State.Round, m.State.Turn, owner, def.Name, "Avenger", "summoned"))
		m.placeUnit(inst, owner, lane)
	}
	if m.inCleanup {
		m.State.Hooks.RoundStart.Add(func() bool {
			summon()
			return true
		})
		return
	}
	summon()
}

func hungerPlaced(m *Match, card *CardInstance, row *Row) {
	if row.Effects.Mardroeme > 0 {
		m.transform(card)
	}
}

func mardroemePlaced(m *Match, token *CardInstance, row *Row) {
	for _, c := range row.Units() {
		if c.Card.Has(AbilityHunger) && !c.Locked {
			m.transform(c)
		}
	}
}

// transform replaces a hunger unit with a fresh instance of its target.
func (m *Match) transform(card *CardInstance) {
	gs := m.State
	def, ok := m.Catalog.Lookup(card.Card.Target)
	if !ok {
		m.Diag.Warn("hunger target missing from catalog", "card", card.Card.Key, "target", card.Card.Target)
		return
	}
	row := card.Row
	side := card.Controller
	if !m.removeFromRow(card) {
		return
	}
	card.resetRuntime()
	card.Zone = ZoneBanished
	m.log(log.NewAbilityEvent(gs.Round, gs.Turn, side, card.Card.Name, "Hunger", "transformed into "+def.Name))
	inst := m.mint(def, card.Owner)
	m.placeUnit(inst, side, row.Lane())
}

// veteranPlaced accrues one veteran turn at each of the controller's next
// three turn starts while the card stays resident.
func veteranPlaced(m *Match, card *CardInstance, row *Row) {
	stamp := card.residency
	side := card.Controller
	card.VeteranTurns = 0
	m.State.Hooks.TurnStart.Add(func() bool {
		if card.Zone != ZoneRow || card.residency != stamp {
			return true
		}
		if m.State.Active != side {
			return false
		}
		card.VeteranTurns++
		m.refreshScores()
		return card.VeteranTurns >= 3
	})
}

func immortalPlaced(m *Match, card *CardInstance, row *Row) {
	card.Immortal = m.State.Rules.ImmortalRounds
}
