package game

import (
	"github.com/peterkuimelis/gwentx/internal/log"
)

// addToRow makes card resident in row, running trap interception, lock
// consumption and placement hooks. It reports whether the card became
// resident; a cursed unit never does.
func (m *Match) addToRow(card *CardInstance, row *Row) bool {
	gs := m.State
	c := card.Card

	if c.IsUnit() {
		if trap := row.Waylay; trap != nil {
			row.Waylay = nil
			m.log(log.NewTrapEvent(gs.Round, gs.Turn, trap.Owner, trap.Card.Name, row.Index,
				trap.Card.Name+" springs on "+c.Name))
			m.toGrave(trap)
			m.drawCards(trap.Owner, gs.Rules.WaylayDraws)
		}
		if trap := row.Curse; trap != nil && !c.Hero {
			row.Curse = nil
			m.log(log.NewTrapEvent(gs.Round, gs.Turn, trap.Owner, trap.Card.Name, row.Index,
				trap.Card.Name+" consumes "+c.Name))
			m.log(log.NewDestroyEvent(gs.Round, gs.Turn, card.Owner, c.Name, "cursed"))
			m.toGrave(card)
			m.toGrave(trap)
			if m.hasLeader(trap.Owner, AbilityLeaderHex) {
				m.hexAutoplay(trap.Owner)
			}
			return false
		}
	}

	from := card.Zone.String()
	card.Controller = row.Owner()
	card.residency++
	row.insert(card)
	m.log(log.NewCardMovedEvent(gs.Round, gs.Turn, card.Owner, c.Name, from, RowName(row.Index), row.Index))

	if c.IsUnit() && len(c.Abilities) > 0 && row.Effects.Lock > 0 {
		card.Locked = true
		if tok := row.firstToken(AbilityLock); tok != nil {
			if m.removeFromRow(tok) {
				m.toGrave(tok)
			}
		} else {
			m.Diag.Warn("lock counter without token", "row", row.Index)
			row.Effects.Lock--
		}
		m.log(log.NewAbilityEvent(gs.Round, gs.Turn, card.Controller, c.Name, "Lock", "locked"))
	}

	if !card.Locked {
		m.updateState(card, row, true)
		for _, id := range c.Abilities {
			if card.Row != row {
				break // a hook moved the card
			}
			if h := id.Lookup().OnPlaced; h != nil {
				m.log(log.NewAbilityEvent(gs.Round, gs.Turn, card.Controller, c.Name, id.Lookup().Name, "placed"))
				h(m, card, row)
			}
		}
	}

	m.refreshScores()
	return true
}

// removeFromRow takes card off its row, running paired bookkeeping and
// removal hooks. A card that is not resident is a logged no-op.
func (m *Match) removeFromRow(card *CardInstance) bool {
	gs := m.State
	row := card.Row
	if row == nil || !row.take(card) {
		m.Diag.Warn("removal of non-resident card", "card", card.Card.Name, "id", card.ID)
		return false
	}

	suppressed := card.decoyTarget || card.Locked
	card.decoyTarget = false
	if !card.Locked {
		m.updateState(card, row, false)
	}
	// A lock covers one residency only.
	card.Locked = false
	card.Row = nil

	if !suppressed {
		for _, id := range card.Card.Abilities {
			if h := id.Lookup().OnRemoved; h != nil {
				m.log(log.NewAbilityEvent(gs.Round, gs.Turn, card.Controller, card.Card.Name, id.Lookup().Name, "removed"))
				h(m, card, row)
			}
		}
	}

	m.refreshScores()
	return true
}

// updateState performs the paired counter bookkeeping for a placement or removal.
func (m *Match) updateState(card *CardInstance, row *Row, activate bool) {
	sign := -1
	if activate {
		sign = 1
	}
	applyCounters(row, &m.State.Players[row.Owner()].RoundEffects, card, sign)
}

// destroy sends a resident card to its owner's grave, honouring guards.
func (m *Match) destroy(card *CardInstance, reason string) {
	gs := m.State
	if card.Row == nil {
		m.Diag.Warn("destroy of non-resident card", "card", card.Card.Name, "id", card.ID)
		return
	}
	if guard := m.guardFor(card); guard != nil {
		m.log(log.NewAbilityEvent(gs.Round, gs.Turn, guard.Controller, guard.Card.Name, "Guard", "redirect"))
		card = guard
		reason = "guarding"
	}
	if m.removeFromRow(card) {
		m.log(log.NewDestroyEvent(gs.Round, gs.Turn, card.Owner, card.Card.Name, reason))
		m.toGrave(card)
	}
}

// guardFor returns a resident guard protecting card, or nil.
func (m *Match) guardFor(card *CardInstance) *CardInstance {
	for _, u := range m.State.Board.Units(card.Controller) {
		if u.ID != card.ID && u.Card.Has(AbilityGuard) && u.Card.Target == card.Card.Key {
			return u
		}
	}
	return nil
}

// toGrave moves an off-board card to its owner's grave. Minted non-units
// leave the game instead.
func (m *Match) toGrave(card *CardInstance) {
	gs := m.State
	from := card.Zone.String()
	if card.minted && !card.Card.IsUnit() {
		card.resetRuntime()
		card.Zone = ZoneBanished
		return
	}
	gs.Players[card.Owner].SendToGrave(card)
	m.log(log.NewCardMovedEvent(gs.Round, gs.Turn, card.Owner, card.Card.Name, from, "Grave", log.NoRow))
}

// drawCards draws up to n cards for player.
func (m *Match) drawCards(player, n int) {
	gs := m.State
	for i := 0; i < n; i++ {
		card := gs.Players[player].DrawCard()
		if card == nil {
			return
		}
		m.log(log.NewDrawEvent(gs.Round, gs.Turn, player, card.Card.Name))
	}
}

// refreshScores recomputes every row in index order and propagates deltas.
func (m *Match) refreshScores() {
	gs := m.State
	for _, row := range gs.Board.Rows {
		delta := row.UpdateScore(gs)
		if delta == 0 {
			continue
		}
		gs.Players[row.Owner()].Score += delta
		m.log(log.NewRowScoreEvent(gs.Round, gs.Turn, row.Owner(), row.Index, row.Total))
	}
}

// applyWeather syncs each row's weather flag with the weather zone.
func (m *Match) applyWeather() {
	dark := m.State.Board.Weather.Darkened()
	for i, row := range m.State.Board.Rows {
		row.Effects.Weather = dark[i]
	}
	m.refreshScores()
}

// mint creates a new instance of def that did not come from a deck list.
func (m *Match) mint(def *Card, owner int) *CardInstance {
	ci := m.State.CreateCardInstance(def, owner)
	ci.minted = true
	ci.Zone = ZoneBanished
	return ci
}

// tokenCard returns the catalog definition used for a minted effect card.
func (m *Match) tokenCard(id AbilityID) *Card {
	if def := m.Catalog.FirstWith(id); def != nil {
		return def
	}
	class := ClassSpecial
	if _, ok := weatherRows[id]; ok || id == AbilityClear {
		class = ClassWeather
	}
	return &Card{Key: id.String(), Name: id.Lookup().Name, Faction: FactionNeutral, Abilities: []AbilityID{id}, Class: class}
}

// laneFor picks the lane a unit enters when it is placed by an effect.
func laneFor(card *CardInstance, preferred Lane) Lane {
	lanes := card.Card.Class.Lanes()
	for _, l := range lanes {
		if l == preferred {
			return l
		}
	}
	if len(lanes) == 0 {
		return LaneClose
	}
	return lanes[0]
}

// placeUnit puts a unit on side's board (spies go across) via addToRow.
func (m *Match) placeUnit(card *CardInstance, side int, preferred Lane) bool {
	if card.Card.Has(AbilitySpy) {
		side = m.State.Opponent(side)
	}
	return m.addToRow(card, m.State.Board.Row(side, laneFor(card, preferred)))
}

// revive takes a unit out of its grave and places it for side.
func (m *Match) revive(card *CardInstance, side int) {
	gs := m.State
	if !gs.Players[card.Owner].RemoveFromGrave(card) {
		m.Diag.Warn("revive of card not in grave", "card", card.Card.Name, "id", card.ID)
		return
	}
	m.log(log.NewAbilityEvent(gs.Round, gs.Turn, side, card.Card.Name, "Medic", "revived"))
	m.placeUnit(card, side, LaneClose)
}

// hasLeader reports whether player's leader carries the ability.
func (m *Match) hasLeader(player int, id AbilityID) bool {
	l := m.State.Players[player].Leader
	return l != nil && l.Card.Has(id)
}

// hexAutoplay draws one card for player and plays it if it is a unit.
func (m *Match) hexAutoplay(player int) {
	gs := m.State
	p := gs.Players[player]
	card := p.DrawCard()
	if card == nil {
		return
	}
	m.log(log.NewDrawEvent(gs.Round, gs.Turn, player, card.Card.Name))
	if !card.Card.IsUnit() {
		return
	}
	p.RemoveFromHand(card)
	m.log(log.NewAbilityEvent(gs.Round, gs.Turn, player, card.Card.Name, "Hexer", "autoplay"))
	m.placeUnit(card, player, LaneClose)
}
