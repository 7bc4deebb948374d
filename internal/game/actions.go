package game

import (
	"fmt"

	"github.com/peterkuimelis/gwentx/internal/log"
)

// LegalRows returns the board rows a hand card may target. Cards that take
// no row (weather, decoy and instant specials) return nil.
func (m *Match) LegalRows(player int, card *CardInstance) []int {
	gs := m.State
	c := card.Card
	opp := gs.Opponent(player)
	var rows []int
	switch {
	case c.IsUnit():
		side := player
		if c.Has(AbilitySpy) {
			side = opp
		}
		for _, lane := range c.Class.Lanes() {
			rows = append(rows, RowIndex(side, lane))
		}
	case c.IsTrap():
		for lane := LaneClose; lane <= LaneSiege; lane++ {
			row := gs.Board.Row(opp, lane)
			if row.Trap(c.Primary()) == nil {
				rows = append(rows, row.Index)
			}
		}
	case c.IsToken():
		side := player
		if c.Primary() == AbilityLock {
			side = opp
		}
		for lane := LaneClose; lane <= LaneSiege; lane++ {
			rows = append(rows, RowIndex(side, lane))
		}
	}
	return rows
}

// decoyTargets returns the units on player's side a decoy may swap out.
func (m *Match) decoyTargets(player int) []*CardInstance {
	var targets []*CardInstance
	for _, u := range m.State.Board.Units(player) {
		if !u.Card.Hero {
			targets = append(targets, u)
		}
	}
	return targets
}

// canPlay reports whether a row-less hand card has its precondition met.
func (m *Match) canPlay(player int, card *CardInstance) bool {
	c := card.Card
	switch {
	case c.Primary() == AbilityDecoy:
		return len(m.decoyTargets(player)) > 0
	case c.IsWeather():
		return true
	default:
		ab := c.Primary().Lookup()
		if ab.OnActivated == nil {
			return false
		}
		return ab.CanActivate == nil || ab.CanActivate(m, card, player)
	}
}

// LegalActions enumerates every action player may take now.
func (m *Match) LegalActions(player int) []Action {
	gs := m.State
	p := gs.Players[player]
	var actions []Action

	for _, card := range p.Hand {
		if p.RoundEffects.Embargoed && card.Card.IsSpecial() {
			continue
		}
		if rows := m.LegalRows(player, card); rows != nil {
			for _, r := range rows {
				actions = append(actions, Action{
					Type:   ActionPlayCard,
					Player: player,
					Card:   card,
					Row:    r,
					Desc:   fmt.Sprintf("Play %s to %s", card.Card.Name, RowName(r)),
				})
			}
			continue
		}
		if card.Card.IsUnit() || card.Card.IsToken() || card.Card.IsTrap() {
			continue // every target row is taken
		}
		if m.canPlay(player, card) {
			actions = append(actions, Action{
				Type:   ActionPlayCard,
				Player: player,
				Card:   card,
				Row:    NoTargetRow,
				Desc:   "Play " + card.Card.Name,
			})
		}
	}

	if m.leaderReady(player) {
		actions = append(actions, Action{Type: ActionLeader, Player: player, Row: NoTargetRow,
			Desc: "Activate leader " + p.Leader.Card.Name})
	}
	if m.factionReady(player) {
		actions = append(actions, Action{Type: ActionFaction, Player: player, Row: NoTargetRow,
			Desc: "Use " + FactionCharge(p.Faction).Lookup().Name})
	}
	actions = append(actions,
		Action{Type: ActionPass, Player: player, Row: NoTargetRow, Desc: "Pass"},
		Action{Type: ActionConcede, Player: player, Row: NoTargetRow, Desc: "Concede"},
	)
	return actions
}

func (m *Match) leaderReady(player int) bool {
	p := m.State.Players[player]
	if p.Leader == nil || !p.LeaderAvailable {
		return false
	}
	ab := p.Leader.Card.Primary().Lookup()
	return ab.OnActivated != nil && (ab.CanActivate == nil || ab.CanActivate(m, p.Leader, player))
}

func (m *Match) factionReady(player int) bool {
	p := m.State.Players[player]
	id, ok := factionCharge[p.Faction]
	if !ok || p.FactionCharges <= 0 {
		return false
	}
	ab := id.Lookup()
	return ab.CanActivate == nil || ab.CanActivate(m, nil, player)
}

// Execute validates and applies an action. Rejected actions return an
// error wrapping ErrIllegalAction or ErrSelectionCancelled and leave the
// state untouched.
func (m *Match) Execute(a Action) error {
	gs := m.State
	if gs.Over {
		return illegal("match is over")
	}
	if a.Player != gs.Active {
		return illegal("P%d is not the active player", a.Player+1)
	}
	switch a.Type {
	case ActionPass:
		m.pass(a.Player, false)
		return nil
	case ActionConcede:
		m.concede(a.Player)
		return nil
	case ActionLeader:
		return m.activateLeader(a.Player)
	case ActionFaction:
		return m.activateFaction(a.Player)
	case ActionPlayCard:
		return m.playCard(a)
	}
	return illegal("unknown action type %d", a.Type)
}

func (m *Match) playCard(a Action) error {
	gs := m.State
	p := gs.Players[a.Player]
	card := a.Card
	if card == nil || !p.InHand(card) {
		return illegal("card not in hand")
	}
	c := card.Card
	if p.RoundEffects.Embargoed && c.IsSpecial() {
		return illegal("specials are embargoed this turn")
	}

	rows := m.LegalRows(a.Player, card)
	targeted := c.IsUnit() || c.IsToken() || c.IsTrap()
	if targeted && !containsRow(rows, a.Row) {
		return illegal("%s cannot be played to row %d", c.Name, a.Row)
	}
	if !targeted && !m.canPlay(a.Player, card) {
		return illegal("%s has no legal target", c.Name)
	}

	// Selections happen before anything is committed.
	var decoyTarget *CardInstance
	switch {
	case c.Primary() == AbilityDecoy:
		chosen, err := m.requestChoice(a.Player, PromptDecoy, m.decoyTargets(a.Player), 1, 1)
		if err != nil {
			return err
		}
		if len(chosen) == 0 {
			return ErrSelectionCancelled
		}
		decoyTarget = chosen[0]
	case c.IsUnit() && c.Has(AbilityMedic):
		side := RowOwner(a.Row)
		if candidates := gs.Players[side].GraveUnits(); len(candidates) > 0 {
			chosen, err := m.requestChoice(a.Player, PromptMedic, candidates, 1, 1)
			if err != nil {
				return err
			}
			if len(chosen) == 0 {
				return ErrSelectionCancelled
			}
			m.preselected[card.ID] = chosen[0]
		}
	}

	p.RemoveFromHand(card)
	p.PlaysThisRound++
	switch {
	case targeted:
		m.addToRow(card, gs.Board.Rows[a.Row])
		delete(m.preselected, card.ID) // unused when the medic was cursed or locked
	case c.IsWeather():
		m.playWeather(card, a.Player)
	case decoyTarget != nil:
		m.swapDecoy(card, decoyTarget, a.Player)
	default:
		ab := c.Primary().Lookup()
		m.log(log.NewAbilityEvent(gs.Round, gs.Turn, a.Player, c.Name, ab.Name, "activated"))
		if err := ab.OnActivated(m, card, a.Player); err != nil {
			m.Diag.Warn("special had no effect", "card", c.Name, "err", err)
		}
		m.toGrave(card)
	}
	return nil
}

// swapDecoy returns target to player's hand and leaves the decoy in its place.
func (m *Match) swapDecoy(decoy, target *CardInstance, player int) {
	gs := m.State
	row := target.Row
	target.decoyTarget = true
	if !m.removeFromRow(target) {
		m.toGrave(decoy)
		return
	}
	target.Owner = player
	gs.Players[player].AddToHand(target)
	m.log(log.NewCardMovedEvent(gs.Round, gs.Turn, player, target.Card.Name, RowName(row.Index), "Hand", row.Index))
	m.addToRow(decoy, row)
}

func (m *Match) activateLeader(player int) error {
	gs := m.State
	if !m.leaderReady(player) {
		return illegal("leader is not available")
	}
	p := gs.Players[player]
	ab := p.Leader.Card.Primary().Lookup()
	if err := ab.OnActivated(m, p.Leader, player); err != nil {
		return err
	}
	p.LeaderAvailable = false
	m.log(log.NewLeaderEvent(gs.Round, gs.Turn, player, p.Leader.Card.Name))
	return nil
}

func (m *Match) activateFaction(player int) error {
	gs := m.State
	if !m.factionReady(player) {
		return illegal("no faction charge available")
	}
	p := gs.Players[player]
	if err := FactionCharge(p.Faction).Lookup().OnActivated(m, nil, player); err != nil {
		return err
	}
	p.FactionCharges--
	m.log(log.NewFactionEvent(gs.Round, gs.Turn, player, p.Faction.String()))
	return nil
}

func containsRow(rows []int, r int) bool {
	for _, x := range rows {
		if x == r {
			return true
		}
	}
	return false
}
