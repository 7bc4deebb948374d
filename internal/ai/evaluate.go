package ai

import (
	"github.com/peterkuimelis/gwentx/internal/game"
)

// Weigh scores one action for player. Higher is better; the lottery only
// samples positive weights.
func (p *Policy) Weigh(gs *game.GameState, player int, a game.Action) float64 {
	switch a.Type {
	case game.ActionPass:
		return p.passWeight(gs, player)
	case game.ActionLeader:
		return p.leaderWeight(gs, player) - p.cfg.LeaderReserve
	case game.ActionFaction:
		return p.chargeWeight(gs, player) - p.cfg.LeaderReserve
	case game.ActionPlayCard:
		return p.cardWeight(gs, player, a)
	}
	return -1
}

func (p *Policy) cardWeight(gs *game.GameState, player int, a game.Action) float64 {
	c := a.Card.Card
	switch {
	case c.IsUnit():
		return p.unitWeight(gs, player, a)
	case c.IsTrap():
		return p.cfg.TrapValue
	case c.IsToken():
		return p.tokenWeight(gs, player, a)
	case c.IsWeather():
		if c.Primary() == game.AbilityClear {
			return clearSwing(gs, player)
		}
		return weatherSwing(gs, player, c.Primary())
	}

	switch c.Primary() {
	case game.AbilityDecoy:
		return p.decoyWeight(gs, player)
	case game.AbilityScorch:
		return p.globalScorchWeight(gs, player)
	case game.AbilityBank:
		return p.cfg.DrawValue
	case game.AbilitySeize:
		if u := gs.Board.Row(gs.Opponent(player), game.LaneClose).Weakest(); u != nil {
			return float64(2 * u.Power)
		}
		return 0
	case game.AbilityNightfall:
		return p.cfg.SpecialValue * float64(nocturnal(gs, player)-nocturnal(gs, gs.Opponent(player)))
	}
	return p.cfg.SpecialValue
}

func (p *Policy) unitWeight(gs *game.GameState, player int, a game.Action) float64 {
	c := a.Card.Card
	row := gs.Board.Rows[a.Row]
	gain := float64(game.ProjectRowTotal(gs, row, a.Card) - row.Total)
	spy := c.Has(game.AbilitySpy)

	w := gain
	if spy {
		w = -gain + p.cfg.DrawValue*float64(gs.Rules.SpyDraws)
	}

	// Traps the opponent armed on our own rows.
	if !spy {
		if row.Curse != nil && !c.Hero {
			return -float64(c.BasePower) - 1
		}
		if row.Waylay != nil {
			w -= p.cfg.DrawValue * float64(gs.Rules.WaylayDraws)
		}
	}

	if c.Has(game.AbilityMedic) {
		w += float64(bestPower(gs.Players[row.Owner()].GraveUnits()))
	}
	if c.Has(game.AbilityMuster) && c.Target != "" {
		for _, d := range gs.Players[player].Deck {
			if d.Card.Has(game.AbilityMuster) && d.Card.Target == c.Target {
				w += float64(d.Card.BasePower)
			}
		}
	}
	if lane, ok := rowScorchLane(c); ok {
		w += p.removalValue(gs, gs.Board.Row(gs.Opponent(player), lane))
	}
	if c.Has(game.AbilityHunger) && row.Effects.Mardroeme > 0 {
		w += p.cfg.TransformValue
	}

	if row.Effects.Weather && !c.Hero && !spy && hasClearRow(gs, player, c) {
		w -= p.cfg.WeatherRowPenalty
	}

	if spy {
		return w
	}
	if known := knownRemoval(gs, player); known > 0 {
		switch {
		case c.Hero && row.UnitCount() == 0:
			w -= p.cfg.LoneHeroPenalty
		case !c.Hero && c.BasePower > 0 && c.BasePower >= strongestOnBoard(gs):
			w -= p.cfg.DisruptionPenalty * float64(c.BasePower)
		}
	}
	return w
}

func (p *Policy) tokenWeight(gs *game.GameState, player int, a game.Action) float64 {
	row := gs.Board.Rows[a.Row]
	switch a.Card.Card.Primary() {
	case game.AbilityLock:
		return p.cfg.LockValue
	case game.AbilityShield:
		if knownRemoval(gs, player) > 0 && row.UnitCount() > 0 {
			return p.cfg.ShieldValue
		}
		return 0.5
	case game.AbilityMardroeme:
		return p.cfg.TransformValue * float64(hungerUnits(row))
	}
	return float64(game.ProjectRowTotal(gs, row, a.Card) - row.Total)
}

// decoyWeight values the best swap: reclaiming an enemy spy or a medic.
func (p *Policy) decoyWeight(gs *game.GameState, player int) float64 {
	best := 0.0
	for _, u := range gs.Board.Units(player) {
		if u.Card.Hero {
			continue
		}
		v := 0.0
		switch {
		case u.Card.Has(game.AbilitySpy):
			v = p.cfg.DrawValue*float64(gs.Rules.SpyDraws) - float64(u.Power)
		case u.Card.Has(game.AbilityMedic):
			v = float64(bestPower(gs.Players[player].GraveUnits()))
		}
		if v > best {
			best = v
		}
	}
	return best
}

// globalScorchWeight is negative when our own losses, scaled by
// ScorchSelfRatio, outweigh the enemy's.
func (p *Policy) globalScorchWeight(gs *game.GameState, player int) float64 {
	best := 0
	var victims []*game.CardInstance
	for _, row := range gs.Board.Rows {
		if row.Effects.Shield > 0 || gs.Players[row.Owner()].RoundEffects.ScorchWard {
			continue
		}
		for _, u := range row.Units() {
			if u.Card.Hero {
				continue
			}
			switch {
			case u.Power > best:
				best = u.Power
				victims = []*game.CardInstance{u}
			case u.Power == best && best > 0:
				victims = append(victims, u)
			}
		}
	}
	own, theirs := 0.0, 0.0
	for _, u := range victims {
		if u.Controller == player {
			own += float64(u.Power)
		} else {
			theirs += float64(u.Power) - p.deathDiscount(u)
		}
	}
	if own*p.cfg.ScorchSelfRatio > theirs {
		return -1 - own
	}
	return theirs - own
}

// removalValue is what a row scorch on row would take off the opponent.
func (p *Policy) removalValue(gs *game.GameState, row *game.Row) float64 {
	if row.Total < gs.Rules.ScorchThreshold || row.Effects.Shield > 0 || gs.Players[row.Owner()].RoundEffects.ScorchWard {
		return 0
	}
	v := 0.0
	for _, u := range row.Strongest() {
		v += float64(u.Power) - p.deathDiscount(u)
	}
	return v
}

// deathDiscount is the value an avenger returns to its owner when killed.
func (p *Policy) deathDiscount(u *game.CardInstance) float64 {
	if !u.Card.Has(game.AbilityAvenger) || u.Locked {
		return 0
	}
	if def, ok := p.catalog.Lookup(u.Card.Target); ok {
		return float64(def.BasePower)
	}
	return 0
}

func (p *Policy) leaderWeight(gs *game.GameState, player int) float64 {
	me := gs.Players[player]
	if me.Leader == nil {
		return 0
	}
	switch me.Leader.Card.Primary() {
	case game.AbilityLeaderFrost:
		return weatherSwing(gs, player, game.AbilityFrost)
	case game.AbilityLeaderClear:
		return clearSwing(gs, player)
	case game.AbilityLeaderHornSiege:
		def := p.catalog.FirstWith(game.AbilityHorn)
		if def == nil {
			return p.cfg.SpecialValue
		}
		row := gs.Board.Row(player, game.LaneSiege)
		return float64(game.ProjectRowTotal(gs, row, &game.CardInstance{Card: def, Owner: player}) - row.Total)
	case game.AbilityLeaderDraw:
		return p.cfg.DrawValue
	case game.AbilityLeaderScorchSiege:
		return p.removalValue(gs, gs.Board.Row(gs.Opponent(player), game.LaneSiege))
	case game.AbilityLeaderMedic:
		return float64(bestPower(me.GraveUnits()))
	case game.AbilityLeaderScorchWard:
		if knownRemoval(gs, player) > 0 {
			return p.cfg.WardValue
		}
		return 0
	case game.AbilityLeaderRally:
		v := 0
		for _, u := range gs.Board.Row(player, game.LaneClose).Units() {
			if d := u.Card.BasePower - u.Power; d > 0 {
				v += d
			}
		}
		return float64(v)
	}
	return 0
}

func (p *Policy) chargeWeight(gs *game.GameState, player int) float64 {
	me := gs.Players[player]
	switch game.FactionCharge(me.Faction) {
	case game.AbilityChargeRealms:
		return p.cfg.DrawValue
	case game.AbilityChargeNilfgaard:
		return p.cfg.LockValue
	case game.AbilityChargeMonsters:
		units := me.GraveUnits()
		if len(units) == 0 {
			return 0
		}
		sum := 0
		for _, u := range units {
			sum += u.Card.BasePower
		}
		return float64(sum) / float64(len(units))
	case game.AbilityChargeScoiatael:
		return clearSwing(gs, player)
	case game.AbilityChargeSkellige:
		return p.cfg.TransformValue * float64(hungerUnits(gs.Board.Row(player, game.LaneClose)))
	}
	return 0
}

// passWeight turns the score differential, hand sizes and round number
// into a desire to pass.
func (p *Policy) passWeight(gs *game.GameState, player int) float64 {
	me := gs.Players[player]
	opp := gs.Players[gs.Opponent(player)]
	lead := me.Score - opp.Score

	if opp.Passed {
		switch {
		case lead > 0:
			return p.cfg.PassWinWeight
		case lead < 0 && !gs.Decisive() && -lead >= p.cfg.PassGiveUpDeficit:
			return p.cfg.PassGiveUpWeight
		}
		return 0
	}
	if lead < p.cfg.PassLeadMargin {
		return 0
	}
	if opp.HandCount() == 0 {
		return p.cfg.PassWinWeight
	}
	switch {
	case gs.Round == 1 && me.HandCount() >= opp.HandCount():
		return float64(lead)
	case me.HandCount() > opp.HandCount():
		return float64(lead) / 2
	}
	return 0
}

// weatherSwing is the enemy's loss minus ours if kind fell now.
func weatherSwing(gs *game.GameState, player int, kind game.AbilityID) float64 {
	swing := 0
	for i, row := range gs.Board.Rows {
		if row.Effects.Weather || !game.Darkens(kind, i) {
			continue
		}
		loss := row.Total - game.ProjectWeatherTotal(gs, row, true)
		if row.Owner() == player {
			swing -= loss
		} else {
			swing += loss
		}
	}
	return float64(swing)
}

// clearSwing is our gain minus the enemy's if all weather lifted now.
func clearSwing(gs *game.GameState, player int) float64 {
	swing := 0
	for _, row := range gs.Board.Rows {
		if !row.Effects.Weather {
			continue
		}
		gain := game.ProjectWeatherTotal(gs, row, false) - row.Total
		if row.Owner() == player {
			swing += gain
		} else {
			swing -= gain
		}
	}
	return float64(swing)
}

// knownRemoval counts scorch effects the opponent may still hold: scorch
// cards in their deck list not yet seen in their grave or on the board,
// plus an unused scorch leader.
func knownRemoval(gs *game.GameState, player int) int {
	oppIdx := gs.Opponent(player)
	opp := gs.Players[oppIdx]
	n := 0
	for _, c := range opp.DeckList {
		if isRemoval(c) {
			n++
		}
	}
	for _, c := range opp.Grave {
		if isRemoval(c.Card) {
			n--
		}
	}
	for _, row := range gs.Board.Rows {
		for _, u := range row.Units() {
			if u.Owner == oppIdx && isRemoval(u.Card) {
				n--
			}
		}
	}
	if n < 0 {
		n = 0
	}
	if opp.Leader != nil && opp.LeaderAvailable && opp.Leader.Card.Primary().IsScorch() {
		n++
	}
	return n
}

func isRemoval(c *game.Card) bool {
	for _, id := range c.Abilities {
		if id.IsScorch() {
			return true
		}
	}
	return false
}

func rowScorchLane(c *game.Card) (game.Lane, bool) {
	switch {
	case c.Has(game.AbilityScorchClose):
		return game.LaneClose, true
	case c.Has(game.AbilityScorchRanged):
		return game.LaneRanged, true
	case c.Has(game.AbilityScorchSiege):
		return game.LaneSiege, true
	}
	return game.LaneClose, false
}

// hasClearRow reports whether c has a legal lane on player's side that is
// not under weather.
func hasClearRow(gs *game.GameState, player int, c *game.Card) bool {
	for _, lane := range c.Class.Lanes() {
		if !gs.Board.Row(player, lane).Effects.Weather {
			return true
		}
	}
	return false
}

func strongestOnBoard(gs *game.GameState) int {
	best := 0
	for _, row := range gs.Board.Rows {
		for _, u := range row.Units() {
			if !u.Card.Hero && u.Power > best {
				best = u.Power
			}
		}
	}
	return best
}

func bestPower(cards []*game.CardInstance) int {
	best := 0
	for _, c := range cards {
		if c.Card.BasePower > best {
			best = c.Card.BasePower
		}
	}
	return best
}

func hungerUnits(row *game.Row) int {
	n := 0
	for _, u := range row.Units() {
		if u.Card.Has(game.AbilityHunger) && !u.Locked {
			n++
		}
	}
	return n
}

func nocturnal(gs *game.GameState, player int) int {
	n := 0
	for _, u := range gs.Board.Units(player) {
		if u.Card.Has(game.AbilityNocturnal) {
			n++
		}
	}
	return n
}
