package game

import "math"

// scoreEnv is the read-only context of one score evaluation. fx is the
// round-effect set of the side being scored; override substitutes a
// projected copy for the row with the same index.
type scoreEnv struct {
	gs       *GameState
	fx       *RoundEffects
	override *Row
}

func (e scoreEnv) rowAt(i int) *Row {
	if e.override != nil && e.override.Index == i {
		return e.override
	}
	return e.gs.Board.Rows[i]
}

// CalcCardScore evaluates the ordered power formula for a card resident in row.
func CalcCardScore(gs *GameState, card *CardInstance, row *Row) int {
	return scoreEnv{gs: gs, fx: &gs.Players[row.Owner()].RoundEffects}.calc(card, row)
}

func (e scoreEnv) calc(card *CardInstance, row *Row) int {
	c := card.Card
	total := c.BasePower
	if c.Hero || !c.IsUnit() {
		return total
	}
	rules := e.gs.Rules

	if c.Has(AbilitySpy) {
		total = int(math.Floor(rules.SpyMultiplier * float64(total)))
	}
	if c.Has(AbilityInspire) && !card.Locked {
		total = e.inspireBase(row.Owner())
	}
	if c.Has(AbilityVeteran) {
		total += card.VeteranBonus()
	}
	for _, mod := range card.Modifiers {
		total += mod.Bonus
	}

	if row.Effects.Weather && !(c.Has(AbilityNocturnal) && row.Effects.Nightfall) {
		clamp := 1
		if c.Has(AbilityAdaptive) {
			clamp = 2
		}
		if row.HalfWeather {
			total = max(clamp, total/2)
		} else {
			total = min(total, clamp)
		}
	}
	if card.Locked {
		return applyFloors(card, total)
	}

	if c.Has(AbilityBond) {
		if n := row.Effects.Bond[c.Target]; n > 1 {
			total *= n
		}
	}

	morale := row.Effects.Morale
	if c.Has(AbilityMorale) {
		morale--
	}
	total += max(0, morale)

	total += max(0, 2*row.Effects.Wine)

	if school := c.Primary(); school.IsSchool() {
		total += (e.fx.Schools[school] - 1) * 2
	}

	if c.Has(AbilityWorshipped) && e.fx.Worshippers > 0 {
		total += e.fx.Worshippers * rules.WorshipBoost
	}

	horn := row.Effects.Horn
	if c.Has(AbilityHorn) {
		horn--
	}
	if horn > 0 {
		total *= 2
	}

	if c.Has(AbilityFortify) && row.UnitCount() == 1 {
		total += rules.FortifyBonus
	}

	return applyFloors(card, total)
}

func applyFloors(card *CardInstance, total int) int {
	for _, mod := range card.Modifiers {
		if mod.HasFloor && total < mod.Floor {
			total = mod.Floor
		}
	}
	return total
}

// inspireBase returns the highest base power among the side's unlocked
// inspire units.
func (e scoreEnv) inspireBase(side int) int {
	best := 0
	for lane := LaneClose; lane <= LaneSiege; lane++ {
		for _, c := range e.rowAt(RowIndex(side, lane)).Cards {
			if c.Locked || !c.Card.Has(AbilityInspire) {
				continue
			}
			best = max(best, c.Card.BasePower)
		}
	}
	return best
}

// applyCounters performs the paired counter bookkeeping for a card
// entering (sign = +1) or leaving (sign = -1) a row.
func applyCounters(row *Row, fx *RoundEffects, card *CardInstance, sign int) {
	c := card.Card
	if c.Has(AbilityMorale) {
		row.Effects.Morale += sign
	}
	if c.Has(AbilityHorn) {
		row.Effects.Horn += sign
	}
	if c.Has(AbilityBond) {
		row.Effects.Bond[c.Target] += sign
		if row.Effects.Bond[c.Target] <= 0 {
			delete(row.Effects.Bond, c.Target)
		}
	}
	if c.IsToken() {
		switch c.Primary() {
		case AbilityMardroeme:
			row.Effects.Mardroeme += sign
		case AbilityShield:
			row.Effects.Shield += sign
		case AbilityLock:
			row.Effects.Lock += sign
		case AbilityWine:
			row.Effects.Wine += sign
		}
	}
	if c.IsUnit() {
		applyRoundCounters(fx, card, sign)
	}
}

func applyRoundCounters(fx *RoundEffects, card *CardInstance, sign int) {
	c := card.Card
	if c.Has(AbilityWorshipper) {
		fx.Worshippers += sign
	}
	if school := c.Primary(); school.IsSchool() {
		if fx.Schools == nil {
			fx.Schools = make(map[AbilityID]int)
		}
		fx.Schools[school] += sign
	}
}

// ProjectRowTotal returns what row's total would be with card added,
// evaluated on a copy. Neither the row nor the card is mutated.
func ProjectRowTotal(gs *GameState, row *Row, card *CardInstance) int {
	sim := *row
	sim.Effects = row.Effects.clone()
	sim.Cards = append([]*CardInstance(nil), row.Cards...)
	sim.Special = append([]*CardInstance(nil), row.Special...)
	fx := gs.Players[row.Owner()].RoundEffects.clone()

	if card != nil {
		probe := *card
		probe.Modifiers = nil
		probe.Controller = row.Owner()
		probe.Locked = false
		if sim.Effects.Lock > 0 && probe.Card.IsUnit() && len(probe.Card.Abilities) > 0 {
			probe.Locked = true
			sim.Effects.Lock--
		}
		switch {
		case probe.Card.IsToken():
			sim.Special = append(sim.Special, &probe)
		case probe.Card.IsUnit():
			sim.Cards = append(sim.Cards, &probe)
		}
		if !probe.Locked {
			applyCounters(&sim, &fx, &probe, 1)
		}
	}

	env := scoreEnv{gs: gs, fx: &fx, override: &sim}
	total := 0
	for _, c := range sim.Cards {
		total += env.calc(c, &sim)
	}
	return total
}

// ProjectWeatherTotal returns row's total with its weather flag forced to dark.
func ProjectWeatherTotal(gs *GameState, row *Row, dark bool) int {
	sim := *row
	sim.Effects = row.Effects.clone()
	sim.Effects.Weather = dark
	env := scoreEnv{gs: gs, fx: &gs.Players[row.Owner()].RoundEffects, override: &sim}
	total := 0
	for _, c := range sim.Cards {
		total += env.calc(c, &sim)
	}
	return total
}
