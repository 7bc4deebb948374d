package game

import (
	"sort"
)

// RowEffects holds the aggregated effect counters of one row. Every
// counter equals the number of unlocked resident cards granting it.
type RowEffects struct {
	Weather   bool
	Nightfall bool
	Morale    int
	Horn      int
	Mardroeme int
	Shield    int
	Lock      int
	Wine      int
	Bond      map[string]int // keyed by the bonded card's Target
}

func (e RowEffects) clone() RowEffects {
	c := e
	c.Bond = make(map[string]int, len(e.Bond))
	for k, v := range e.Bond {
		c.Bond[k] = v
	}
	return c
}

// Row is one of the six combat lanes.
type Row struct {
	Index   int
	Cards   []*CardInstance // resident units, kept sort-ordered
	Special []*CardInstance // horn, mardroeme, wine, shield and lock tokens
	Effects RowEffects
	Total   int

	Curse  *CardInstance
	Waylay *CardInstance

	HalfWeather bool // weather halves instead of clamping
}

func newRow(index int) *Row {
	return &Row{Index: index, Effects: RowEffects{Bond: make(map[string]int)}}
}

// Owner returns the player whose side the row is on.
func (r *Row) Owner() int {
	return RowOwner(r.Index)
}

// Lane returns the row's combat lane.
func (r *Row) Lane() Lane {
	return RowLane(r.Index)
}

// Units returns the resident unit cards, excluding decoys.
func (r *Row) Units() []*CardInstance {
	var units []*CardInstance
	for _, c := range r.Cards {
		if c.Card.IsUnit() {
			units = append(units, c)
		}
	}
	return units
}

// UnitCount returns the number of resident units.
func (r *Row) UnitCount() int {
	return len(r.Units())
}

// Contains reports whether the card is resident in any sub-zone of the row.
func (r *Row) Contains(card *CardInstance) bool {
	for _, c := range r.Cards {
		if c.ID == card.ID {
			return true
		}
	}
	for _, c := range r.Special {
		if c.ID == card.ID {
			return true
		}
	}
	return (r.Curse != nil && r.Curse.ID == card.ID) || (r.Waylay != nil && r.Waylay.ID == card.ID)
}

// Trap returns the trap in the given slot, or nil.
func (r *Row) Trap(kind AbilityID) *CardInstance {
	switch kind {
	case AbilityCurse:
		return r.Curse
	case AbilityWaylay:
		return r.Waylay
	}
	return nil
}

// Strongest returns every non-hero unit sharing the highest power on the row.
func (r *Row) Strongest() []*CardInstance {
	var best []*CardInstance
	top := 0
	for _, c := range r.Units() {
		if c.Card.Hero {
			continue
		}
		switch {
		case c.Power > top:
			top = c.Power
			best = []*CardInstance{c}
		case c.Power == top && top > 0:
			best = append(best, c)
		}
	}
	return best
}

// Weakest returns the lowest-power non-hero unit, or nil.
func (r *Row) Weakest() *CardInstance {
	var weakest *CardInstance
	for _, c := range r.Units() {
		if c.Card.Hero {
			continue
		}
		if weakest == nil || c.Power < weakest.Power {
			weakest = c
		}
	}
	return weakest
}

// insert places the card into the proper sub-zone without any bookkeeping.
func (r *Row) insert(card *CardInstance) {
	switch {
	case card.Card.IsTrap():
		if card.Card.Primary() == AbilityCurse {
			r.Curse = card
		} else {
			r.Waylay = card
		}
	case card.Card.IsToken():
		r.Special = append(r.Special, card)
	default:
		r.Cards = append(r.Cards, card)
		sort.SliceStable(r.Cards, func(i, j int) bool {
			a, b := r.Cards[i].Card, r.Cards[j].Card
			if a.BasePower != b.BasePower {
				return a.BasePower < b.BasePower
			}
			return a.Name < b.Name
		})
	}
	card.Row = r
	card.Zone = ZoneRow
}

// take removes the card from whichever sub-zone holds it.
func (r *Row) take(card *CardInstance) bool {
	for i, c := range r.Cards {
		if c.ID == card.ID {
			r.Cards = append(r.Cards[:i], r.Cards[i+1:]...)
			return true
		}
	}
	for i, c := range r.Special {
		if c.ID == card.ID {
			r.Special = append(r.Special[:i], r.Special[i+1:]...)
			return true
		}
	}
	if r.Curse != nil && r.Curse.ID == card.ID {
		r.Curse = nil
		return true
	}
	if r.Waylay != nil && r.Waylay.ID == card.ID {
		r.Waylay = nil
		return true
	}
	return false
}

// firstToken returns the first token on the row carrying the ability.
func (r *Row) firstToken(id AbilityID) *CardInstance {
	for _, c := range r.Special {
		if c.Card.Primary() == id {
			return c
		}
	}
	return nil
}

// residents returns every card occupying the row in removal order.
func (r *Row) residents() []*CardInstance {
	all := make([]*CardInstance, 0, len(r.Cards)+len(r.Special)+2)
	all = append(all, r.Cards...)
	all = append(all, r.Special...)
	if r.Curse != nil {
		all = append(all, r.Curse)
	}
	if r.Waylay != nil {
		all = append(all, r.Waylay)
	}
	return all
}

// UpdateScore recomputes every resident card, writes the new power onto it
// and returns the change in the cached total.
func (r *Row) UpdateScore(gs *GameState) int {
	env := scoreEnv{gs: gs, fx: &gs.Players[r.Owner()].RoundEffects}
	total := 0
	for _, c := range r.Cards {
		c.Power = env.calc(c, r)
		total += c.Power
	}
	delta := total - r.Total
	r.Total = total
	return delta
}

func (r *Row) reset() {
	r.Cards = nil
	r.Special = nil
	r.Curse = nil
	r.Waylay = nil
	r.Total = 0
	r.Effects = RowEffects{Bond: make(map[string]int)}
}
