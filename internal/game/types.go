package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Faction int

const (
	FactionNeutral Faction = iota
	FactionRealms
	FactionNilfgaard
	FactionMonsters
	FactionScoiatael
	FactionSkellige
)

var factionNames = map[Faction]string{
	FactionNeutral:   "neutral",
	FactionRealms:    "realms",
	FactionNilfgaard: "nilfgaard",
	FactionMonsters:  "monsters",
	FactionScoiatael: "scoiatael",
	FactionSkellige:  "skellige",
}

func (f Faction) String() string {
	if name, ok := factionNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFaction maps a catalog faction tag to a Faction.
func ParseFaction(tag string) (Faction, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for f, name := range factionNames {
		if name == tag {
			return f, nil
		}
	}
	return FactionNeutral, fmt.Errorf("unknown faction %q", tag)
}

// Lane is one of the three combat rows on a side.
type Lane int

const (
	LaneClose Lane = iota
	LaneRanged
	LaneSiege
)

func (l Lane) String() string {
	switch l {
	case LaneClose:
		return "Close"
	case LaneRanged:
		return "Ranged"
	case LaneSiege:
		return "Siege"
	default:
		return "None"
	}
}

type RowClass int

const (
	ClassClose RowClass = iota
	ClassRanged
	ClassSiege
	ClassAgile       // Close | Ranged
	ClassFlex        // Close | Ranged | Siege
	ClassCloseSiege  // Close | Siege
	ClassRangedSiege // Ranged | Siege
	ClassLeader
	ClassWeather
	ClassSpecial
)

var rowClassNames = map[RowClass]string{
	ClassClose:       "close",
	ClassRanged:      "ranged",
	ClassSiege:       "siege",
	ClassAgile:       "agile",
	ClassFlex:        "flex",
	ClassCloseSiege:  "close_siege",
	ClassRangedSiege: "ranged_siege",
	ClassLeader:      "leader",
	ClassWeather:     "weather",
	ClassSpecial:     "special",
}

func (c RowClass) String() string {
	if name, ok := rowClassNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseRowClass maps a catalog row token to a RowClass.
func ParseRowClass(tag string) (RowClass, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for c, name := range rowClassNames {
		if name == tag {
			return c, nil
		}
	}
	return ClassSpecial, fmt.Errorf("unknown row class %q", tag)
}

// Lanes returns the lanes a card of this class may occupy.
func (c RowClass) Lanes() []Lane {
	switch c {
	case ClassClose:
		return []Lane{LaneClose}
	case ClassRanged:
		return []Lane{LaneRanged}
	case ClassSiege:
		return []Lane{LaneSiege}
	case ClassAgile:
		return []Lane{LaneClose, LaneRanged}
	case ClassFlex:
		return []Lane{LaneClose, LaneRanged, LaneSiege}
	case ClassCloseSiege:
		return []Lane{LaneClose, LaneSiege}
	case ClassRangedSiege:
		return []Lane{LaneRanged, LaneSiege}
	default:
		return nil
	}
}

// IsUnit reports whether the class places a combat unit.
func (c RowClass) IsUnit() bool {
	return len(c.Lanes()) > 0
}

// --- Card definition (static, from the catalog) ---

type Card struct {
	Key       string
	Name      string
	Faction   Faction
	BasePower int
	Abilities []AbilityID // the last entry is the primary ability
	Class     RowClass
	Hero      bool
	Copies    int
	Target    string // CardKey consulted by bond, avenger, muster, hunger and guard
	Filename  string
}

func (c *Card) String() string {
	return c.Name
}

// Has reports whether the card carries the ability anywhere in its list.
func (c *Card) Has(id AbilityID) bool {
	for _, a := range c.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

// Primary returns the card's displayed ability, or AbilityNone.
func (c *Card) Primary() AbilityID {
	if len(c.Abilities) == 0 {
		return AbilityNone
	}
	return c.Abilities[len(c.Abilities)-1]
}

// IsUnit reports whether the card is a combat unit (hero or not).
func (c *Card) IsUnit() bool {
	return c.Class.IsUnit()
}

// IsWeather reports whether the card goes to the weather zone.
func (c *Card) IsWeather() bool {
	return c.Class == ClassWeather
}

// IsSpecial reports whether the card counts against the special/weather deck limit.
func (c *Card) IsSpecial() bool {
	return c.Class == ClassSpecial || c.Class == ClassWeather
}

// IsToken reports whether the card sits in a row's special sub-zone.
func (c *Card) IsToken() bool {
	if c.Class != ClassSpecial {
		return false
	}
	switch c.Primary() {
	case AbilityHorn, AbilityMardroeme, AbilityWine, AbilityShield, AbilityLock:
		return true
	}
	return false
}

// IsTrap reports whether the card occupies a row's trap slot.
func (c *Card) IsTrap() bool {
	return c.Class == ClassSpecial && (c.Primary() == AbilityCurse || c.Primary() == AbilityWaylay)
}

// --- Stat modifiers ---

// Modifier is one entry of a card's modifier stack. Bonus is added after the
// veteran step; Floor (when HasFloor) is enforced after every other step.
type Modifier struct {
	Source   int // instance ID of the granting card
	Bonus    int
	HasFloor bool
	Floor    int
}

// --- Zone types ---

type ZoneType int

const (
	ZoneDeck ZoneType = iota
	ZoneHand
	ZoneGrave
	ZoneRow
	ZoneWeather
	ZoneLeader
	ZoneBanished // minted tokens and transformed cards leave the game
)

func (z ZoneType) String() string {
	switch z {
	case ZoneDeck:
		return "Deck"
	case ZoneHand:
		return "Hand"
	case ZoneGrave:
		return "Grave"
	case ZoneRow:
		return "Row"
	case ZoneWeather:
		return "Weather"
	case ZoneLeader:
		return "Leader"
	case ZoneBanished:
		return "Banished"
	default:
		return "Unknown"
	}
}

// --- CardInstance (runtime card in a pile, row or zone) ---

type CardInstance struct {
	Card       *Card
	ID         int // unique instance ID within a match
	Owner      int // player index (0 or 1) whose deck the card belongs to
	Controller int // player index whose side the card currently scores for

	Power  int
	Locked bool

	// Location
	Zone ZoneType
	Row  *Row // set while resident in a row (unit, token or trap)

	Immortal     int // round-ends the card still survives
	VeteranTurns int // owner turns accrued while resident, capped at 3
	Modifiers    []Modifier

	residency   int  // bumped on every placement so delayed hooks can detect a move
	decoyTarget bool // suppresses exactly one removal trigger
	noRemove    bool // stays resident through the current round-end cleanup
	resilient   bool // resilience persistence already spent
	minted      bool // created during play rather than built from a deck list
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s (%d)", ci.Card.Name, ci.Power)
}

// DisplayString returns a human-readable description for the event log.
func (ci *CardInstance) DisplayString() string {
	if ci == nil {
		return "(empty)"
	}
	if ci.Card.IsUnit() {
		s := fmt.Sprintf("%s [%d]", ci.Card.Name, ci.Power)
		if ci.Card.Hero {
			s += " hero"
		}
		if ci.Locked {
			s += " locked"
		}
		return s
	}
	return ci.Card.Name
}

// Has reports whether the instance's card carries the ability.
func (ci *CardInstance) Has(id AbilityID) bool {
	return ci.Card.Has(id)
}

// VeteranBonus returns the triangular veteran accrual: +1, +3, +6.
func (ci *CardInstance) VeteranBonus() int {
	n := ci.VeteranTurns
	if n > 3 {
		n = 3
	}
	return n * (n + 1) / 2
}

// AddModifier pushes a modifier onto the card's stack.
func (ci *CardInstance) AddModifier(mod Modifier) {
	ci.Modifiers = append(ci.Modifiers, mod)
}

// RemoveModifiersBySource removes all modifiers from the given source card.
func (ci *CardInstance) RemoveModifiersBySource(sourceID int) {
	filtered := ci.Modifiers[:0]
	for _, mod := range ci.Modifiers {
		if mod.Source != sourceID {
			filtered = append(filtered, mod)
		}
	}
	ci.Modifiers = filtered
}

// resetRuntime restores the invariant for cards leaving the board.
func (ci *CardInstance) resetRuntime() {
	ci.Power = ci.Card.BasePower
	ci.Locked = false
	ci.Row = nil
	ci.Controller = ci.Owner
	ci.VeteranTurns = 0
	ci.Modifiers = nil
	ci.decoyTarget = false
	ci.noRemove = false
	ci.resilient = false
	ci.Immortal = 0
}

// --- Action types ---

type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionLeader
	ActionFaction
	ActionPass
	ActionConcede
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayCard:
		return "Play Card"
	case ActionLeader:
		return "Activate Leader"
	case ActionFaction:
		return "Activate Faction"
	case ActionPass:
		return "Pass"
	case ActionConcede:
		return "Concede"
	default:
		return "Unknown"
	}
}

// NoTargetRow marks a PlayCard action without a target row.
const NoTargetRow = -1

// Action represents a player intent. Human seats and the decision policy
// produce the same shape.
type Action struct {
	Type   ActionType
	Player int
	Card   *CardInstance // card being played (PlayCard)
	Row    int           // target board row index, or NoTargetRow
	Desc   string        // human-readable description
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// Same reports whether two actions describe the same intent.
func (a Action) Same(b Action) bool {
	if a.Type != b.Type || a.Player != b.Player || a.Row != b.Row {
		return false
	}
	if a.Card == nil || b.Card == nil {
		return a.Card == b.Card
	}
	return a.Card.ID == b.Card.ID
}
