package game

import (
	"fmt"
	"strings"
)

// AbilityID is the closed set of ability behaviours. Every value below
// abilityCount has exactly one entry in abilityTable.
type AbilityID int

const (
	AbilityNone AbilityID = iota

	// Unit abilities
	AbilityHero
	AbilitySpy
	AbilityMedic
	AbilityMuster
	AbilityBond
	AbilityMorale
	AbilityHorn
	AbilityScorchClose
	AbilityScorchRanged
	AbilityScorchSiege
	AbilityAvenger
	AbilityHunger
	AbilityInspire
	AbilityVeteran
	AbilityAdaptive
	AbilityFortify
	AbilitySchoolWolf
	AbilitySchoolCat
	AbilitySchoolGriffin
	AbilitySchoolBear
	AbilitySchoolViper
	AbilityWorshipper
	AbilityWorshipped
	AbilityImmortal
	AbilityResilience
	AbilityGuard
	AbilityNocturnal

	// Special cards
	AbilityDecoy
	AbilityScorch
	AbilityMardroeme
	AbilityLock
	AbilityWine
	AbilityShield
	AbilityCurse
	AbilityWaylay
	AbilityNightfall
	AbilitySeize
	AbilityBank
	AbilityEmbargo

	// Weather
	AbilityFrost
	AbilityFog
	AbilityRain
	AbilityStorm
	AbilityClear

	// Leaders
	AbilityLeaderFrost
	AbilityLeaderClear
	AbilityLeaderHornSiege
	AbilityLeaderDraw
	AbilityLeaderScorchSiege
	AbilityLeaderMedic
	AbilityLeaderScorchWard
	AbilityLeaderRally
	AbilityLeaderHalfWeather
	AbilityLeaderHex

	// Faction charges
	AbilityChargeRealms
	AbilityChargeNilfgaard
	AbilityChargeMonsters
	AbilityChargeScoiatael
	AbilityChargeSkellige

	abilityCount
)

// Ability is the record of lifecycle callbacks for one AbilityID. Any
// callback may be nil.
type Ability struct {
	Token string // catalog token
	Name  string

	// OnPlaced fires when a card becomes resident on a row unlocked.
	OnPlaced func(m *Match, card *CardInstance, row *Row)

	// OnRemoved fires when an unlocked card leaves a row, unless the removal
	// is a decoy swap.
	OnRemoved func(m *Match, card *CardInstance, row *Row)

	// CanActivate gates OnActivated for leaders, faction charges and instants.
	CanActivate func(m *Match, card *CardInstance, player int) bool

	// OnActivated runs only for player-initiated effects.
	OnActivated func(m *Match, card *CardInstance, player int) error

	// OnGameStart runs once for leaders before the coin toss.
	OnGameStart func(m *Match, card *CardInstance, player int)
}

// Lookup returns the table entry for id.
func (id AbilityID) Lookup() *Ability {
	if id <= AbilityNone || id >= abilityCount {
		return &noAbility
	}
	return &abilityTable[id]
}

func (id AbilityID) String() string {
	if id == AbilityNone {
		return "none"
	}
	return id.Lookup().Token
}

// IsSchool reports whether the ability is one of the witcher-school tags.
func (id AbilityID) IsSchool() bool {
	return id >= AbilitySchoolWolf && id <= AbilitySchoolViper
}

// IsScorch reports row-specific or global scorch.
func (id AbilityID) IsScorch() bool {
	switch id {
	case AbilityScorch, AbilityScorchClose, AbilityScorchRanged, AbilityScorchSiege, AbilityLeaderScorchSiege:
		return true
	}
	return false
}

var noAbility = Ability{Token: "none", Name: "None"}

var abilityByToken map[string]AbilityID

// ParseAbilities splits a space-separated catalog token list.
func ParseAbilities(tokens string) ([]AbilityID, error) {
	var ids []AbilityID
	for _, tok := range strings.Fields(tokens) {
		id, ok := abilityByToken[strings.ToLower(tok)]
		if !ok {
			return nil, fmt.Errorf("unknown ability token %q", tok)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// abilityTable is the fixed catalog. Behaviours live in abilities_*.go.
// It is filled in init because the behaviours themselves consult it.
var abilityTable [abilityCount]Ability

func init() {
	abilityTable = [abilityCount]Ability{
		AbilityNone: noAbility,

		AbilityHero:          {Token: "hero", Name: "Hero"},
		AbilitySpy:           {Token: "spy", Name: "Spy", OnPlaced: spyPlaced},
		AbilityMedic:         {Token: "medic", Name: "Medic", OnPlaced: medicPlaced},
		AbilityMuster:        {Token: "muster", Name: "Muster", OnPlaced: musterPlaced},
		AbilityBond:          {Token: "bond", Name: "Tight Bond"},
		AbilityMorale:        {Token: "morale", Name: "Morale Boost"},
		AbilityHorn:          {Token: "horn", Name: "Commander's Horn"},
		AbilityScorchClose:   {Token: "scorch_close", Name: "Scorch - Close", OnPlaced: rowScorchPlaced(LaneClose)},
		AbilityScorchRanged:  {Token: "scorch_ranged", Name: "Scorch - Ranged", OnPlaced: rowScorchPlaced(LaneRanged)},
		AbilityScorchSiege:   {Token: "scorch_siege", Name: "Scorch - Siege", OnPlaced: rowScorchPlaced(LaneSiege)},
		AbilityAvenger:       {Token: "avenger", Name: "Avenger", OnRemoved: avengerRemoved},
		AbilityHunger:        {Token: "hunger", Name: "Hunger", OnPlaced: hungerPlaced},
		AbilityInspire:       {Token: "inspire", Name: "Inspire"},
		AbilityVeteran:       {Token: "veteran", Name: "Veteran", OnPlaced: veteranPlaced},
		AbilityAdaptive:      {Token: "adaptive", Name: "Adaptive"},
		AbilityFortify:       {Token: "fortify", Name: "Fortify"},
		AbilitySchoolWolf:    {Token: "school_wolf", Name: "School of the Wolf"},
		AbilitySchoolCat:     {Token: "school_cat", Name: "School of the Cat"},
		AbilitySchoolGriffin: {Token: "school_griffin", Name: "School of the Griffin"},
		AbilitySchoolBear:    {Token: "school_bear", Name: "School of the Bear"},
		AbilitySchoolViper:   {Token: "school_viper", Name: "School of the Viper"},
		AbilityWorshipper:    {Token: "worshipper", Name: "Worshipper"},
		AbilityWorshipped:    {Token: "worshipped", Name: "Worshipped"},
		AbilityImmortal:      {Token: "immortal", Name: "Immortal", OnPlaced: immortalPlaced},
		AbilityResilience:    {Token: "resilience", Name: "Resilience"},
		AbilityGuard:         {Token: "guard", Name: "Guard"},
		AbilityNocturnal:     {Token: "nocturnal", Name: "Nocturnal"},

		AbilityDecoy:     {Token: "decoy", Name: "Decoy"},
		AbilityScorch:    {Token: "scorch", Name: "Scorch", OnActivated: scorchActivated},
		AbilityMardroeme: {Token: "mardroeme", Name: "Mardroeme", OnPlaced: mardroemePlaced},
		AbilityLock:      {Token: "lock", Name: "Lock"},
		AbilityWine:      {Token: "wine", Name: "Toussaint Wine"},
		AbilityShield:    {Token: "shield", Name: "Shield"},
		AbilityCurse:     {Token: "curse", Name: "Curse"},
		AbilityWaylay:    {Token: "waylay", Name: "Waylay"},
		AbilityNightfall: {Token: "nightfall", Name: "Nightfall", OnActivated: nightfallActivated},
		AbilitySeize:     {Token: "seize", Name: "Seize", CanActivate: seizeCanActivate, OnActivated: seizeActivated},
		AbilityBank:      {Token: "bank", Name: "Bank", OnActivated: bankActivated},
		AbilityEmbargo:   {Token: "embargo", Name: "Embargo", OnActivated: embargoActivated},

		AbilityFrost: {Token: "frost", Name: "Biting Frost"},
		AbilityFog:   {Token: "fog", Name: "Impenetrable Fog"},
		AbilityRain:  {Token: "rain", Name: "Torrential Rain"},
		AbilityStorm: {Token: "storm", Name: "Skellige Storm"},
		AbilityClear: {Token: "clear", Name: "Clear Weather"},

		AbilityLeaderFrost:       {Token: "leader_frost", Name: "Summon Frost", CanActivate: leaderFrostCan, OnActivated: leaderFrost},
		AbilityLeaderClear:       {Token: "leader_clear", Name: "Clear Skies", CanActivate: weatherActive, OnActivated: leaderClear},
		AbilityLeaderHornSiege:   {Token: "leader_horn_siege", Name: "Siege Horn", CanActivate: leaderHornSiegeCan, OnActivated: leaderHornSiege},
		AbilityLeaderDraw:        {Token: "leader_draw", Name: "Reinforcements", CanActivate: deckNotEmpty, OnActivated: leaderDraw},
		AbilityLeaderScorchSiege: {Token: "leader_scorch_siege", Name: "Siege Scorch", OnActivated: leaderScorchSiege},
		AbilityLeaderMedic:       {Token: "leader_medic", Name: "Field Surgeon", CanActivate: graveHasUnit, OnActivated: leaderMedic},
		AbilityLeaderScorchWard:  {Token: "leader_scorch_ward", Name: "Scorch Ward", OnActivated: leaderScorchWard},
		AbilityLeaderRally:       {Token: "leader_rally", Name: "Rally", CanActivate: leaderRallyCan, OnActivated: leaderRally},
		AbilityLeaderHalfWeather: {Token: "leader_half_weather", Name: "Weathered", OnGameStart: leaderHalfWeather},
		AbilityLeaderHex:         {Token: "leader_hex", Name: "Hexer"},

		AbilityChargeRealms:    {Token: "charge_realms", Name: "Muster the Realms", CanActivate: deckNotEmpty, OnActivated: chargeRealms},
		AbilityChargeNilfgaard: {Token: "charge_nilfgaard", Name: "Imperial Lock", CanActivate: opponentHasUnits, OnActivated: chargeNilfgaard},
		AbilityChargeMonsters:  {Token: "charge_monsters", Name: "Unearth", CanActivate: graveHasUnit, OnActivated: chargeMonsters},
		AbilityChargeScoiatael: {Token: "charge_scoiatael", Name: "Forest Skies", CanActivate: weatherActive, OnActivated: chargeScoiatael},
		AbilityChargeSkellige:  {Token: "charge_skellige", Name: "Mardroeme Rite", CanActivate: chargeSkelligeCan, OnActivated: chargeSkellige},
	}

	abilityByToken = make(map[string]AbilityID, abilityCount)
	for id := AbilityNone + 1; id < abilityCount; id++ {
		abilityByToken[abilityTable[id].Token] = id
	}
}

// factionCharge maps a faction to its activatable charge.
var factionCharge = map[Faction]AbilityID{
	FactionRealms:    AbilityChargeRealms,
	FactionNilfgaard: AbilityChargeNilfgaard,
	FactionMonsters:  AbilityChargeMonsters,
	FactionScoiatael: AbilityChargeScoiatael,
	FactionSkellige:  AbilityChargeSkellige,
}

// FactionCharge returns the charge ability of a faction.
func FactionCharge(f Faction) AbilityID {
	return factionCharge[f]
}
