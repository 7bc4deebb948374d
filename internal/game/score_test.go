package game

import (
	"testing"

	"github.com/peterkuimelis/gwentx/internal/log"
)

var (
	footman    = unitCard("Footman", 5, ClassClose)
	hornbearer = unitCard("Hornbearer", 4, ClassClose, AbilityHorn)
	drummer    = unitCard("Drummer", 3, ClassClose, AbilityMorale)
)

func frost(m *Match) {
	ci := m.State.CreateCardInstance(weatherCard("Test Frost", AbilityFrost), 1)
	m.playWeather(ci, 1)
}

func assertPower(t *testing.T, ci *CardInstance, want int) {
	t.Helper()
	if ci.Power != want {
		t.Errorf("%s: expected power %d, got %d", ci.Card.Name, want, ci.Power)
	}
}

func assertRowTotal(t *testing.T, m *Match, side int, lane Lane, want int) {
	t.Helper()
	if got := m.State.Board.Row(side, lane).Total; got != want {
		t.Errorf("row %s: expected total %d, got %d", RowName(RowIndex(side, lane)), want, got)
	}
}

func TestHornDoublesOtherUnits(t *testing.T) {
	m := boardMatch(t)
	hb := place(m, 0, hornbearer, LaneClose)
	fm := place(m, 0, footman, LaneClose)

	assertPower(t, hb, 4)
	assertPower(t, fm, 10)
	assertRowTotal(t, m, 0, LaneClose, 14)
	if m.State.Players[0].Score != 14 {
		t.Errorf("expected side score 14, got %d", m.State.Players[0].Score)
	}

	events := m.Logger.(*log.MemoryLogger).EventsOfType(log.EventRowScoreChanged)
	if len(events) == 0 || events[len(events)-1].Value != 14 {
		t.Errorf("expected a final row score event with total 14, got %+v", events)
	}
}

func TestLockSuppressesAbilities(t *testing.T) {
	m := boardMatch(t)
	row := m.State.Board.Row(0, LaneClose)
	tok := m.mint(m.tokenCard(AbilityLock), 1)
	m.addToRow(tok, row)
	if row.Effects.Lock != 1 {
		t.Fatalf("expected lock counter 1, got %d", row.Effects.Lock)
	}

	// A unit without abilities does not spend the lock.
	fm := place(m, 0, footman, LaneClose)
	if fm.Locked || row.Effects.Lock != 1 {
		t.Fatalf("vanilla unit should not consume the lock")
	}

	hb := place(m, 0, hornbearer, LaneClose)
	if !hb.Locked {
		t.Fatal("expected Hornbearer to be locked")
	}
	if row.Effects.Horn != 0 {
		t.Errorf("locked horn must not count, horn counter %d", row.Effects.Horn)
	}
	if row.Effects.Lock != 0 || len(row.Special) != 0 {
		t.Errorf("lock token should be spent, lock=%d special=%d", row.Effects.Lock, len(row.Special))
	}
	if tok.Zone != ZoneBanished {
		t.Errorf("minted lock token should leave the game, zone %s", tok.Zone)
	}
	assertPower(t, fm, 5)
	assertRowTotal(t, m, 0, LaneClose, 9)
}

func TestLockedUnitStillTakesWeather(t *testing.T) {
	m := boardMatch(t)
	m.addToRow(m.mint(m.tokenCard(AbilityLock), 1), m.State.Board.Row(0, LaneClose))
	hb := place(m, 0, hornbearer, LaneClose)
	frost(m)
	assertPower(t, hb, 1)
}

func TestWeatherAppliesBeforeHornAndMorale(t *testing.T) {
	m := boardMatch(t)
	frost(m)
	fm := place(m, 0, footman, LaneClose)
	hb := place(m, 0, hornbearer, LaneClose)
	assertPower(t, hb, 1)
	assertPower(t, fm, 2)
	assertRowTotal(t, m, 0, LaneClose, 3)

	m2 := boardMatch(t)
	frost(m2)
	fm2 := place(m2, 0, footman, LaneClose)
	dr := place(m2, 0, drummer, LaneClose)
	assertPower(t, fm2, 2) // 1 after weather, +1 morale
	assertPower(t, dr, 1)  // morale excludes itself
}

func TestMoraleWithoutWeather(t *testing.T) {
	m := boardMatch(t)
	fm := place(m, 0, footman, LaneClose)
	dr := place(m, 0, drummer, LaneClose)
	assertPower(t, fm, 6)
	assertPower(t, dr, 3)
}

func TestBondMultipliesAfterWeather(t *testing.T) {
	blue := bondCard("Blue Guard", 4)
	m := boardMatch(t)
	a := place(m, 0, blue, LaneClose)
	b := place(m, 0, blue, LaneClose)
	assertPower(t, a, 8)
	assertPower(t, b, 8)

	frost(m)
	assertPower(t, a, 2)
	assertRowTotal(t, m, 0, LaneClose, 4)
}

func TestHeroIgnoresEveryModifier(t *testing.T) {
	hero := unitCard("Champion", 10, ClassClose, AbilityHero)
	m := boardMatch(t)
	frost(m)
	place(m, 0, hornbearer, LaneClose)
	h := place(m, 0, hero, LaneClose)
	assertPower(t, h, 10)
}

func TestSpyMultiplier(t *testing.T) {
	spy := unitCard("Informant", 5, ClassClose, AbilitySpy)
	m := boardMatch(t)
	s := place(m, 1, spy, LaneClose)
	assertPower(t, s, 5)

	m.State.Rules.SpyMultiplier = 0.5
	if got := CalcCardScore(m.State, s, s.Row); got != 2 {
		t.Errorf("expected floor(2.5) = 2, got %d", got)
	}
}

func TestFortifyOnlyWhenAlone(t *testing.T) {
	keep := unitCard("Keep", 4, ClassSiege, AbilityFortify)
	m := boardMatch(t)
	k := place(m, 0, keep, LaneSiege)
	assertPower(t, k, 14)

	place(m, 0, unitCard("Sapper", 1, ClassSiege), LaneSiege)
	assertPower(t, k, 4)
}

func TestSchoolBonusCountsSide(t *testing.T) {
	wolf := unitCard("Wolf", 5, ClassClose, AbilitySchoolWolf)
	m := boardMatch(t)
	a := place(m, 0, wolf, LaneClose)
	assertPower(t, a, 5)
	b := place(m, 0, wolf, LaneClose)
	assertPower(t, a, 7)
	assertPower(t, b, 7)

	// A school unit on another row of the same side still counts.
	ranged := unitCard("Wolf Archer", 3, ClassRanged, AbilitySchoolWolf)
	c := place(m, 0, ranged, LaneRanged)
	assertPower(t, a, 9)
	assertPower(t, c, 7)
}

func TestWorshippedScalesWithWorshippers(t *testing.T) {
	m := boardMatch(t)
	idol := place(m, 0, unitCard("Idol", 6, ClassRanged, AbilityWorshipped), LaneRanged)
	assertPower(t, idol, 6)
	place(m, 0, unitCard("Acolyte", 2, ClassClose, AbilityWorshipper), LaneClose)
	place(m, 0, unitCard("Acolyte", 2, ClassClose, AbilityWorshipper), LaneClose)
	assertPower(t, idol, 8)

	m.State.Rules.WorshipBoost = 3
	if got := CalcCardScore(m.State, idol, idol.Row); got != 12 {
		t.Errorf("expected 6 + 2*3 = 12, got %d", got)
	}
}

func TestWineAddsTwo(t *testing.T) {
	m := boardMatch(t)
	fm := place(m, 0, footman, LaneClose)
	m.addToRow(m.mint(m.tokenCard(AbilityWine), 0), m.State.Board.Row(0, LaneClose))
	assertPower(t, fm, 7)
}

func TestInspireTakesHighestBase(t *testing.T) {
	m := boardMatch(t)
	bard := place(m, 0, unitCard("Bard", 5, ClassRanged, AbilityInspire), LaneRanged)
	minstrel := place(m, 0, unitCard("Minstrel", 2, ClassRanged, AbilityInspire), LaneRanged)
	assertPower(t, bard, 5)
	assertPower(t, minstrel, 5)
}

func TestVeteranBonusIsTriangular(t *testing.T) {
	ci := &CardInstance{Card: unitCard("Sergeant", 3, ClassClose, AbilityVeteran)}
	for turns, want := range []int{0, 1, 3, 6, 6} {
		ci.VeteranTurns = turns
		if got := ci.VeteranBonus(); got != want {
			t.Errorf("turns=%d: expected bonus %d, got %d", turns, want, got)
		}
	}
}

func TestNocturnalIgnoresWeatherAtNightfall(t *testing.T) {
	m := boardMatch(t)
	frost(m)
	w := place(m, 0, unitCard("Wraith", 4, ClassClose, AbilityNocturnal), LaneClose)
	assertPower(t, w, 1)

	nightfallActivated(m, m.State.CreateCardInstance(specialCard("Dusk", AbilityNightfall), 0), 0)
	assertPower(t, w, 4)
}

func TestAdaptiveAndHalvedWeather(t *testing.T) {
	m := boardMatch(t)
	frost(m)
	scout := place(m, 0, unitCard("Scout", 6, ClassClose, AbilityAdaptive), LaneClose)
	assertPower(t, scout, 2)

	m2 := boardMatch(t)
	leaderHalfWeather(m2, nil, 0)
	frost(m2)
	big := place(m2, 0, unitCard("Oak", 9, ClassClose), LaneClose)
	small := place(m2, 0, unitCard("Sapling", 3, ClassClose, AbilityAdaptive), LaneClose)
	assertPower(t, big, 4)
	assertPower(t, small, 2)

	// Halving never goes below the clamp, even for weak units.
	twig := place(m2, 0, unitCard("Twig", 0, ClassClose), LaneClose)
	seedling := place(m2, 0, unitCard("Seedling", 1, ClassClose, AbilityAdaptive), LaneClose)
	assertPower(t, twig, 1)
	assertPower(t, seedling, 2)
	assertPower(t, big, 4)

	// The opponent's rows keep the plain clamp.
	other := place(m2, 1, unitCard("Oak", 9, ClassClose), LaneClose)
	assertPower(t, other, 1)
}

func TestFloorModifierWinsLast(t *testing.T) {
	m := boardMatch(t)
	fm := place(m, 0, footman, LaneClose)
	fm.AddModifier(Modifier{Source: 99, HasFloor: true, Floor: 5})
	frost(m)
	assertPower(t, fm, 5)

	fm.RemoveModifiersBySource(99)
	m.refreshScores()
	assertPower(t, fm, 1)
}

func TestNonUnitsScoreZero(t *testing.T) {
	m := boardMatch(t)
	decoy := m.State.CreateCardInstance(specialCard("Scarecrow", AbilityDecoy), 0)
	m.addToRow(decoy, m.State.Board.Row(0, LaneClose))
	if got := CalcCardScore(m.State, decoy, decoy.Row); got != 0 {
		t.Errorf("decoy should score 0, got %d", got)
	}
	if n := m.State.Board.Row(0, LaneClose).UnitCount(); n != 0 {
		t.Errorf("decoy must not count as a unit, got %d", n)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	m := boardMatch(t)
	place(m, 0, hornbearer, LaneClose)
	fm := place(m, 0, footman, LaneClose)
	first := CalcCardScore(m.State, fm, fm.Row)
	for i := 0; i < 5; i++ {
		if got := CalcCardScore(m.State, fm, fm.Row); got != first {
			t.Fatalf("evaluation %d: expected %d, got %d", i, first, got)
		}
	}
	before := m.State.Players[0].Score
	m.refreshScores()
	if m.State.Players[0].Score != before {
		t.Errorf("refresh without change moved score %d -> %d", before, m.State.Players[0].Score)
	}
}

func TestProjectRowTotalDoesNotMutate(t *testing.T) {
	m := boardMatch(t)
	place(m, 0, hornbearer, LaneClose)
	row := m.State.Board.Row(0, LaneClose)
	probe := m.State.CreateCardInstance(footman, 0)
	probe.Zone = ZoneHand

	if got := ProjectRowTotal(m.State, row, probe); got != 14 {
		t.Errorf("expected projection 14, got %d", got)
	}
	if row.Total != 4 || len(row.Cards) != 1 || row.Effects.Horn != 1 {
		t.Errorf("projection mutated the row: total=%d cards=%d horn=%d", row.Total, len(row.Cards), row.Effects.Horn)
	}
	if probe.Zone != ZoneHand || probe.Row != nil {
		t.Errorf("projection mutated the probe")
	}

	horn := m.State.CreateCardInstance(specialCard("Bugle", AbilityHorn), 0)
	if got := ProjectRowTotal(m.State, m.State.Board.Row(0, LaneRanged), horn); got != 0 {
		t.Errorf("horn on an empty row projects 0, got %d", got)
	}
}

func TestProjectRowTotalHonoursLock(t *testing.T) {
	m := boardMatch(t)
	row := m.State.Board.Row(0, LaneClose)
	place(m, 0, footman, LaneClose)
	m.addToRow(m.mint(m.tokenCard(AbilityLock), 1), row)

	probe := m.State.CreateCardInstance(hornbearer, 0)
	if got := ProjectRowTotal(m.State, row, probe); got != 9 {
		t.Errorf("locked horn projects 5 + 4 = 9, got %d", got)
	}
	if row.Effects.Lock != 1 {
		t.Errorf("projection spent the lock")
	}
}

func TestProjectWeatherTotal(t *testing.T) {
	m := boardMatch(t)
	place(m, 0, footman, LaneClose)
	place(m, 0, footman, LaneClose)
	row := m.State.Board.Row(0, LaneClose)
	if got := ProjectWeatherTotal(m.State, row, true); got != 2 {
		t.Errorf("expected 2 under weather, got %d", got)
	}
	if row.Effects.Weather || row.Total != 10 {
		t.Errorf("projection mutated the row")
	}
}
