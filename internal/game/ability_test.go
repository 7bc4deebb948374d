package game

import (
	"errors"
	"testing"
)

func TestAbilityTableIsExhaustive(t *testing.T) {
	seen := make(map[string]AbilityID)
	for id := AbilityNone + 1; id < abilityCount; id++ {
		ab := id.Lookup()
		if ab.Token == "" || ab.Name == "" {
			t.Errorf("ability %d has no token or name", id)
			continue
		}
		if prev, dup := seen[ab.Token]; dup {
			t.Errorf("token %q used by %d and %d", ab.Token, prev, id)
		}
		seen[ab.Token] = id
	}
}

func TestLookupOutOfRange(t *testing.T) {
	for _, id := range []AbilityID{AbilityNone, -3, abilityCount, abilityCount + 7} {
		ab := id.Lookup()
		if ab.OnPlaced != nil || ab.OnActivated != nil {
			t.Errorf("id %d should resolve to the empty ability", id)
		}
	}
	if AbilityNone.String() != "none" {
		t.Errorf("expected none, got %s", AbilityNone.String())
	}
}

func TestEveryLeaderHasBehaviour(t *testing.T) {
	for id := AbilityLeaderFrost; id <= AbilityLeaderHex; id++ {
		ab := id.Lookup()
		// Hexer is a passive read by curse interception.
		if id == AbilityLeaderHex {
			continue
		}
		if ab.OnActivated == nil && ab.OnGameStart == nil {
			t.Errorf("leader ability %s has no behaviour", ab.Token)
		}
	}
	for f := range factionNames {
		if f == FactionNeutral {
			continue
		}
		if FactionCharge(f).Lookup().OnActivated == nil {
			t.Errorf("faction %s has no charge", f)
		}
	}
}

func TestParseAbilities(t *testing.T) {
	ids, err := ParseAbilities("hero  Medic")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != AbilityHero || ids[1] != AbilityMedic {
		t.Fatalf("unexpected ids %v", ids)
	}

	ids, err = ParseAbilities("")
	if err != nil || len(ids) != 0 {
		t.Errorf("empty token list: ids=%v err=%v", ids, err)
	}

	if _, err := ParseAbilities("hero teleport"); err == nil {
		t.Error("expected an error for an unknown token")
	}
}

func TestPrimaryIsLastToken(t *testing.T) {
	c := unitCard("Medic Hero", 7, ClassRanged, AbilityHero, AbilityMedic)
	if c.Primary() != AbilityMedic {
		t.Errorf("expected medic primary, got %s", c.Primary())
	}
	if !c.Hero {
		t.Error("hero flag derives from the ability list")
	}
	if (&Card{}).Primary() != AbilityNone {
		t.Error("a card without abilities has no primary")
	}
}

func TestCardClassification(t *testing.T) {
	tests := []struct {
		card                          *Card
		unit, weather, special, token bool
		trap                          bool
	}{
		{card: footman, unit: true},
		{card: weatherCard("Fog", AbilityFog), weather: true, special: true},
		{card: specialCard("Horn", AbilityHorn), special: true, token: true},
		{card: specialCard("Lock", AbilityLock), special: true, token: true},
		{card: specialCard("Curse", AbilityCurse), special: true, trap: true},
		{card: specialCard("Ambush", AbilityWaylay), special: true, trap: true},
		{card: specialCard("Decoy", AbilityDecoy), special: true},
		{card: specialCard("Scorch", AbilityScorch), special: true},
	}
	for _, tt := range tests {
		c := tt.card
		if c.IsUnit() != tt.unit || c.IsWeather() != tt.weather || c.IsSpecial() != tt.special ||
			c.IsToken() != tt.token || c.IsTrap() != tt.trap {
			t.Errorf("%s: unit=%v weather=%v special=%v token=%v trap=%v", c.Name,
				c.IsUnit(), c.IsWeather(), c.IsSpecial(), c.IsToken(), c.IsTrap())
		}
	}
}

func TestIllegalWrapsSentinel(t *testing.T) {
	err := illegal("row %d is full", 3)
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("expected ErrIllegalAction, got %v", err)
	}
	if err.Error() != "illegal action: row 3 is full" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
