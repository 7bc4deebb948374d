package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	MinDeckUnits    = 22
	MaxDeckSpecials = 10
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name    string      `yaml:"name"`
	Faction string      `yaml:"faction"`
	Leader  string      `yaml:"leader"`
	Cards   []CardEntry `yaml:"cards"`
}

// CardEntry represents a card id and its count in a deck.
type CardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// Deck is a validated deck list ready to build a match from.
type Deck struct {
	Name    string
	Faction Faction
	Leader  *Card
	Cards   []*Card
}

// Units returns the number of unit cards in the deck.
func (d *Deck) Units() int {
	n := 0
	for _, c := range d.Cards {
		if c.IsUnit() {
			n++
		}
	}
	return n
}

// BuildDeck validates a deck entry against the catalog.
func (c *Catalog) BuildDeck(entry DeckEntry) (*Deck, error) {
	fail := func(format string, args ...any) error {
		return &DeckError{Deck: entry.Name, Reason: fmt.Sprintf(format, args...)}
	}

	faction, err := ParseFaction(entry.Faction)
	if err != nil {
		return nil, fail("%v", err)
	}
	if faction == FactionNeutral {
		return nil, fail("a deck needs a non-neutral faction")
	}
	leader, ok := c.Lookup(entry.Leader)
	if !ok {
		return nil, fail("unknown leader %q", entry.Leader)
	}
	if leader.Class != ClassLeader {
		return nil, fail("%q is not a leader", entry.Leader)
	}
	if leader.Faction != faction {
		return nil, fail("leader %q belongs to %s, deck is %s", entry.Leader, leader.Faction, faction)
	}

	deck := &Deck{Name: entry.Name, Faction: faction, Leader: leader}
	counts := make(map[string]int)
	units, specials := 0, 0
	for _, ce := range entry.Cards {
		card, ok := c.Lookup(ce.ID)
		if !ok {
			return nil, fail("unknown card %q", ce.ID)
		}
		if ce.Count <= 0 {
			return nil, fail("card %q has count %d", ce.ID, ce.Count)
		}
		if card.Class == ClassLeader {
			return nil, fail("leader %q listed as a deck card", ce.ID)
		}
		if card.Faction != FactionNeutral && card.Faction != faction {
			return nil, fail("card %q belongs to %s", ce.ID, card.Faction)
		}
		counts[ce.ID] += ce.Count
		if counts[ce.ID] > card.Copies {
			return nil, fail("card %q requested %d times, %d allowed", ce.ID, counts[ce.ID], card.Copies)
		}
		for i := 0; i < ce.Count; i++ {
			deck.Cards = append(deck.Cards, card)
		}
		if card.IsSpecial() {
			specials += ce.Count
		} else {
			units += ce.Count
		}
	}
	if units < MinDeckUnits {
		return nil, fail("%d unit cards, at least %d required", units, MinDeckUnits)
	}
	if specials > MaxDeckSpecials {
		return nil, fail("%d special cards, at most %d allowed", specials, MaxDeckSpecials)
	}
	return deck, nil
}

// ParseDecks parses deck YAML and validates every deck against the catalog.
func ParseDecks(data []byte, cat *Catalog) ([]*Deck, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	if len(df.Decks) == 0 {
		return nil, fmt.Errorf("parse deck YAML: no decks")
	}
	decks := make([]*Deck, 0, len(df.Decks))
	for _, entry := range df.Decks {
		d, err := cat.BuildDeck(entry)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// ParseDeckFile reads and validates a YAML deck file.
func ParseDeckFile(path string, cat *Catalog) ([]*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDecks(data, cat)
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, cat *Catalog, n int) (*Deck, error) {
	decks, err := ParseDeckFile(path, cat)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(decks) {
		return nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(decks))
	}
	return decks[n-1], nil
}
