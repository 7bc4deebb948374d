package game

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/cards.yaml
var defaultCatalogYAML []byte

// CatalogEntry is one card definition in the catalog YAML.
type CatalogEntry struct {
	Name      string `yaml:"name"`
	Power     int    `yaml:"power"`
	Faction   string `yaml:"faction"`
	Abilities string `yaml:"abilities"` // space-separated ability tokens
	Row       string `yaml:"row"`
	Copies    int    `yaml:"copies"`
	Target    string `yaml:"target,omitempty"`
	Filename  string `yaml:"filename"`
}

// Catalog is the fixed table of card definitions keyed by card id.
type Catalog struct {
	cards map[string]*Card
	keys  []string
}

// LoadCatalog parses catalog YAML. Any bad entry rejects the whole catalog.
func LoadCatalog(data []byte) (*Catalog, error) {
	var raw map[string]CatalogEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &CatalogError{Reason: fmt.Sprintf("parse YAML: %v", err)}
	}
	if len(raw) == 0 {
		return nil, &CatalogError{Reason: "no cards"}
	}

	cat := &Catalog{cards: make(map[string]*Card, len(raw))}
	for key, e := range raw {
		card, err := buildCard(key, e)
		if err != nil {
			return nil, err
		}
		cat.cards[key] = card
		cat.keys = append(cat.keys, key)
	}
	sort.Strings(cat.keys)

	for _, key := range cat.keys {
		c := cat.cards[key]
		if c.Target == "" {
			continue
		}
		needsCard := c.Has(AbilityAvenger) || c.Has(AbilityHunger) || c.Has(AbilityGuard)
		if _, ok := cat.cards[c.Target]; needsCard && !ok {
			return nil, &CatalogError{Key: key, Reason: fmt.Sprintf("target %q is not in the catalog", c.Target)}
		}
	}
	return cat, nil
}

func buildCard(key string, e CatalogEntry) (*Card, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, &CatalogError{Key: key, Reason: "missing name"}
	}
	faction, err := ParseFaction(e.Faction)
	if err != nil {
		return nil, &CatalogError{Key: key, Reason: err.Error()}
	}
	class, err := ParseRowClass(e.Row)
	if err != nil {
		return nil, &CatalogError{Key: key, Reason: err.Error()}
	}
	abilities, err := ParseAbilities(e.Abilities)
	if err != nil {
		return nil, &CatalogError{Key: key, Reason: err.Error()}
	}
	if e.Power < 0 {
		return nil, &CatalogError{Key: key, Reason: "negative power"}
	}
	copies := e.Copies
	if copies <= 0 {
		copies = 1
	}
	card := &Card{
		Key:       key,
		Name:      e.Name,
		Faction:   faction,
		BasePower: e.Power,
		Abilities: abilities,
		Class:     class,
		Copies:    copies,
		Target:    e.Target,
		Filename:  e.Filename,
	}
	card.Hero = card.Has(AbilityHero)
	if (class == ClassSpecial || class == ClassWeather || class == ClassLeader) && len(abilities) == 0 {
		return nil, &CatalogError{Key: key, Reason: fmt.Sprintf("%s card needs an ability", class)}
	}
	return card, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the embedded card catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		cat, err := LoadCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// Lookup returns the card definition for key.
func (c *Catalog) Lookup(key string) (*Card, bool) {
	card, ok := c.cards[key]
	return card, ok
}

// Cards returns every definition ordered by key.
func (c *Catalog) Cards() []*Card {
	out := make([]*Card, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.cards[k])
	}
	return out
}

// Leaders returns the leader definitions of a faction.
func (c *Catalog) Leaders(f Faction) []*Card {
	var out []*Card
	for _, card := range c.Cards() {
		if card.Class == ClassLeader && card.Faction == f {
			out = append(out, card)
		}
	}
	return out
}

// FirstWith returns the first non-unit definition whose primary ability is id.
func (c *Catalog) FirstWith(id AbilityID) *Card {
	for _, k := range c.keys {
		card := c.cards[k]
		if !card.IsUnit() && card.Class != ClassLeader && card.Primary() == id {
			return card
		}
	}
	return nil
}
