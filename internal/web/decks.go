package web

import (
	"github.com/peterkuimelis/gwentx/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number   int      `json:"number"`
	Name     string   `json:"name"`
	Faction  string   `json:"faction"`
	Leader   string   `json:"leader,omitempty"`
	Units    int      `json:"units"`
	Specials int      `json:"specials"`
	Cards    []string `json:"cards"` // unique names in list order
}

func deckInfos(path string, cat *game.Catalog) ([]DeckInfo, error) {
	decks, err := game.ParseDeckFile(path, cat)
	if err != nil {
		return nil, err
	}
	out := make([]DeckInfo, 0, len(decks))
	for i, d := range decks {
		di := DeckInfo{
			Number:   i + 1,
			Name:     d.Name,
			Faction:  d.Faction.String(),
			Units:    d.Units(),
			Specials: len(d.Cards) - d.Units(),
		}
		if d.Leader != nil {
			di.Leader = d.Leader.Name
		}
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		out = append(out, di)
	}
	return out, nil
}
