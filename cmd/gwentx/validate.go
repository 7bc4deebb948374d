package main

import (
	"fmt"

	"github.com/peterkuimelis/gwentx/internal/game"
)

type ValidateCmd struct {
	Decks string `default:"${decks}" type:"path" help:"Path to the deck file"`
}

func (c *ValidateCmd) Run(rt *runtime) error {
	cat, err := rt.catalog()
	if err != nil {
		return err
	}
	fmt.Printf("Catalog: %d cards\n", len(cat.Cards()))

	decks, err := game.ParseDeckFile(c.Decks, cat)
	if err != nil {
		return err
	}
	for i, d := range decks {
		leader := "none"
		if d.Leader != nil {
			leader = d.Leader.Name
		}
		fmt.Printf("%d. %s (%s) leader %s, %d cards, %d units\n",
			i+1, d.Name, d.Faction, leader, len(d.Cards), d.Units())
	}
	return nil
}
