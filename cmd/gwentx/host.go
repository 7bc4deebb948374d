package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/peterkuimelis/gwentx/internal/ai"
	gwentnet "github.com/peterkuimelis/gwentx/internal/net"
	"github.com/peterkuimelis/gwentx/internal/storage/sqlite"
)

type HostCmd struct {
	Deck    int           `default:"1" help:"Deck number to use (1-indexed from the deck file)"`
	Port    int           `default:"${port}" help:"TCP port to listen on"`
	Decks   string        `default:"${decks}" type:"path" help:"Path to the deck file"`
	DB      string        `default:"${db}" help:"SQLite file for match summaries (empty disables recording)"`
	Timeout time.Duration `default:"${timeout}" help:"Per-decision limit for the joiner (0 waits forever)"`
	AI      bool          `help:"Let the built-in policy play the host seat"`
	Seed    int64         `default:"0" help:"RNG seed (0 for random)"`
}

func (c *HostCmd) Run(rt *runtime) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, err := rt.catalog()
	if err != nil {
		return err
	}

	srv := &gwentnet.Server{
		DeckFile: c.Decks,
		Catalog:  cat,
		Port:     c.Port,
		HostDeck: c.Deck,
		Rules:    rt.cfg.Rules,
		Seed:     c.Seed,
		Timeout:  c.Timeout,
		Diag:     rt.diag,
	}
	if c.AI {
		srv.Host = ai.NewController(ai.NewPolicy(rt.cfg.AI, cat), rt.diag.WithPrefix("ai"))
	}

	if c.DB != "" {
		store, err := sqlite.Open(ctx, c.DB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		srv.Sink = store
	}

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
