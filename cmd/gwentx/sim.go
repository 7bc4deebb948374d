package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/gwentx/internal/ai"
	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/storage/sqlite"
)

type SimCmd struct {
	Matches  int    `short:"n" default:"100" help:"Number of matches to play"`
	DeckA    int    `name:"deck-a" default:"1" help:"Deck number for seat 0"`
	DeckB    int    `name:"deck-b" default:"2" help:"Deck number for seat 1"`
	Decks    string `default:"${decks}" type:"path" help:"Path to the deck file"`
	DB       string `default:"${db}" help:"SQLite file for match summaries (empty disables recording)"`
	Parallel int    `short:"p" default:"4" help:"Matches played concurrently"`
	Seed     int64  `default:"0" help:"Base RNG seed (0 for random)"`
}

// tally counts match outcomes by winner seat; index 2 holds draws.
type tally struct {
	mu   sync.Mutex
	wins [3]int
}

func (t *tally) add(winner int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if winner < 0 {
		t.wins[2]++
		return
	}
	t.wins[winner]++
}

func (c *SimCmd) Run(rt *runtime) error {
	if c.Matches < 1 {
		return fmt.Errorf("--matches must be at least 1")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, err := rt.catalog()
	if err != nil {
		return err
	}
	deckA, err := game.DeckByNumber(c.Decks, cat, c.DeckA)
	if err != nil {
		return fmt.Errorf("deck a: %w", err)
	}
	deckB, err := game.DeckByNumber(c.Decks, cat, c.DeckB)
	if err != nil {
		return fmt.Errorf("deck b: %w", err)
	}

	var sink game.SummarySink
	if c.DB != "" {
		store, err := sqlite.Open(ctx, c.DB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		sink = store
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	diag := rt.diag.WithPrefix("sim")
	diag.Info("simulating", "matches", c.Matches, "a", deckA.Name, "b", deckB.Name, "seed", seed)

	var results tally
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Parallel, 1))
	for i := 0; i < c.Matches; i++ {
		matchSeed := seed + int64(i)*3
		g.Go(func() error {
			winner, err := c.play(gctx, rt, cat, [2]*game.Deck{deckA, deckB}, sink, matchSeed)
			if err != nil {
				return fmt.Errorf("match %d (seed %d): %w", i+1, matchSeed, err)
			}
			results.add(winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("%d matches in %s\n", c.Matches, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  %-24s %5d wins (%.1f%%)\n", deckA.Name, results.wins[0], pct(results.wins[0], c.Matches))
	fmt.Printf("  %-24s %5d wins (%.1f%%)\n", deckB.Name, results.wins[1], pct(results.wins[1], c.Matches))
	fmt.Printf("  %-24s %5d\n", "draws", results.wins[2])
	return nil
}

func (c *SimCmd) play(ctx context.Context, rt *runtime, cat *game.Catalog, decks [2]*game.Deck, sink game.SummarySink, seed int64) (int, error) {
	var seats [2]game.PlayerController
	for i := range seats {
		cfg := rt.cfg.AI
		cfg.Seed = seed + int64(i) + 1
		seats[i] = ai.NewController(ai.NewPolicy(cfg, cat), nil)
	}
	m, err := game.NewMatch(game.MatchConfig{
		Decks:   decks,
		Catalog: cat,
		Rules:   rt.cfg.Rules,
		Diag:    rt.diag,
		Sink:    sink,
		Seed:    seed,
	}, seats[0], seats[1])
	if err != nil {
		return 0, err
	}
	return m.Run(ctx)
}

func pct(n, total int) float64 {
	return 100 * float64(n) / float64(total)
}
