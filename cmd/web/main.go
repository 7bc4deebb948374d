package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/peterkuimelis/gwentx/internal/config"
	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/storage/sqlite"
	"github.com/peterkuimelis/gwentx/internal/web"
)

type CLI struct {
	Addr  string `default:"${addr}" help:"HTTP address to listen on"`
	Art   string `default:"./card_art" help:"Path to the card art directory"`
	Decks string `default:"${decks}" type:"path" help:"Path to the deck file"`
	DB    string `default:"${db}" help:"SQLite file with match summaries (empty hides history)"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("gwentx-web"),
		kong.Description("Browser UI bridging to a gwentx game server"),
		kong.UsageOnError(),
		kong.Vars{
			"addr":  cfg.WebAddr,
			"decks": cfg.DecksFile,
			"db":    cfg.DBPath,
		},
	)
	kctx.FatalIfErrorf(run(cli, cfg))
}

func run(cli CLI, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	diag := cfg.Logger(os.Stderr, "gwentx-web")

	wc := web.Config{
		ArtDir:    cli.Art,
		DecksFile: cli.Decks,
		Diag:      diag,
	}
	if cfg.CatalogFile != "" {
		data, err := os.ReadFile(cfg.CatalogFile)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		if wc.Catalog, err = game.LoadCatalog(data); err != nil {
			return err
		}
	}
	if cli.DB != "" {
		store, err := sqlite.Open(ctx, cli.DB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		wc.History = store
	}

	srv, err := web.NewServer(wc)
	if err != nil {
		return err
	}
	diag.Info("web UI listening", "addr", cli.Addr)
	return srv.ListenAndServe(ctx, cli.Addr)
}
