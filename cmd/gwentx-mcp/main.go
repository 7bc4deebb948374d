package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/gwentx/internal/config"
	"github.com/peterkuimelis/gwentx/internal/game"
	gwentmcp "github.com/peterkuimelis/gwentx/internal/mcp"
	"github.com/peterkuimelis/gwentx/internal/storage/sqlite"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Decks   string           `default:"${decks}" type:"path" help:"Path to the deck file"`
	Port    int              `default:"${port}" help:"TCP port for a human opponent"`
	DB      string           `default:"${db}" help:"SQLite file for match summaries (empty disables recording)"`
	Timeout time.Duration    `default:"${timeout}" help:"Per-decision limit for a human opponent (0 waits forever)"`
	Seed    int64            `default:"0" help:"RNG seed (0 for random)"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("gwentx-mcp"),
		kong.Description("MCP server that seats an agent in a gwentx match"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
			"decks":   cfg.DecksFile,
			"db":      cfg.DBPath,
			"port":    strconv.Itoa(cfg.Port),
			"timeout": cfg.DecisionTimeout.String(),
		},
	)
	kctx.FatalIfErrorf(run(cli, cfg))
}

func run(cli CLI, cfg config.Config) error {
	// stdout carries the MCP stream, so diagnostics go to stderr.
	diag := cfg.Logger(os.Stderr, "gwentx-mcp")

	cat := game.DefaultCatalog()
	if cfg.CatalogFile != "" {
		data, err := os.ReadFile(cfg.CatalogFile)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		if cat, err = game.LoadCatalog(data); err != nil {
			return err
		}
	}

	base := gwentmcp.SessionConfig{
		DecksFile: cli.Decks,
		Catalog:   cat,
		Rules:     cfg.Rules,
		AI:        cfg.AI,
		Port:      cli.Port,
		Timeout:   cli.Timeout,
		Seed:      cli.Seed,
		Diag:      diag,
	}
	if cli.DB != "" {
		store, err := sqlite.Open(context.Background(), cli.DB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		base.Sink = store
	}

	tools := gwentmcp.NewTools(base)
	defer tools.Close()

	s := server.NewMCPServer("gwentx", version)
	tools.Register(s)

	diag.Info("serving MCP on stdio", "decks", cli.Decks, "port", cli.Port)
	return server.ServeStdio(s)
}
