package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	clog "github.com/charmbracelet/log"

	"github.com/peterkuimelis/gwentx/internal/config"
	"github.com/peterkuimelis/gwentx/internal/game"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Host     HostCmd          `cmd:"" help:"Start a game server and play seat 0"`
	Join     JoinCmd          `cmd:"" help:"Connect to a game server and play seat 1"`
	Sim      SimCmd           `cmd:"" help:"Play policy-vs-policy matches and record them"`
	History  HistoryCmd       `cmd:"" help:"List recorded matches"`
	Validate ValidateCmd      `cmd:"" help:"Check the card catalog and deck file"`
}

// runtime is bound into every command's Run method.
type runtime struct {
	cfg  config.Config
	diag *clog.Logger
}

// catalog returns the configured catalog, falling back to the embedded one.
func (r *runtime) catalog() (*game.Catalog, error) {
	if r.cfg.CatalogFile == "" {
		return game.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(r.cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return game.LoadCatalog(data)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rt := &runtime{cfg: cfg, diag: cfg.Logger(os.Stderr, "gwentx")}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gwentx"),
		kong.Description("Two-player card battle over TCP, with a built-in opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
			"decks":   cfg.DecksFile,
			"db":      cfg.DBPath,
			"port":    strconv.Itoa(cfg.Port),
			"timeout": cfg.DecisionTimeout.String(),
		},
		kong.Bind(rt),
	)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
