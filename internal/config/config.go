// Package config loads runtime settings from GWENTX_* environment variables.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	clog "github.com/charmbracelet/log"

	"github.com/peterkuimelis/gwentx/internal/ai"
	"github.com/peterkuimelis/gwentx/internal/game"
)

// Prefix is prepended to every variable name.
const Prefix = "GWENTX_"

// Config is the process configuration shared by the gwentx binaries.
// Command-line flags override it field by field.
type Config struct {
	DecksFile       string        `env:"DECKS_FILE" envDefault:"decks.yaml"`
	CatalogFile     string        `env:"CATALOG_FILE"` // empty uses the embedded catalog
	DBPath          string        `env:"DB_PATH" envDefault:"gwentx.db"`
	Port            int           `env:"PORT" envDefault:"7777"`
	WebAddr         string        `env:"WEB_ADDR" envDefault:":8080"`
	DecisionTimeout time.Duration `env:"DECISION_TIMEOUT" envDefault:"2m"` // 0 waits forever
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	Rules game.Rules `envPrefix:"RULES_"`
	AI    ai.Config  `envPrefix:"AI_"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	return load(env.Options{Prefix: Prefix})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no binary can run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DecisionTimeout < 0 {
		return fmt.Errorf("decision timeout must not be negative")
	}
	if _, err := clog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	if c.AI.OpeningHandFloor < 0 || c.AI.MinPlaysPerRound < 0 {
		return fmt.Errorf("ai thresholds must not be negative")
	}
	return nil
}

// Logger returns a diagnostics logger writing to w at the configured level.
func (c Config) Logger(w io.Writer, prefix string) *clog.Logger {
	level, err := clog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = clog.InfoLevel
	}
	return clog.NewWithOptions(w, clog.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}
