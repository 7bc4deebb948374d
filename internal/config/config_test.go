package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gwentx/internal/ai"
	"github.com/peterkuimelis/gwentx/internal/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "decks.yaml", cfg.DecksFile)
	assert.Equal(t, 7777, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.DecisionTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, game.DefaultRules(), cfg.Rules)
	assert.Equal(t, ai.DefaultConfig(), cfg.AI)
}

func TestLoadNestedPrefixes(t *testing.T) {
	t.Setenv("GWENTX_PORT", "9000")
	t.Setenv("GWENTX_DECISION_TIMEOUT", "30s")
	t.Setenv("GWENTX_RULES_LIVES", "3")
	t.Setenv("GWENTX_RULES_SCORCH_THRESHOLD", "12")
	t.Setenv("GWENTX_AI_SEED", "7")
	t.Setenv("GWENTX_AI_PASS_LEAD_MARGIN", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.DecisionTimeout)
	assert.Equal(t, 3, cfg.Rules.Lives)
	assert.Equal(t, 12, cfg.Rules.ScorchThreshold)
	assert.Equal(t, int64(7), cfg.AI.Seed)
	assert.Equal(t, 20, cfg.AI.PassLeadMargin)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unparsable", func(t *testing.T) {
		t.Setenv("GWENTX_RULES_LIVES", "many")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})
	t.Run("port range", func(t *testing.T) {
		t.Setenv("GWENTX_PORT", "70000")
		_, err := Load()
		assert.ErrorContains(t, err, "out of range")
	})
	t.Run("log level", func(t *testing.T) {
		t.Setenv("GWENTX_LOG_LEVEL", "chatty")
		_, err := Load()
		assert.ErrorContains(t, err, "log level")
	})
}

func TestLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn"}
	logger := cfg.Logger(&buf, "test")

	logger.Info("hidden")
	logger.Warn("shown", "key", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "test")
}
