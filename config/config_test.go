package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTripYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")

	cfg := Default()
	cfg.Account.InitialCash = 25000
	cfg.Market.Symbols = []string{"BTC", "ETH", "SOL"}
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 25000.0, loaded.Account.InitialCash, 1e-9)
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, loaded.Market.Symbols)
}

func TestSaveLoadRoundTripJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.json")

	cfg := Default()
	cfg.Decision.Provider = "llm"
	cfg.Decision.Model = "gpt-4.1-mini"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "llm", loaded.Decision.Provider)
	assert.Equal(t, "gpt-4.1-mini", loaded.Decision.Model)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	cfg := Default()
	cfg.Account.InitialCash = 0
	// SaveToFile does not validate; LoadFromFile must.
	require.NoError(t, cfg.SaveToFile(path))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Market.Symbols = nil }},
		{"empty symbol", func(c *Config) { c.Market.Symbols = []string{"BTC", " "} }},
		{"no interval", func(c *Config) { c.Market.Interval = "" }},
		{"bad candle count", func(c *Config) { c.Market.CandleCount = 0 }},
		{"unknown provider", func(c *Config) { c.Decision.Provider = "oracle" }},
		{"bad loop interval", func(c *Config) { c.Simulation.LoopInterval = "sometimes" }},
		{"unknown journal", func(c *Config) { c.Journal.Type = "parquet" }},
		{"csv without paths", func(c *Config) { c.Journal.DecisionsFile = "" }},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite"; c.Journal.DBPath = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseLoopInterval(t *testing.T) {
	s := SimulationConfig{}
	d, err := s.ParseLoopInterval()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, d)

	s.LoopInterval = "30s"
	d, err = s.ParseLoopInterval()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}
