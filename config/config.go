package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete simulation configuration
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Market     MarketConfig     `json:"market" yaml:"market"`
	Decision   DecisionConfig   `json:"decision" yaml:"decision"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID           string  `json:"id" yaml:"id"`
	InitialCash  float64 `json:"initial_cash" yaml:"initial_cash"`
	SnapshotFile string  `json:"snapshot_file,omitempty" yaml:"snapshot_file,omitempty"`
}

// MarketConfig selects the symbols and candle window fed to the
// decision provider each tick.
type MarketConfig struct {
	Symbols     []string `json:"symbols" yaml:"symbols"`
	Interval    string   `json:"interval" yaml:"interval"`
	CandleCount int      `json:"candle_count" yaml:"candle_count"`
	APIURL      string   `json:"api_url,omitempty" yaml:"api_url,omitempty"`
}

// DecisionConfig selects and configures the decision provider. The
// API token is never stored here; it comes from the environment.
type DecisionConfig struct {
	Provider string `json:"provider" yaml:"provider"` // "random" or "llm"
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Seed     int64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// SimulationConfig contains the loop parameters
type SimulationConfig struct {
	LoopInterval string `json:"loop_interval" yaml:"loop_interval"` // e.g., "3m", "30s"
	MaxTicks     int    `json:"max_ticks,omitempty" yaml:"max_ticks,omitempty"`
}

// ParseLoopInterval converts the loop interval to a time.Duration
func (s SimulationConfig) ParseLoopInterval() (time.Duration, error) {
	if s.LoopInterval == "" {
		return 3 * time.Minute, nil
	}
	return time.ParseDuration(s.LoopInterval)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv" or "sqlite"
	DecisionsFile string `json:"decisions_file,omitempty" yaml:"decisions_file,omitempty"`
	EquityFile    string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if len(c.Market.Symbols) == 0 {
		return fmt.Errorf("market.symbols is required")
	}
	for _, symbol := range c.Market.Symbols {
		if strings.TrimSpace(symbol) == "" {
			return fmt.Errorf("market.symbols contains an empty symbol")
		}
	}
	if c.Market.Interval == "" {
		return fmt.Errorf("market.interval is required")
	}
	if c.Market.CandleCount <= 0 {
		return fmt.Errorf("market.candle_count must be positive")
	}
	if c.Decision.Provider != "random" && c.Decision.Provider != "llm" {
		return fmt.Errorf("decision.provider must be 'random' or 'llm'")
	}
	if _, err := c.Simulation.ParseLoopInterval(); err != nil {
		return fmt.Errorf("simulation.loop_interval: %w", err)
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.DecisionsFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal decisions_file and equity_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:           "ARENA-001",
			InitialCash:  10000,
			SnapshotFile: "./portfolio.json",
		},
		Market: MarketConfig{
			Symbols:     []string{"BTC", "ETH"},
			Interval:    "3m",
			CandleCount: 10,
		},
		Decision: DecisionConfig{
			Provider: "random",
		},
		Simulation: SimulationConfig{
			LoopInterval: "3m",
		},
		Journal: JournalConfig{
			Type:          "csv",
			DecisionsFile: "./decisions.csv",
			EquityFile:    "./equity.csv",
		},
	}
}

// APIToken returns the model API key from the environment. A .env file
// in the working directory is loaded first when present; real
// environment variables win over it.
func APIToken() string {
	_ = godotenv.Load()
	return os.Getenv("OPENAI_API_KEY")
}
