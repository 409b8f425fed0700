// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Pair describes the traded pair and the entry rule applied to the leader's
// order-flow imbalance.
type Pair struct {
	Leader            string  `yaml:"leader"`
	Follower          string  `yaml:"follower"`
	EntryThreshold    float64 `yaml:"entry_threshold"`
	AllowShortSelling bool    `yaml:"allow_short_selling"`
}

// Data configures the tick store and the historical trade ETL.
type Data struct {
	DBPath     string `yaml:"db_path"`
	Exchange   string `yaml:"exchange"`
	FetchLimit int    `yaml:"fetch_limit"`
}

// Feed selects the live market data provider.
type Feed struct {
	Provider       string `yaml:"provider"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

// Risk encodes guard-rails for how much size a signal may commit.
type Risk struct {
	MaxNotionalPerTrade float64 `yaml:"max_notional_per_trade"`
}

// Backtest holds replay settings for the event-driven simulation.
type Backtest struct {
	InitialCapital float64 `yaml:"initial_capital"`
	SignalsPath    string  `yaml:"signals_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Pair     Pair     `yaml:"pair"`
	Data     Data     `yaml:"data"`
	Feed     Feed     `yaml:"feed"`
	Risk     Risk     `yaml:"risk"`
	Backtest Backtest `yaml:"backtest"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
