package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string `yaml:"addr"`
		RequestsPerSec int    `yaml:"requests_per_sec"`
	} `yaml:"server"`
	Ledger struct {
		StartingCash float64 `yaml:"starting_cash"`
		MaxDriftPct  float64 `yaml:"max_drift_pct"`
	} `yaml:"ledger"`
	Market struct {
		Seed int64 `yaml:"seed"`
	} `yaml:"market"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REQUESTS_PER_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RequestsPerSec = n
		}
	}
	if v := os.Getenv("STARTING_CASH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ledger.StartingCash = f
		}
	}
	if v := os.Getenv("MAX_DRIFT_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ledger.MaxDriftPct = f
		}
	}
	if v := os.Getenv("MARKET_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Market.Seed = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestsPerSec <= 0 {
		c.Server.RequestsPerSec = 20
	}
	if c.Ledger.StartingCash <= 0 {
		c.Ledger.StartingCash = 100000
	}
	if c.Ledger.MaxDriftPct <= 0 {
		c.Ledger.MaxDriftPct = 2.0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
