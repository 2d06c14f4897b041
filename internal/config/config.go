package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Primary struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"primary"`
	Secondary struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"secondary"`
	Cache struct {
		PriceTTL  time.Duration `yaml:"price_ttl"`
		CandleTTL time.Duration `yaml:"candle_ttl"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		SweepCron string   `yaml:"sweep_cron"`
		Watchlist []string `yaml:"watchlist"`
		WarmCron  string   `yaml:"warm_cron"`
	} `yaml:"schedule"`
	Debug bool `yaml:"debug"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	if v := os.Getenv("COINPAPRIKA_API_KEY"); v != "" {
		cfg.Primary.APIKey = v
	}
	if v := os.Getenv("COINPAPRIKA_BASE_URL"); v != "" {
		cfg.Primary.BaseURL = v
	}
	if v := os.Getenv("GECKOTERMINAL_BASE_URL"); v != "" {
		cfg.Secondary.BaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if cfg.Cache.PriceTTL == 0 {
		cfg.Cache.PriceTTL = 60 * time.Second
	}
	if cfg.Cache.CandleTTL == 0 {
		cfg.Cache.CandleTTL = 300 * time.Second
	}
	if cfg.Schedule.SweepCron == "" {
		cfg.Schedule.SweepCron = "0 */5 * * * *"
	}

	return cfg, nil
}

// ApplyFlags layers CLI flag values over whatever Load already resolved;
// flags win over both the YAML file and the environment.
func (c *Config) ApplyFlags(debug bool, sqlitePath, warmWatchlist string) {
	if debug {
		c.Debug = true
	}
	if sqlitePath != "" {
		c.Database.SQLitePath = sqlitePath
	}
	if warmWatchlist != "" {
		c.Schedule.Watchlist = strings.Split(warmWatchlist, ",")
		for i, s := range c.Schedule.Watchlist {
			c.Schedule.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	if len(c.Schedule.Watchlist) > 0 && c.Schedule.WarmCron == "" {
		c.Schedule.WarmCron = "0 */10 * * * *"
	}
}
