package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, yamlBody string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadMissingFileAppliesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load on a missing file should not error: %v", err)
	}
	if cfg.Cache.PriceTTL != 60*time.Second {
		t.Errorf("PriceTTL default = %v, want 60s", cfg.Cache.PriceTTL)
	}
	if cfg.Cache.CandleTTL != 300*time.Second {
		t.Errorf("CandleTTL default = %v, want 300s", cfg.Cache.CandleTTL)
	}
	if cfg.Schedule.SweepCron != "0 */5 * * * *" {
		t.Errorf("SweepCron default = %q, want %q", cfg.Schedule.SweepCron, "0 */5 * * * *")
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := writeTempConfig(t, `
primary:
  base_url: https://api.example.test
  api_key: file-key
cache:
  price_ttl: 30s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Primary.BaseURL != "https://api.example.test" {
		t.Errorf("Primary.BaseURL = %q, want %q", cfg.Primary.BaseURL, "https://api.example.test")
	}
	if cfg.Primary.APIKey != "file-key" {
		t.Errorf("Primary.APIKey = %q, want %q", cfg.Primary.APIKey, "file-key")
	}
	if cfg.Cache.PriceTTL != 30*time.Second {
		t.Errorf("Cache.PriceTTL = %v, want 30s", cfg.Cache.PriceTTL)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeTempConfig(t, "primary:\n  api_key: file-key\n")
	t.Setenv("COINPAPRIKA_API_KEY", "env-key")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Primary.APIKey != "env-key" {
		t.Errorf("Primary.APIKey = %q, want env override %q", cfg.Primary.APIKey, "env-key")
	}
}

func TestApplyFlagsWinsOverYAMLAndEnv(t *testing.T) {
	cfg := &Config{}
	cfg.Database.SQLitePath = "from-yaml.db"
	cfg.ApplyFlags(true, "from-flag.db", "btc, eth ,sol")

	if !cfg.Debug {
		t.Error("ApplyFlags(debug=true) must set Debug")
	}
	if cfg.Database.SQLitePath != "from-flag.db" {
		t.Errorf("SQLitePath = %q, want flag value %q", cfg.Database.SQLitePath, "from-flag.db")
	}
	want := []string{"BTC", "ETH", "SOL"}
	if len(cfg.Schedule.Watchlist) != len(want) {
		t.Fatalf("Watchlist = %v, want %v", cfg.Schedule.Watchlist, want)
	}
	for i, s := range want {
		if cfg.Schedule.Watchlist[i] != s {
			t.Errorf("Watchlist[%d] = %q, want %q", i, cfg.Schedule.Watchlist[i], s)
		}
	}
	if cfg.Schedule.WarmCron != "0 */10 * * * *" {
		t.Errorf("WarmCron = %q, want the default warm schedule", cfg.Schedule.WarmCron)
	}
}

func TestApplyFlagsLeavesWarmCronUnsetWithoutWatchlist(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyFlags(false, "", "")
	if cfg.Schedule.WarmCron != "" {
		t.Errorf("WarmCron = %q, want empty when no watchlist is configured", cfg.Schedule.WarmCron)
	}
}
