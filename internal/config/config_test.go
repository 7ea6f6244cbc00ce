package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9000
  request_timeout_seconds: 30

market:
  provider: mock
  timeout_seconds: 10
  cache_ttl_seconds: 120
  history_days: 90

directory:
  symbols: [AAPL, MSFT, GOOGL]
  refresh_interval_hours: 12
  refresh_workers: 4
  refresh_on_start: true

ai:
  model: "gpt-4o"
  temperature: 0.5

logging:
  level: debug
  format: console
`
	cfg, err := Load(writeTempConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Market.Provider != "mock" {
		t.Errorf("Unexpected provider: %q", cfg.Market.Provider)
	}
	if len(cfg.Directory.Symbols) != 3 {
		t.Errorf("Expected 3 symbols, got %d", len(cfg.Directory.Symbols))
	}
	if !cfg.Directory.RefreshOnStart {
		t.Error("Expected refresh_on_start true")
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("Unexpected model: %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0.5 {
		t.Errorf("Unexpected temperature: %v", cfg.AI.Temperature)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Unexpected addr: %q", cfg.Addr())
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Unexpected default port: %d", cfg.Server.Port)
	}
	if cfg.Market.Provider != "yahoo" {
		t.Errorf("Unexpected default provider: %q", cfg.Market.Provider)
	}
	if cfg.Market.CacheTTL != 300 {
		t.Errorf("Unexpected default cache TTL: %d", cfg.Market.CacheTTL)
	}
	if cfg.Directory.RefreshInterval != 6 {
		t.Errorf("Unexpected default refresh interval: %d", cfg.Directory.RefreshInterval)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected default model: %q", cfg.AI.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed on defaults: %v", err)
	}
}

func TestExplicitZeroTemperaturePreserved(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "ai:\n  temperature: 0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0 {
		t.Errorf("explicit temperature 0 was replaced: %v", cfg.AI.Temperature)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate rejected temperature 0: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")
	t.Setenv("MARKET_PROVIDER", "mock")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("OPENAI_API_KEY not applied: %q", cfg.AI.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("PORT not applied: %d", cfg.Server.Port)
	}
	if cfg.Market.Provider != "mock" {
		t.Errorf("MARKET_PROVIDER not applied: %q", cfg.Market.Provider)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown provider", func(c *Config) { c.Market.Provider = "bloomberg" }},
		{"zero workers", func(c *Config) { c.Directory.RefreshWorkers = 0 }},
		{"negative temperature", func(c *Config) { *c.AI.Temperature = -0.1 }},
		{"temperature above range", func(c *Config) { *c.AI.Temperature = 2.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted a bad config")
			}
		})
	}
}
