package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host           string `yaml:"host"`
		Port           int    `yaml:"port"`
		RequestTimeout int    `yaml:"request_timeout_seconds"`
	} `yaml:"server"`
	Market struct {
		Provider    string `yaml:"provider"` // yahoo | mock
		Timeout     int    `yaml:"timeout_seconds"`
		CacheTTL    int    `yaml:"cache_ttl_seconds"`
		HistoryDays int    `yaml:"history_days"`
		Proxy       string `yaml:"proxy"`
	} `yaml:"market"`
	Directory struct {
		Symbols         []string `yaml:"symbols"`
		RefreshInterval int      `yaml:"refresh_interval_hours"`
		RefreshTimeout  int      `yaml:"refresh_timeout_seconds"`
		RefreshWorkers  int      `yaml:"refresh_workers"`
		RefreshOnStart  bool     `yaml:"refresh_on_start"`
	} `yaml:"directory"`
	AI struct {
		APIKey    string `yaml:"api_key"`
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
		// Pointer so an explicit `temperature: 0` survives defaulting;
		// zero is a meaningful setting here, unlike the other knobs.
		Temperature *float64 `yaml:"temperature"`
		Timeout     int      `yaml:"timeout_seconds"`
	} `yaml:"ai"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is tolerated; env overrides and
// defaults still apply.
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
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MARKET_PROVIDER"); v != "" {
		cfg.Market.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Market.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60
	}
	if cfg.Market.Provider == "" {
		cfg.Market.Provider = "yahoo"
	}
	if cfg.Market.Timeout == 0 {
		cfg.Market.Timeout = 15
	}
	if cfg.Market.CacheTTL == 0 {
		cfg.Market.CacheTTL = 300
	}
	if cfg.Market.HistoryDays == 0 {
		cfg.Market.HistoryDays = 180
	}
	if cfg.Directory.RefreshInterval == 0 {
		cfg.Directory.RefreshInterval = 6
	}
	if cfg.Directory.RefreshTimeout == 0 {
		cfg.Directory.RefreshTimeout = 120
	}
	if cfg.Directory.RefreshWorkers == 0 {
		cfg.Directory.RefreshWorkers = 10
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 1500
	}
	if cfg.AI.Temperature == nil {
		temperature := 0.3
		cfg.AI.Temperature = &temperature
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 30
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be positive")
	}
	switch c.Market.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("market.provider %q is not one of yahoo, mock", c.Market.Provider)
	}
	if c.Market.Timeout <= 0 {
		return fmt.Errorf("market.timeout_seconds must be positive")
	}
	if c.Market.HistoryDays <= 0 {
		return fmt.Errorf("market.history_days must be positive")
	}
	if c.Directory.RefreshInterval <= 0 {
		return fmt.Errorf("directory.refresh_interval_hours must be positive")
	}
	if c.Directory.RefreshWorkers <= 0 {
		return fmt.Errorf("directory.refresh_workers must be positive")
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive")
	}
	if t := *c.AI.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("ai.temperature %.2f out of range [0, 2]", t)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout_seconds must be positive")
	}
	return nil
}

// MarketTimeout returns the market-data client timeout.
func (c *Config) MarketTimeout() time.Duration {
	return time.Duration(c.Market.Timeout) * time.Second
}

// CacheTTL returns the market-data cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Market.CacheTTL) * time.Second
}

// RefreshTimeout bounds one directory refresh pass.
func (c *Config) RefreshTimeout() time.Duration {
	return time.Duration(c.Directory.RefreshTimeout) * time.Second
}

// AITimeout returns the chat-completion client timeout.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.Timeout) * time.Second
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
