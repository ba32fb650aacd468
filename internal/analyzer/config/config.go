package config

import (
	"forum-sentiment-analyzer/pkg/config"
)

// Watson holds the configuration for the natural language analysis API.
type Watson struct {
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	TokenEndpoint       string `mapstructure:"token_endpoint"`
	APIEndpoint         string `mapstructure:"api_endpoint"`
	MaxKeywords         int    `mapstructure:"max_keywords"`
	MaxConcepts         int    `mapstructure:"max_concepts"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Proxy holds outbound proxy configuration for the analysis API client.
type Proxy struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Type     string `mapstructure:"type"`
	Bypass   string `mapstructure:"bypass"`
}

// Analyzer holds scheduling and batching configuration.
type Analyzer struct {
	Schedule        string `mapstructure:"schedule"`
	SummaryPageSize int    `mapstructure:"summary_page_size"`
	RunLockTTL      string `mapstructure:"run_lock_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the analyzer service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Watson   Watson          `mapstructure:"watson"`
	Proxy    Proxy           `mapstructure:"proxy"`
	Analyzer Analyzer        `mapstructure:"analyzer"`
	Telegram Telegram        `mapstructure:"telegram"`
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Watson.MaxKeywords == 0 {
		cfg.Watson.MaxKeywords = 10
	}
	if cfg.Watson.MaxConcepts == 0 {
		cfg.Watson.MaxConcepts = 10
	}
	if cfg.Watson.MaxRequestPerMinute == 0 {
		cfg.Watson.MaxRequestPerMinute = 30
	}
	if cfg.Analyzer.SummaryPageSize == 0 {
		cfg.Analyzer.SummaryPageSize = 1000
	}
}
