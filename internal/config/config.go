// Package config handles application configuration management.
//
// Configuration is resolved from an optional YAML file, HIREON_* environment
// variables, and flag bindings, in ascending priority.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `mapstructure:"listen-addr"`

	// DataDir is the base directory for persisted state (index artifacts).
	DataDir string `mapstructure:"data-dir"`

	Database  DatabaseConfig  `mapstructure:"database"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Log       LogConfig       `mapstructure:"log"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Path  string `mapstructure:"path"`
	Debug bool   `mapstructure:"debug"`
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	// APIKey for the OpenAI embedding endpoint (OPENAI_API_KEY).
	APIKey string `mapstructure:"api-key"`
	// Model name (default: text-embedding-3-small).
	Model string `mapstructure:"model"`
	// CacheTTL for the query embedding cache.
	CacheTTL time.Duration `mapstructure:"cache-ttl"`
}

// LLMConfig holds completion provider configuration.
type LLMConfig struct {
	AnthropicAPIKey string `mapstructure:"anthropic-api-key"`
	OpenAIAPIKey    string `mapstructure:"openai-api-key"`

	// DefaultProvider: "anthropic" or "openai" (auto-detected if empty).
	DefaultProvider string `mapstructure:"provider"`
	// DefaultModel is provider-specific; empty uses the provider default.
	DefaultModel string `mapstructure:"model"`
	// RequestsPerMinute caps completion calls (0 = library default).
	RequestsPerMinute int `mapstructure:"requests-per-minute"`
}

// VectorConfig holds similarity index settings.
type VectorConfig struct {
	// Backend: "chromem" (default) or "brute" (full cosine scan).
	Backend string `mapstructure:"backend"`
	// DataDir overrides where index artifacts are persisted.
	DataDir string `mapstructure:"data-dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Load reads configuration from the given file (optional), the environment,
// and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	baseDir := filepath.Join(xdg.DataHome, "hireon")

	v.SetDefault("listen-addr", ":8080")
	v.SetDefault("data-dir", baseDir)
	v.SetDefault("database.path", filepath.Join(baseDir, "hireon.db"))
	v.SetDefault("database.debug", false)
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.cache-ttl", 5*time.Minute)
	v.SetDefault("vector.backend", "chromem")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetEnvPrefix("HIREON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Provider keys follow the conventional variable names.
	_ = v.BindEnv("embedding.api-key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.openai-api-key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.anthropic-api-key", "ANTHROPIC_API_KEY")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Vector.DataDir == "" {
		cfg.Vector.DataDir = filepath.Join(cfg.DataDir, "index")
	}

	return &cfg, nil
}
