package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/capsulec/internal/domain/schema"
	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

// Config holds all application configuration.
type Config struct {
	Catalog CatalogConfig
	Compile CompileConfig
	Output  OutputConfig
	Logging LogConfig
}

// CatalogConfig locates capsule definition files.
type CatalogConfig struct {
	Dir     string `envconfig:"CAPSULE_CATALOG_DIR" default:"capsules"`
	Pattern string `envconfig:"CAPSULE_CATALOG_PATTERN" default:"**/*.{yaml,yml,json,toml,hcl}"`
	Watch   bool   `envconfig:"CAPSULE_CATALOG_WATCH" default:"false"`
	// MaxInputBytes caps catalog and composition files
	MaxInputBytes int `envconfig:"CAPSULE_MAX_INPUT_BYTES" default:"1048576"`
}

// CompileConfig tunes validation and the orchestrator.
type CompileConfig struct {
	PropMode    string `envconfig:"CAPSULE_PROP_MODE" default:"strict"`
	Parallelism int    `envconfig:"CAPSULE_PARALLELISM" default:"4"`
	CacheSize   int    `envconfig:"CAPSULE_CACHE_SIZE" default:"128"`
	Hash        string `envconfig:"CAPSULE_HASH" default:"sha256"`
}

// OutputConfig controls where generated projects are written.
type OutputConfig struct {
	Dir     string `envconfig:"CAPSULE_OUT_DIR" default:"build"`
	Archive string `envconfig:"CAPSULE_ARCHIVE" default:"none"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Dir:           "capsules",
			Pattern:       "**/*.{yaml,yml,json,toml,hcl}",
			Watch:         false,
			MaxInputBytes: utils.MaxCompositionSize,
		},
		Compile: CompileConfig{
			PropMode:    string(schema.ModeStrict),
			Parallelism: 4,
			CacheSize:   128,
			Hash:        string(utils.SHA256),
		},
		Output: OutputConfig{
			Dir:     "build",
			Archive: "none",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if _, err := schema.ParseMode(c.Compile.PropMode); err != nil {
		return fmt.Errorf("CAPSULE_PROP_MODE: %w", err)
	}
	if _, err := utils.ParseHashAlgorithm(c.Compile.Hash); err != nil {
		return fmt.Errorf("CAPSULE_HASH: %w", err)
	}
	if c.Compile.Parallelism < 1 {
		return fmt.Errorf("CAPSULE_PARALLELISM must be at least 1, got %d", c.Compile.Parallelism)
	}
	if c.Compile.CacheSize < 0 {
		return fmt.Errorf("CAPSULE_CACHE_SIZE cannot be negative, got %d", c.Compile.CacheSize)
	}
	if c.Catalog.MaxInputBytes <= 0 {
		return fmt.Errorf("CAPSULE_MAX_INPUT_BYTES must be positive, got %d", c.Catalog.MaxInputBytes)
	}
	return nil
}
