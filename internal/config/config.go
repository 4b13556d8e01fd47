// Package config loads the sheet configuration from defaults, an optional
// YAML file and SHEET_ prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// StorageConfig selects where characters are kept
type StorageConfig struct {
	// Driver is one of "memory", "file", "redis" or "sqlite".
	Driver string `mapstructure:"driver"`
	// Dir holds one JSON document per character for the file driver.
	Dir string `mapstructure:"dir"`
	// Path is the database file for the sqlite driver.
	Path string `mapstructure:"path"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CatalogConfig points at custom equipment and the SRD fallback
type CatalogConfig struct {
	// Path is a YAML equipment file; empty means no custom equipment.
	Path string `mapstructure:"path"`
	// SRDFallback enables lookups against the D&D 5e API for unknown names.
	SRDFallback bool `mapstructure:"srd_fallback"`
	// SRDTimeout bounds each API request.
	SRDTimeout time.Duration `mapstructure:"srd_timeout"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DiceConfig controls the random source
type DiceConfig struct {
	// Seed makes every roll reproducible when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
	Dice    DiceConfig    `mapstructure:"dice"`
}

// Validate checks all configuration invariants and reports every violation.
func (c Config) Validate() error {
	var errs []string

	if err := validateStorage(c.Storage, c.Redis); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Catalog.SRDTimeout < 0 {
		errs = append(errs, "catalog.srd_timeout must not be negative")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig, r RedisConfig) error {
	switch s.Driver {
	case StorageMemory:
	case StorageFile:
		if s.Dir == "" {
			return fmt.Errorf("storage.dir must not be empty for the file driver")
		}
	case StorageRedis:
		if r.Addr == "" {
			return fmt.Errorf("redis.addr must not be empty for the redis driver")
		}
		if r.DB < 0 {
			return fmt.Errorf("redis.db must be >= 0, got %d", r.DB)
		}
	case StorageSQLite:
		if s.Path == "" {
			return fmt.Errorf("storage.path must not be empty for the sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver must be one of [memory, file, redis, sqlite], got %q", s.Driver)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration, applies SHEET_ environment overrides, and
// validates the result. An empty path skips the config file.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.dir", "characters")
	v.SetDefault("storage.path", "characters.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.srd_fallback", false)
	v.SetDefault("catalog.srd_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("dice.seed", 0)
}
