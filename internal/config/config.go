package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "RECONCILER"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds process settings, read from an optional config file and
// RECONCILER_* environment variables (a .env file is loaded first).
type Config struct {
	Store             string   `mapstructure:"store"`
	PostgresURL       string   `mapstructure:"postgres_url"`
	MigrationsDir     string   `mapstructure:"migrations_dir"`
	HTTPAddr          string   `mapstructure:"http_addr"`
	CORSOrigins       []string `mapstructure:"cors_origins"`
	ReturnPolicy      string   `mapstructure:"return_policy"`
	StrictTransitions bool     `mapstructure:"strict_transitions"`
	LogLevel          string   `mapstructure:"log_level"`
	LogFormat         string   `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"store":              StoreMemory,
	"postgres_url":       "",
	"migrations_dir":     "db/migrations",
	"http_addr":          ":8080",
	"cors_origins":       []string{"*"},
	"return_policy":      "single",
	"strict_transitions": false,
	"log_level":          "info",
	"log_format":         "json",
}

// Load reads the configuration. configFile may be empty.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("postgres_url is required when store is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if c.ReturnPolicy != "single" && c.ReturnPolicy != "multiple" {
		errs = append(errs, fmt.Errorf("unknown return_policy %q", c.ReturnPolicy))
	}
	return errors.Join(errs...)
}
