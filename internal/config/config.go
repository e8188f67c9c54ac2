package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DataDir         string   `mapstructure:"DATA_DIR"`
	Seed            uint64   `mapstructure:"SEED"`
	MinResources    int      `mapstructure:"MIN_RESOURCES_PER_PATIENT"`
	MaxResources    int      `mapstructure:"MAX_RESOURCES_PER_PATIENT"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	RegenOnStartup  bool     `mapstructure:"REGENERATE_ON_STARTUP"`
	ShutdownTimeout int      `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("SEED", 0)
	v.SetDefault("MIN_RESOURCES_PER_PATIENT", 3)
	v.SetDefault("MAX_RESOURCES_PER_PATIENT", 6)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REGENERATE_ON_STARTUP", false)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("SEED")
	v.BindEnv("MIN_RESOURCES_PER_PATIENT")
	v.BindEnv("MAX_RESOURCES_PER_PATIENT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REGENERATE_ON_STARTUP")
	v.BindEnv("SHUTDOWN_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.MinResources < 1 {
		return fmt.Errorf("MIN_RESOURCES_PER_PATIENT must be at least 1, got %d", c.MinResources)
	}
	if c.MaxResources < c.MinResources {
		return fmt.Errorf("MAX_RESOURCES_PER_PATIENT (%d) must be >= MIN_RESOURCES_PER_PATIENT (%d)",
			c.MaxResources, c.MinResources)
	}
	if c.ShutdownTimeout < 1 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", c.ShutdownTimeout)
	}
	return nil
}
