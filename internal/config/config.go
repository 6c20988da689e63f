package config

import (
	"os"
	"strconv"

	"qrnglab/domain/qrng"
	"qrnglab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Defaults DefaultsConfig
	Source   SourceConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds run-history database settings.
// The database is optional: without DATABASE_URL the app keeps history
// in memory only.
type DatabaseConfig struct {
	URL string
}

// DefaultsConfig holds default run parameters for the UI
type DefaultsConfig struct {
	Width       int
	SampleCount int
}

// SourceConfig selects the bit source backing collection runs
type SourceConfig struct {
	// Kind is "quantum" (statevector simulator) or "crypto" (crypto/rand)
	Kind string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Defaults: DefaultsConfig{
			Width:       getEnvIntOrDefault("DEFAULT_WIDTH", 4),
			SampleCount: getEnvIntOrDefault("DEFAULT_SAMPLES", 1000),
		},
		Source: SourceConfig{
			Kind: getEnvOrDefault("BIT_SOURCE", "quantum"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if err := qrng.Width(config.Defaults.Width).Validate(); err != nil {
		return errors.ConfigInvalid("DEFAULT_WIDTH out of range")
	}
	if err := qrng.ValidateSampleCount(config.Defaults.SampleCount); err != nil {
		return errors.ConfigInvalid("DEFAULT_SAMPLES out of range")
	}
	switch config.Source.Kind {
	case "quantum", "crypto":
	default:
		return errors.ConfigInvalid("BIT_SOURCE must be quantum or crypto")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
