// Package config loads distfix runtime settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable distfix reads.
const EnvPrefix = "DISTFIX_"

// Configuration holds settings that are not part of the command line.
type Configuration struct {
	LogLevel  string `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"required,oneof=text json"`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"log_level":  "warn",
		"log_format": "text",
	}
}

// Load applies defaults, then DISTFIX_* environment overrides, and validates
// the result.
func Load() (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: DISTFIX_LOG_LEVEL -> log_level
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
