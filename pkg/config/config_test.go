package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv restores the original values after the test
	for _, key := range []string{"DISTFIX_LOG_LEVEL", "DISTFIX_LOG_FORMAT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DISTFIX_LOG_LEVEL", "DEBUG")
	t.Setenv("DISTFIX_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_ValidationError(t *testing.T) {
	tests := map[string]struct {
		key   string
		value string
	}{
		"unknown level":  {key: "DISTFIX_LOG_LEVEL", value: "loud"},
		"unknown format": {key: "DISTFIX_LOG_FORMAT", value: "xml"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "log_level", envTransform("DISTFIX_LOG_LEVEL"))
	assert.Equal(t, "log_format", envTransform("DISTFIX_LOG_FORMAT"))
}

func TestLoad_EveryDefaultApplied(t *testing.T) {
	for key := range GetDefaults() {
		env := EnvPrefix + strings.ToUpper(key)
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}

	cfg, err := Load()
	require.NoError(t, err)

	// Each default must reach the struct through koanf
	defaults := GetDefaults()
	assert.Equal(t, defaults["log_level"], cfg.LogLevel)
	assert.Equal(t, defaults["log_format"], cfg.LogFormat)
}
