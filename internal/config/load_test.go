package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) func() {
	// Save current environment values
	originalValues := make(map[string]string)
	for name := range envVars {
		originalValues[name] = os.Getenv(name)
	}

	// Set new environment variables
	for name, value := range envVars {
		err := os.Setenv(name, value)
		require.NoError(t, err, "Failed to set environment variable %s", name)
	}

	// Return cleanup function
	return func() {
		for name, value := range originalValues {
			if value == "" {
				os.Unsetenv(name)
			} else {
				os.Setenv(name, value)
			}
		}
	}
}

// TestLoadDefaults verifies that Load applies the expected defaults
// when only the required settings are provided.
func TestLoadDefaults(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"ORDERTASK_LLM_GEMINI_API_KEY": "test-api-key",
		"ORDERTASK_SERVER_PORT":        "",
		"ORDERTASK_SERVER_LOG_LEVEL":   "",
	})
	defer cleanup()

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.Equal(t, 30, cfg.Callback.TimeoutSeconds)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
}

// TestLoadFromEnvironment verifies that environment variables override defaults.
func TestLoadFromEnvironment(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"ORDERTASK_SERVER_PORT":              "9090",
		"ORDERTASK_SERVER_LOG_LEVEL":         "debug",
		"ORDERTASK_AUTH_API_KEY":             "service-secret",
		"ORDERTASK_CALLBACK_BASE_URL":        "https://biz.example.com",
		"ORDERTASK_CALLBACK_API_KEY":         "callback-secret",
		"ORDERTASK_CALLBACK_TIMEOUT_SECONDS": "10",
		"ORDERTASK_LLM_GEMINI_API_KEY":       "test-api-key",
		"ORDERTASK_LLM_MODEL_NAME":           "gemini-2.5-pro",
	})
	defer cleanup()

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "service-secret", cfg.Auth.APIKey)
	assert.Equal(t, "https://biz.example.com", cfg.Callback.BaseURL)
	assert.Equal(t, "callback-secret", cfg.Callback.APIKey)
	assert.Equal(t, 10, cfg.Callback.TimeoutSeconds)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.ModelName)
}

// TestLoadValidation verifies that invalid configurations are rejected.
func TestLoadValidation(t *testing.T) {
	t.Run("missing gemini API key", func(t *testing.T) {
		cleanup := setupEnv(t, map[string]string{
			"ORDERTASK_LLM_GEMINI_API_KEY": "",
		})
		defer cleanup()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("invalid log level", func(t *testing.T) {
		cleanup := setupEnv(t, map[string]string{
			"ORDERTASK_LLM_GEMINI_API_KEY": "test-api-key",
			"ORDERTASK_SERVER_LOG_LEVEL":   "verbose",
		})
		defer cleanup()

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("invalid callback URL", func(t *testing.T) {
		cleanup := setupEnv(t, map[string]string{
			"ORDERTASK_LLM_GEMINI_API_KEY": "test-api-key",
			"ORDERTASK_CALLBACK_BASE_URL":  "not a url",
		})
		defer cleanup()

		_, err := Load()
		require.Error(t, err)
	})
}
