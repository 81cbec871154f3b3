package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Callback CallbackConfig `mapstructure:"callback"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains the API-key authentication settings. An empty
// key disables authentication, which is only acceptable in development.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// CallbackConfig contains the fixed callback delivery settings.
// An empty base URL disables callback delivery entirely.
type CallbackConfig struct {
	BaseURL        string `mapstructure:"base_url"        validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// LLMConfig contains all model-integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"      validate:"required"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"     validate:"gte=0"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}
