package config

import (
	"errors"
	"fmt"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins lists the browser origins permitted by CORS.
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// URL is only required by commands that touch the database.
	URL string `mapstructure:"url" validate:"omitempty,url"`
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// ErrDatabaseURLMissing is returned by RequireURL when no database is configured.
var ErrDatabaseURLMissing = errors.New("database.url is required")

// RequireURL fails when no database URL is configured.
func (c DatabaseConfig) RequireURL() error {
	if c.URL == "" {
		return fmt.Errorf("config validation failed: %w", ErrDatabaseURLMissing)
	}
	return nil
}

// LLM provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// LLMConfig contains all language-model integration settings.
//
// Brain-dump extraction runs in fallback mode when APIKey is empty or
// ForceFallback is set; no external service is called in that mode.
type LLMConfig struct {
	// Provider selects the completion backend: "openai" for any
	// OpenAI-compatible chat-completions endpoint (Groq by default) or
	// "gemini" for Google's Gemini API.
	Provider      string `mapstructure:"provider"       validate:"required,oneof=openai gemini"`
	APIKey        string `mapstructure:"api_key"`
	ForceFallback bool   `mapstructure:"force_fallback"`

	BaseURL     string  `mapstructure:"base_url"     validate:"required,url"`
	Model       string  `mapstructure:"model"        validate:"required"`
	GeminiModel string  `mapstructure:"gemini_model" validate:"required"`
	Temperature float64 `mapstructure:"temperature"  validate:"gte=0,lte=2"`

	// TimeoutSeconds bounds each provider call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`

	// PromptTemplatePath overrides the built-in prompt template when set.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`

	// StrictSchema validates extracted candidates against the candidate
	// JSON schema in addition to checking that they parse.
	StrictSchema bool `mapstructure:"strict_schema"`
}

// FallbackMode reports whether extraction should run without a provider.
func (c LLMConfig) FallbackMode() bool {
	return c.ForceFallback || c.APIKey == ""
}
