package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "FOCUS"

// defaults lists every known key so that viper binds its environment
// variable during Unmarshal.
var defaults = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.allowed_origins":          []string{"http://localhost:5173"},
	"server.shutdown_timeout_seconds": 10,

	"database.url":          "",
	"database.auto_migrate": false,

	"llm.provider":             ProviderOpenAI,
	"llm.api_key":              "",
	"llm.force_fallback":       false,
	"llm.base_url":             "https://api.groq.com/openai/v1/chat/completions",
	"llm.model":                "llama-3.3-70b-versatile",
	"llm.gemini_model":         "gemini-2.0-flash",
	"llm.temperature":          0.2,
	"llm.timeout_seconds":      30,
	"llm.prompt_template_path": "",
	"llm.strict_schema":        false,
}

// legacyEnv maps keys to extra environment variables honoured for
// compatibility with existing deployments.
var legacyEnv = map[string]string{
	"llm.api_key": "GROQ_API_KEY",
}

// LegacyDebugEnv forces fallback mode only when set to exactly "true".
// Any other non-empty value leaves fallback off.
const LegacyDebugEnv = "DEBUG_MODE"

// Load configuration from environment variables and optionally a config file
// named config.{yaml,json,toml} in the working directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load(".")
}

// LoadFromDir is like Load but looks for the config file in dir.
func LoadFromDir(dir string) (*Config, error) {
	return load(dir)
}

func load(dir string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		primary := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, primary, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	applyLegacyDebug(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyLegacyDebug maps DEBUG_MODE onto llm.force_fallback unless the
// prefixed variable is set.
func applyLegacyDebug(v *viper.Viper) {
	if os.Getenv(EnvPrefix+"_LLM_FORCE_FALLBACK") != "" {
		return
	}
	if debug := os.Getenv(LegacyDebugEnv); debug != "" {
		v.Set("llm.force_fallback", debug == "true")
	}
}
