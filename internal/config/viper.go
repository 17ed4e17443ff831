// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	LLM struct {
		Provider    string  `mapstructure:"provider"`
		GeminiModel string  `mapstructure:"gemini_model"`
		GroqModel   string  `mapstructure:"groq_model"`
		Temperature float64 `mapstructure:"temperature"`
		MaxTokens   int     `mapstructure:"max_tokens"`
		// Credentials come from the environment only and are never serialized.
		GeminiAPIKey string `mapstructure:"gemini_api_key" yaml:"-"`
		GroqAPIKey   string `mapstructure:"groq_api_key" yaml:"-"`
	} `mapstructure:"llm"`

	Agent struct {
		MaxIterations        int    `mapstructure:"max_iterations"`
		VerifyTimeoutSeconds int    `mapstructure:"verify_timeout_seconds"`
		OutputDir            string `mapstructure:"output_dir"`
	} `mapstructure:"agent"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bank-statement-agent")
	v.AddConfigPath(".bank-statement-agent")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BSPA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// API keys are always read from unprefixed environment variables. The
	// Gemini key accepts both names the ecosystem uses.
	if err := v.BindEnv("llm.gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("llm.groq_api_key", "GROQ_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GROQ_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.groq_model", "llama3-8b-8192")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 4000)

	v.SetDefault("agent.max_iterations", 3)
	v.SetDefault("agent.verify_timeout_seconds", 30)
	v.SetDefault("agent.output_dir", "custom_parsers")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.LLM.Provider != "gemini" && config.LLM.Provider != "groq" {
		return fmt.Errorf("invalid llm provider: %s (must be 'gemini' or 'groq')", config.LLM.Provider)
	}

	if config.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be positive, got: %d", config.LLM.MaxTokens)
	}

	if config.Agent.MaxIterations < 1 {
		return fmt.Errorf("agent.max_iterations must be at least 1, got: %d", config.Agent.MaxIterations)
	}

	if config.Agent.VerifyTimeoutSeconds < 1 || config.Agent.VerifyTimeoutSeconds > 300 {
		return fmt.Errorf("agent.verify_timeout_seconds must be between 1 and 300, got: %d", config.Agent.VerifyTimeoutSeconds)
	}

	if config.Agent.OutputDir == "" {
		return fmt.Errorf("agent.output_dir must not be empty")
	}

	return nil
}
