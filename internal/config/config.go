// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file

	// Authentication
	APIKey string // API key for admin endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Festivals
	CatalogPath     string // Optional YAML catalog replacing the built-in one
	PreFestivalDays int    // Seeds the stored settings on first boot; later changes go through the admin API

	// Greetings
	GenAIAPIKey           string        // Empty disables generated greetings
	GenAIModel            string        // Gemini model name
	GreetingTimeout       time.Duration // Bound on one generation call
	GreetingCacheTTL      time.Duration // How long a generated greeting is reused
	GreetingRatePerMinute int           // Max generation calls per minute
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Database
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/festivals.db")

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Festivals
	cfg.CatalogPath = getEnv("CATALOG_PATH", "")
	cfg.PreFestivalDays = getEnvInt("PRE_FESTIVAL_DAYS", 3)

	// Greetings
	cfg.GenAIAPIKey = getEnv("GENAI_API_KEY", "")
	cfg.GenAIModel = getEnv("GENAI_MODEL", "gemini-2.0-flash")
	cfg.GreetingTimeout = getEnvDuration("GREETING_TIMEOUT", 3*time.Second)
	cfg.GreetingCacheTTL = getEnvDuration("GREETING_CACHE_TTL", 24*time.Hour)
	cfg.GreetingRatePerMinute = getEnvInt("GREETING_RATE_PER_MINUTE", 30)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	// Admin endpoints must be protected in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.PreFestivalDays < 0 || c.PreFestivalDays > 30 {
		errs = append(errs, fmt.Errorf("PRE_FESTIVAL_DAYS must be between 0 and 30, got %d", c.PreFestivalDays))
	}

	if c.GreetingTimeout <= 0 {
		errs = append(errs, fmt.Errorf("GREETING_TIMEOUT must be positive, got %s", c.GreetingTimeout))
	}
	if c.GreetingCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("GREETING_CACHE_TTL must be positive, got %s", c.GreetingCacheTTL))
	}
	if c.GreetingRatePerMinute < 0 {
		errs = append(errs, fmt.Errorf("GREETING_RATE_PER_MINUTE must not be negative, got %d", c.GreetingRatePerMinute))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GreetingsEnabled reports whether a generation credential is configured.
func (c *Config) GreetingsEnabled() bool {
	return c.GenAIAPIKey != ""
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as a time.Duration ("3s", "24h").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
