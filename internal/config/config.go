// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Study    StudyConfig    `mapstructure:"study"    validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// StudyConfig contains the tunables of the review session builder and
// scheduler.
type StudyConfig struct {
	// NewCardLimit caps how many unstudied cards enter one session.
	NewCardLimit int `mapstructure:"new_card_limit" validate:"required,gt=0"`

	// ReviewLimit caps how many due cards enter one session.
	ReviewLimit int `mapstructure:"review_limit" validate:"required,gt=0"`

	// DisableFuzz turns off the random interval fuzz. Intended for tests
	// and debugging; leave off in production so reviews spread out.
	DisableFuzz bool `mapstructure:"disable_fuzz"`

	// Timezone is the IANA name used for calendar-day streak comparisons.
	// Empty means the server's local timezone.
	Timezone string `mapstructure:"timezone"`
}

// LLMConfig contains card-generation settings. Optional: with an empty API
// key the generation endpoints are disabled.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
}
