// Package config provides configuration management for the CivicLens service.
//
// This package handles loading configuration from environment variables,
// validating settings, and providing sensible defaults for optional
// parameters. Configuration is loaded once at startup and remains immutable
// during runtime for thread-safety.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. External .env file (fallback)
//  3. Hard-coded defaults (lowest priority)
//
// Every external credential is optional: the service degrades to its
// deterministic fallback paths (templated letters, mock identity) when
// a credential is absent, rather than failing at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// This struct is immutable after creation to ensure thread-safety.
// All duration values are configurable via environment variables to
// allow tuning for different network conditions.
type Config struct {
	// Gemini generative-text service (optional)
	GeminiAPIKey string // API key; empty key selects the template fallback generator
	GeminiModel  string // Model name for generateContent calls

	// Geocoding service
	NominatimURL    string        // Base URL of the Nominatim instance
	GeocodeDebounce time.Duration // Quiet period before a forward geocode fires

	// Identity provider (optional)
	GoogleClientID string // OAuth client id; empty selects the mock provider

	// Persistence
	StorageFile string // JSON file holding all complaint records
	SessionFile string // JSON file holding the current user session

	// HTTP surfaces
	HTTPPort        string // Port for the main API server
	HealthCheckPort string // Port for the health check server

	// Timing
	HTTPTimeout  time.Duration // Timeout for outbound REST calls
	ProbeTimeout time.Duration // Startup probe for generator availability

	// Telegram notifications (optional)
	TelegramBotToken string
	TelegramChatID   string

	// Debug mode - skips actual external API calls for testing
	DebugMode bool
}

// LoadConfig loads configuration from environment variables with defaults.
//
// Loading process:
//  1. Try to load external .env file (optional)
//  2. Read environment variables
//  3. Apply hard-coded defaults for any missing optional values
//  4. Validate that the resulting values are sensible
//
// Returns:
//   - *Config: Fully populated configuration struct
//   - error: Validation error if a value is out of range
func LoadConfig() (*Config, error) {
	// External .env file is optional; env vars still win
	_ = godotenv.Load()

	cfg := &Config{
		// Gemini - optional, fallback generator used when key is absent
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		// Geocoding - public Nominatim by default, debounced to stay
		// within its rate expectations
		NominatimURL:    getEnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeocodeDebounce: getEnvDuration("GEOCODE_DEBOUNCE", 1500*time.Millisecond),

		// Identity - optional, mock account chooser used when absent
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		// Persistence - single-user local files
		StorageFile: getEnvOrDefault("STORAGE_FILE", "civic_lens_complaints.json"),
		SessionFile: getEnvOrDefault("SESSION_FILE", "civic_user_session.json"),

		// HTTP surfaces
		HTTPPort:        getEnvOrDefault("HTTP_PORT", "8090"),
		HealthCheckPort: getEnvOrDefault("HEALTH_CHECK_PORT", "8080"),

		// Timing - generation calls routinely take seconds
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		ProbeTimeout: getEnvDuration("GENERATOR_PROBE_TIMEOUT", 3*time.Second),

		// Telegram - optional, notifications disabled if not set
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		// Debug mode - default false (production mode)
		DebugMode: getEnvOrDefault("DEBUG_MODE", "false") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are sensible.
//
// Unlike credential fields, structural fields (URLs, file paths,
// ports, durations) must always be present because defaults exist
// for all of them; an empty value means someone overrode a default
// with garbage.
func (c *Config) Validate() error {
	if c.NominatimURL == "" {
		return fmt.Errorf("NOMINATIM_URL cannot be empty")
	}
	if c.StorageFile == "" {
		return fmt.Errorf("STORAGE_FILE cannot be empty")
	}
	if c.SessionFile == "" {
		return fmt.Errorf("SESSION_FILE cannot be empty")
	}
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}
	if c.GeocodeDebounce <= 0 {
		return fmt.Errorf("GEOCODE_DEBOUNCE must be positive, got %v", c.GeocodeDebounce)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}
	return nil
}

// Helper functions for environment variable parsing

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default if not set/invalid.
//
// Accepts standard Go duration strings like "1500ms", "5s", "10m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
