// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Backend names accepted by the configuration and the migrate command.
const (
	BackendLocal    = "local"
	BackendDatabase = "database"
	BackendMemory   = "memory"
)

// Config represents the application configuration. Values can come from a
// JSON file, environment variables, or CLI flags; all fields are optional and
// missing values use defaults.
type Config struct {
	// Server
	Port          int    `json:"port,omitempty"`           // HTTP listen port
	AllowedOrigin string `json:"allowed_origin,omitempty"` // CORS origin, "*" when empty

	// Storage
	Backend     string `json:"backend,omitempty"`       // local | database | memory
	LocalDBPath string `json:"local_db_path,omitempty"` // sqlite file for the local backend
	DatabaseURL string `json:"database_url,omitempty"`  // PostgreSQL connection URL

	// Optimization
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	GeminiModel  string `json:"gemini_model,omitempty"`   // model name override

	// Auth
	JWTSecret string `json:"jwt_secret,omitempty"` // HS256 secret for bearer tokens
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. A .env file loaded
// beforehand (godotenv in the CLI) shows up here like any other variable.
func FromEnv() Config {
	cfg := Config{
		Backend:       os.Getenv("STORAGE_BACKEND"),
		LocalDBPath:   os.Getenv("LOCAL_DB_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	return cfg
}

// Defaults returns the built-in fallback configuration.
func Defaults() Config {
	return Config{
		Port:        8080,
		Backend:     BackendLocal,
		LocalDBPath: defaultLocalDBPath(),
	}
}

func defaultLocalDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "resume-builder.db")
	}
	return filepath.Join(home, ".resume-builder", "state.db")
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendLocal, BackendDatabase, BackendMemory:
	default:
		return fmt.Errorf("config error: unknown backend %q (want local, database, or memory)", c.Backend)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}

	if c.Backend == BackendDatabase && c.DatabaseURL == "" {
		return fmt.Errorf("config error: backend %q requires 'database_url' or DATABASE_URL", BackendDatabase)
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-value fields filled from
// defaults. This is used to layer config file values over env values and
// built-in defaults.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	// String fields: use default if empty
	if result.Backend == "" {
		result.Backend = defaults.Backend
	}
	if result.LocalDBPath == "" {
		result.LocalDBPath = defaults.LocalDBPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}
	if result.AllowedOrigin == "" {
		result.AllowedOrigin = defaults.AllowedOrigin
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}
