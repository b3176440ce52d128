package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath          string
	APIPort         string
	CatalogBaseURL  string
	CatalogToken    string
	DirectoryMaxAge time.Duration
	LogLevel        string
	LogFormat       string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "./data/cardstash.db"),
		APIPort:        getEnv("API_PORT", "9000"),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://api.echomtg.com"),
		CatalogToken:   getEnv("CATALOG_TOKEN", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	// DIRECTORY_MAX_AGE_HOURS controls how long the cached set directory is
	// trusted before a refresh is attempted.
	maxAgeStr := getEnv("DIRECTORY_MAX_AGE_HOURS", "24")
	maxAge, err := strconv.Atoi(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("DIRECTORY_MAX_AGE_HOURS must be a valid integer: %w", err)
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("DIRECTORY_MAX_AGE_HOURS must be greater than 0")
	}
	cfg.DirectoryMaxAge = time.Duration(maxAge) * time.Hour

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
