package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"DB_PATH", "API_PORT", "CATALOG_BASE_URL", "CATALOG_TOKEN",
		"DIRECTORY_MAX_AGE_HOURS", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9000" &&
					cfg.LogLevel == "info" &&
					cfg.LogFormat == "text" &&
					cfg.DirectoryMaxAge == 24*time.Hour
			},
		},
		{
			name: "overrides",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("API_PORT", "8123")
				setEnv("CATALOG_BASE_URL", "http://localhost:9999")
				setEnv("CATALOG_TOKEN", "secret")
				setEnv("DIRECTORY_MAX_AGE_HOURS", "6")
				setEnv("LOG_FORMAT", "json")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "8123" &&
					cfg.CatalogBaseURL == "http://localhost:9999" &&
					cfg.CatalogToken == "secret" &&
					cfg.DirectoryMaxAge == 6*time.Hour &&
					cfg.LogFormat == "json"
			},
		},
		{
			name: "invalid max age",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("DIRECTORY_MAX_AGE_HOURS", "not-a-number")
			},
			wantErr: true,
		},
		{
			name: "zero max age",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("DIRECTORY_MAX_AGE_HOURS", "0")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Error("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDir(t *testing.T) {
	original := os.Getenv("DB_PATH")
	defer func() {
		if original != "" {
			setEnv("DB_PATH", original)
		} else {
			unsetEnv("DB_PATH")
		}
	}()

	dataDir := filepath.Join(t.TempDir(), "nested", "data")
	setEnv("DB_PATH", filepath.Join(dataDir, "test.db"))

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(dataDir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}
