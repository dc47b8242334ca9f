package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://hack-or-snooze-v3.herokuapp.com" {
			t.Errorf("expected default API base URL, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./hnx.db" {
			t.Errorf("expected database path ./hnx.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.API.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.API.Timeout())
		}
	})

	t.Run("Timeout falls back when unset", func(t *testing.T) {
		if got := (APIConfig{}).Timeout(); got != 10*time.Second {
			t.Errorf("expected 10s, got %v", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "http://localhost:5000"

[server]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://localhost:5000" {
			t.Errorf("expected base URL override, got %s", config.API.BaseURL)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Database.Path != "./hnx.db" {
			t.Errorf("expected default database path, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig rejects invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig reports a missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("SaveConfig round trips", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Server.Port = 4321

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Server.Port != 4321 {
			t.Errorf("expected port 4321, got %d", loaded.Server.Port)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvAPIURL, "http://api.test")
		t.Setenv(EnvDBPath, ":memory:")
		t.Setenv(EnvLogLevel, "debug")
		t.Setenv(EnvRPS, "2.5")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.API.BaseURL != "http://api.test" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.Database.Path != ":memory:" {
			t.Errorf("expected env db path, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
		if config.API.RequestsPerSecond != 2.5 {
			t.Errorf("expected 2.5 rps, got %v", config.API.RequestsPerSecond)
		}
	})

	t.Run("ApplyEnv rejects bad rate", func(t *testing.T) {
		t.Setenv(EnvRPS, "fast")

		err := ApplyEnv(DefaultConfig())
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadEnvFile", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("missing file should not be an error: %v", err)
		}

		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("HNX_TEST_DOTENV=loaded\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("HNX_TEST_DOTENV") })

		if err := LoadEnvFile(envPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("HNX_TEST_DOTENV"); got != "loaded" {
			t.Errorf("expected variable from .env, got %q", got)
		}
	})

	t.Run("ResolveConfig without file uses defaults", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})
}
