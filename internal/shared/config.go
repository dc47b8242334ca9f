package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values loaded from config.toml.
const (
	EnvAPIURL   = "HNX_API_URL"
	EnvDBPath   = "HNX_DB_PATH"
	EnvLogLevel = "HNX_LOG_LEVEL"
	EnvRPS      = "HNX_REQUESTS_PER_SECOND"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig contains Hack or Snooze API settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the HTTP client timeout, defaulting to ten seconds.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local page server.
type ServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	SessionSecret string `toml:"session_secret"`
}

// Addr returns host:port for [http.Server].
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level   string `toml:"level"`
	TUIFile string `toml:"tui_file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResolveConfig loads path when it exists and falls back to [DefaultConfig] otherwise,
// then applies environment overrides (an optional .env file is read first).
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := LoadEnvFile(".env"); err != nil {
		return nil, err
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
//
// A missing file is not an error; variables already set are left untouched.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config fields from HNX_* environment variables.
func ApplyEnv(config *Config) error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		config.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(EnvRPS); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvRPS, v)
		}
		config.API.RequestsPerSecond = rps
	}
	return nil
}
