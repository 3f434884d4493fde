// Package config loads moneytree settings from TOML, .env and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is where the backend listens in local development.
	DefaultBaseURL = "http://localhost:8000"

	envAPIURL       = "MONEYTREE_API_URL"
	envLegacyAPIURL = "VITE_API_URL"
)

// Config holds all moneytree configuration.
type Config struct {
	Backend    BackendConfig    `toml:"backend"`
	Chat       ChatConfig       `toml:"chat"`
	Goals      GoalsConfig      `toml:"goals"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
}

// BackendConfig points the client at the MoneyMap REST backend.
type BackendConfig struct {
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ChatConfig holds the finalize gates for the two conversations.
// A value of 0 disables the gate.
type ChatConfig struct {
	GoalMinMessages   int `toml:"goal_min_messages"`
	CreditMinMessages int `toml:"credit_min_messages"`
}

// GoalsConfig holds goal mutation policy.
type GoalsConfig struct {
	RollbackRoadmapToggle bool `toml:"rollback_roadmap_toggle"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig controls the diagnostic log.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			TimeoutSec: 30,
		},
		Chat: ChatConfig{
			GoalMinMessages:   4,
			CreditMinMessages: 0,
		},
		Goals: GoalsConfig{
			RollbackRoadmapToggle: true,
		},
		Appearance: AppearanceConfig{
			Theme: "forest",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "moneytree")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "moneytree")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG data directory holding the session database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "moneytree")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "moneytree")
}

// SessionDBPath returns the path of the durable session store.
func SessionDBPath() string {
	return filepath.Join(DataDir(), "session.db")
}

// CacheDir returns the XDG cache directory used for logs.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "moneytree")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "moneytree")
}

// Load reads .env and the config file, returning defaults if neither exists.
func Load() (Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	return LoadFile(Path())
}

// LoadFile reads the config at path, returning defaults if it doesn't exist.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// BaseURL returns the backend URL from env vars or config, in that order.
func BaseURL(cfg Config) string {
	for _, key := range []string{envAPIURL, envLegacyAPIURL} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	if cfg.Backend.BaseURL != "" {
		return strings.TrimRight(cfg.Backend.BaseURL, "/")
	}
	return DefaultBaseURL
}

// Timeout returns the per-request timeout, falling back to 30s.
func Timeout(cfg Config) time.Duration {
	if cfg.Backend.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.Backend.TimeoutSec) * time.Second
}

// LogPath returns the configured log file or the default under CacheDir.
func LogPath(cfg Config) string {
	if cfg.Logging.File != "" {
		return cfg.Logging.File
	}
	return filepath.Join(CacheDir(), "moneytree.log")
}
