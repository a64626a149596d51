// Package config loads and saves hlm configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all hlm configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Chat       ChatConfig       `toml:"chat"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	// BaseURL is the backend origin plus /api/v1.
	BaseURL string `toml:"base_url"`
	// SessionCookie is the ambient credential sent with every
	// authenticated request.
	SessionCookie string `toml:"session_cookie,omitempty"`
}

// ChatConfig holds per-turn request defaults.
type ChatConfig struct {
	MaxTokens   int     `toml:"max_tokens,omitempty"`
	Temperature float32 `toml:"temperature,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api/v1",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hlm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hlm")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
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

// Save writes the config to disk. Mode 0600: the file may carry the
// session cookie.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// BaseURL returns the backend base URL from env var or config, in that
// order.
func BaseURL(cfg Config) string {
	if url := os.Getenv("HLM_API_URL"); url != "" {
		return url
	}
	return cfg.API.BaseURL
}

// SessionCookie returns the session cookie from env var or config, in
// that order.
func SessionCookie(cfg Config) string {
	if s := os.Getenv("HLM_SESSION"); s != "" {
		return s
	}
	return cfg.API.SessionCookie
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
