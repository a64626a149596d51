package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnvOverrides(t *testing.T) {
	cfg := Config{API: APIConfig{
		BaseURL:       "http://file.example/api/v1",
		SessionCookie: "from-file",
	}}

	t.Setenv("HLM_API_URL", "")
	t.Setenv("HLM_SESSION", "")

	if got := BaseURL(cfg); got != "http://file.example/api/v1" {
		t.Fatalf("BaseURL = %q, want file value", got)
	}
	if got := SessionCookie(cfg); got != "from-file" {
		t.Fatalf("SessionCookie = %q, want file value", got)
	}

	t.Setenv("HLM_API_URL", "http://env.example/api/v1")
	t.Setenv("HLM_SESSION", "from-env")

	if got := BaseURL(cfg); got != "http://env.example/api/v1" {
		t.Fatalf("BaseURL = %q, want env value", got)
	}
	if got := SessionCookie(cfg); got != "from-env" {
		t.Fatalf("SessionCookie = %q, want env value", got)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api/v1" {
		t.Fatalf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
	if Exists() {
		t.Fatal("Exists = true with no config file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	in := DefaultConfig()
	in.API.BaseURL = "https://hlm.example.com/api/v1"
	in.API.SessionCookie = "cookie-value"
	in.Chat.MaxTokens = 512
	in.Appearance.Theme = "tokyo-night"

	if err := Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(ConfigDir(), "config.toml"))
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config mode = %o, want 600", perm)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.API.BaseURL != in.API.BaseURL || out.API.SessionCookie != in.API.SessionCookie {
		t.Fatalf("API round trip mismatch: %+v", out.API)
	}
	if out.Chat.MaxTokens != 512 || out.Appearance.Theme != "tokyo-night" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
