package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.HeaderMode != "stamp" {
		t.Errorf("HeaderMode = %q, want stamp", cfg.HeaderMode)
	}
	if cfg.FontFamily != "Times New Roman" || cfg.FontSize != 10 {
		t.Errorf("font = %q %d", cfg.FontFamily, cfg.FontSize)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `addr: ":9090"
workers: 4
headerMode: suppress
hosted:
  endpoint: https://api.example.com/convert
  apiKey: secret
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.HeaderMode != "suppress" {
		t.Errorf("HeaderMode = %q, want suppress", cfg.HeaderMode)
	}
	if cfg.Hosted.Endpoint == "" || cfg.Hosted.APIKey != "secret" {
		t.Errorf("Hosted = %+v", cfg.Hosted)
	}
	// Unset fields keep their defaults.
	if cfg.FontSize != 10 {
		t.Errorf("FontSize = %d, want default 10", cfg.FontSize)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":1\"\nbanana: true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrConfigParse) {
		t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("HEADER_MODE", "suppress")
	t.Setenv("CONVERT_API_ENDPOINT", "https://env.example.com/convert")
	t.Setenv("CONVERT_API_KEY", "env-key")
	t.Setenv("WORKERS", "6")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Addr)
	}
	if cfg.HeaderMode != "suppress" {
		t.Errorf("HeaderMode = %q, want suppress", cfg.HeaderMode)
	}
	if !cfg.Hosted.Configured() {
		t.Errorf("Hosted = %+v, want configured from env", cfg.Hosted)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, want 6", cfg.Workers)
	}
}
