package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  host: localhost
  port: 5432
  user: pos
  password: secret
  database: pos
rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
lifecycle:
  profile: five_state
auth:
  tokens:
    - token: dev-admin
      actor_id: 1
      display_name: Admin
      role: ADMIN
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Database != "pos" {
		t.Errorf("database config = %+v", cfg.Database)
	}
	if cfg.Lifecycle.Profile != "five_state" {
		t.Errorf("profile = %s, want five_state", cfg.Lifecycle.Profile)
	}
	if len(cfg.Auth.Tokens) != 1 || cfg.Auth.Tokens[0].Role != "ADMIN" {
		t.Errorf("auth tokens = %+v", cfg.Auth.Tokens)
	}
}

func TestLoad_DefaultProfile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Lifecycle.Profile != "four_state" {
		t.Errorf("profile = %s, want four_state default", cfg.Lifecycle.Profile)
	}
}

func TestLoad_InvalidProfile(t *testing.T) {
	path := writeConfig(t, "lifecycle:\n  profile: six_state\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown lifecycle profile")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
