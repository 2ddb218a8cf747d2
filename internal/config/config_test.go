package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.JWT.AccessExpireMinutes != 30 {
		t.Errorf("access expire = %d, want 30", cfg.JWT.AccessExpireMinutes)
	}
	if cfg.Cleanup.Schedule == "" {
		t.Error("cleanup schedule should have a default")
	}
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
jwt:
  secret: from-file
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q, want 9000", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "from-file" {
		t.Errorf("secret = %q, want from-file", cfg.JWT.Secret)
	}
	// Unset fields fall back to defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
	if cfg.JWT.RefreshExpireDays != 7 {
		t.Errorf("refresh expire = %d, want 7", cfg.JWT.RefreshExpireDays)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7777")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_ACCESS_EXPIRE_MINUTES", "15")
	t.Setenv("JWT_REFRESH_EXPIRE_DAYS", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "7777" {
		t.Errorf("port = %q, want 7777", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("secret = %q, want from-env", cfg.JWT.Secret)
	}
	if cfg.JWT.AccessExpireMinutes != 15 {
		t.Errorf("access expire = %d, want 15", cfg.JWT.AccessExpireMinutes)
	}
	// Malformed numeric overrides are ignored.
	if cfg.JWT.RefreshExpireDays != 7 {
		t.Errorf("refresh expire = %d, want default 7", cfg.JWT.RefreshExpireDays)
	}
}
