package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_DRIVER", "memory")
	os.Setenv("AUTH_MODE", "required")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	defer func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("AUTH_MODE")
		os.Unsetenv("JWT_SECRET")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port == "" || cfg.Log.Level == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Database.Driver != "memory" {
		t.Fatalf("expected memory driver, got %q", cfg.Database.Driver)
	}
}

func TestLoadConfigRejectsMissingDSN(t *testing.T) {
	os.Setenv("DB_DRIVER", "mysql")
	os.Unsetenv("DB_DSN")
	os.Setenv("AUTH_MODE", "none")
	defer func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("AUTH_MODE")
	}()

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing DB_DSN with mysql driver")
	}
}

func TestLoadConfigRejectsUnknownAuthMode(t *testing.T) {
	os.Setenv("DB_DRIVER", "memory")
	os.Setenv("AUTH_MODE", "sometimes")
	defer func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("AUTH_MODE")
	}()

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown AUTH_MODE")
	}
}
