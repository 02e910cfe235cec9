package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	// No env vars set — everything falls back to development defaults.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Env: got %q, want %q", cfg.Env, "development")
	}
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBUser != "vistapress" {
		t.Errorf("DBUser: got %q, want %q", cfg.DBUser, "vistapress")
	}
	if !cfg.IsDev() {
		t.Error("expected IsDev() true for default env")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("VALKEY_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "testing" {
		t.Errorf("Env: got %q", cfg.Env)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	if cfg.DBHost != "db.internal" {
		t.Errorf("DBHost: got %q", cfg.DBHost)
	}
	if cfg.ValkeyPassword != "secret" {
		t.Errorf("ValkeyPassword: got %q", cfg.ValkeyPassword)
	}
	if cfg.IsDev() {
		t.Error("expected IsDev() false for testing env")
	}
}

func TestLoadProductionRejectsDefaultPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("expected error for default POSTGRES_PASSWORD in production")
	}
}

func TestLoadProductionWithPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "real-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPassword != "real-secret" {
		t.Errorf("DBPassword: got %q", cfg.DBPassword)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "8081"}
	if got := cfg.Addr(); got != "127.0.0.1:8081" {
		t.Errorf("Addr: got %q", got)
	}
}
