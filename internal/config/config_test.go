package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.AppName != "vision-records" {
		t.Errorf("expected default app name, got %s", cfg.AppName)
	}
	if cfg.StorageDriver != "sqlite" {
		t.Errorf("expected sqlite driver by default, got %s", cfg.StorageDriver)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_NAME", "clinic-records")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDriver != "memory" {
		t.Errorf("expected env override, got %s", cfg.StorageDriver)
	}
	if cfg.AppName != "clinic-records" {
		t.Errorf("expected env override, got %s", cfg.AppName)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Env: "development", StorageDriver: "sqlite", AdminPassword: "vision123", SessionSecret: "dev-only-session-secret"}
	if err := base.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	pg := base
	pg.StorageDriver = "postgres"
	if err := pg.Validate(); err == nil {
		t.Error("expected error for postgres without DATABASE_URL")
	}
	pg.DatabaseURL = "postgres://localhost/records"
	if err := pg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := base
	bad.StorageDriver = "redis"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown driver")
	}

	prod := base
	prod.Env = "production"
	if err := prod.Validate(); err == nil {
		t.Error("expected production to reject default credentials")
	}
	prod.AdminPassword = "changed"
	prod.SessionSecret = "changed-secret"
	if err := prod.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
