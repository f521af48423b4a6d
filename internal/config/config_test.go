package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studytrack/internal/repository/db"
)

// clearEnv blanks every bound variable for the test; viper treats empty as unset.
func clearEnv(t *testing.T, except ...string) {
	t.Helper()
	skip := map[string]bool{}
	for _, e := range except {
		skip[e] = true
	}
	for _, env := range envBindings {
		if !skip[env] {
			t.Setenv(env, "")
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom("", "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.DB.Driver != db.DriverPostgres || cfg.DB.Host != "db" || cfg.DB.Port != 5432 {
		t.Errorf("unexpected db defaults: %+v", cfg.DB)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if !cfg.UsesDefaultSecret() {
		t.Errorf("expected default secret to be reported")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, "config.yml", `
port: "8081"
db:
  driver: sqlite
  path: from-file.db
auth:
  token_ttl: 30m
`)
	t.Setenv("DB_PATH", "from-env.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadFrom(file, "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want value from file", cfg.Port)
	}
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.Path != "from-env.db" {
		t.Errorf("unexpected db section: %+v", cfg.DB)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.Auth.TokenTTL)
	}
	if cfg.UsesDefaultSecret() || cfg.AuthService().SigningKey != "s3cret" {
		t.Errorf("JWT_SECRET not applied: %+v", cfg.Auth)
	}
	if got := cfg.CORS.AllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", got)
	}
}

func TestLoadFrom_DotEnvFile(t *testing.T) {
	clearEnv(t, "DB_NAME")
	_ = os.Unsetenv("DB_NAME")
	t.Cleanup(func() { _ = os.Unsetenv("DB_NAME") })

	envFile := writeFile(t, ".env", "DB_NAME=studytrack\n")

	cfg, err := LoadFrom("", envFile)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DB.Name != "studytrack" {
		t.Errorf("DB.Name = %q, want value from .env", cfg.DB.Name)
	}
}

func TestLoadFrom_MissingExplicitFileFails(t *testing.T) {
	clearEnv(t)
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yml"), ""); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadFrom_InvalidSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("BCRYPT_COST", "99")

	_, err := LoadFrom("", "")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"db.driver", "auth.bcrypt_cost"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestConfig_Database(t *testing.T) {
	cfg := Config{DB: DBConfig{Driver: db.DriverSQLite, Path: "x.db", MaxOpenConns: 3}}
	got := cfg.Database()
	if got.Driver != db.DriverSQLite || got.Path != "x.db" || got.MaxOpenConns != 3 {
		t.Fatalf("Database() = %+v", got)
	}
}
