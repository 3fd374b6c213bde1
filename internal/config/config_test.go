// ABOUTME: Tests for configuration loading, env expansion, and validation
// ABOUTME: Exercises defaults and each Validate failure mode

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "studiod.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
server:
  http_addr: ":8080"
  cors_origins: ["http://localhost:4200"]
database:
  path: "data/studiod.db"
auth:
  jwt_secret: "super-secret"
  token_lifetime: "30m"
logging:
  level: "debug"
  format: "json"
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Auth.JWTSecret != "super-secret" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenLifetime != 30*time.Minute {
		t.Errorf("TokenLifetime = %v, want 30m", cfg.Auth.TokenLifetime)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("STUDIOD_TEST_SECRET", "from-env")

	content := strings.Replace(validConfig, `jwt_secret: "super-secret"`, `jwt_secret: "${STUDIOD_TEST_SECRET}"`, 1)
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want from-env", cfg.Auth.JWTSecret)
	}
}

func TestLoad_DefaultTokenLifetime(t *testing.T) {
	content := strings.Replace(validConfig, `token_lifetime: "30m"`, "", 1)
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.TokenLifetime != DefaultTokenLifetime {
		t.Errorf("TokenLifetime = %v, want default %v", cfg.Auth.TokenLifetime, DefaultTokenLifetime)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mangle  func(string) string
		wantErr string
	}{
		{
			name:    "missing http addr",
			mangle:  func(s string) string { return strings.Replace(s, `http_addr: ":8080"`, "", 1) },
			wantErr: "server.http_addr",
		},
		{
			name:    "missing database path",
			mangle:  func(s string) string { return strings.Replace(s, `path: "data/studiod.db"`, "", 1) },
			wantErr: "database.path",
		},
		{
			name:    "missing jwt secret",
			mangle:  func(s string) string { return strings.Replace(s, `jwt_secret: "super-secret"`, "", 1) },
			wantErr: "auth.jwt_secret",
		},
		{
			name:    "bad token lifetime",
			mangle:  func(s string) string { return strings.Replace(s, `"30m"`, `"soon"`, 1) },
			wantErr: "token_lifetime",
		},
		{
			name:    "negative token lifetime",
			mangle:  func(s string) string { return strings.Replace(s, `"30m"`, `"-1h"`, 1) },
			wantErr: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.mangle(validConfig)))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() on missing file succeeded, want error")
	}
}
