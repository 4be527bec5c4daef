package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Storage.Driver != DriverSQLite || cfg.AI.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AI.Timeout != 60*time.Second || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected durations: ai=%s token=%s", cfg.AI.Timeout, cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("expected a development jwt secret")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":            "production",
		"JWT_SECRET":     "s3cret",
		"STORAGE_DRIVER": "postgres",
		"DATABASE_DSN":   "postgres://localhost/wellbeing",
		"MIGRATIONS":     "true",
		"AI_TIMEOUT":     "15s",
		"CORS_ORIGINS":   "https://a.example,https://b.example",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Storage.Migrations || cfg.AI.Timeout != 15*time.Second || len(cfg.CORSOrigins) != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret in production", env: map[string]string{"ENV": "production"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "oracle"}},
		{name: "postgres without dsn", env: map[string]string{"STORAGE_DRIVER": "postgres"}},
		{name: "migrations on sqlite", env: map[string]string{"MIGRATIONS": "true"}},
		{name: "zero ai timeout", env: map[string]string{"AI_TIMEOUT": "0s"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(context.Background(), envconfig.MapLookuper(tt.env)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
