package config

import (
	"strings"
	"testing"

	"github.com/selenevara/astroatlas/internal/core/astro"
)

func TestLoad_DefaultsAreValid(t *testing.T) {
	cfg, err := Load("api")
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Telemetry.ServiceName != "api" {
		t.Errorf("telemetry.service_name = %q, want the passed service", cfg.Telemetry.ServiceName)
	}
	if cfg.Engine.Resolution != astro.DefaultResolution {
		t.Errorf("engine.resolution = %g, want %g", cfg.Engine.Resolution, astro.DefaultResolution)
	}
	if cfg.Engine.Thresholds != astro.DefaultThresholds() {
		t.Errorf("engine thresholds diverged from the stock table: %+v", cfg.Engine.Thresholds)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "astro", Password: "s3cret", DBName: "astroatlas", SSLMode: "require"}
	want := "postgres://astro:s3cret@db:5433/astroatlas?sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestValidate_CollectsViolations(t *testing.T) {
	cfg, err := Load("api")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Server.Port = 0
	cfg.Database.Host = ""
	cfg.Engine.Resolution = 99
	cfg.Engine.Thresholds.Overlap.TightMax = 50

	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate passed a broken config")
	}
	for _, want := range []string{"server.port", "database.host", "engine.resolution", "overlap"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("combined error misses %q: %v", want, err)
		}
	}
}
