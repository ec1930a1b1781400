package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Forecast.Backend != "recurrent" {
		t.Fatalf("expected default backend recurrent, got %q", cfg.Forecast.Backend)
	}
	if cfg.Forecast.Lookback != 7 || cfg.Forecast.Epochs != 50 || cfg.Forecast.BatchSize != 32 || cfg.Forecast.HiddenSize != 50 {
		t.Fatalf("unexpected forecast defaults %+v", cfg.Forecast)
	}
	if cfg.ClickHouse.HistoryDays != 90 {
		t.Fatalf("expected 90 history days, got %d", cfg.ClickHouse.HistoryDays)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "environment: test\nforecast:\n  backend: quadratic\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 5000\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing environment")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\nserver:\n  port: 5000\n")
	t.Setenv("PORT", "8080")
	t.Setenv("FORECAST_BACKEND", "linear")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Forecast.Backend != "linear" {
		t.Fatalf("expected backend linear, got %q", cfg.Forecast.Backend)
	}
}
