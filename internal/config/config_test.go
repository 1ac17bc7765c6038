package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("GAME_DAY_TIMEZONE", "")
	t.Setenv("GAME_NIGHT_BOUNDARY", "")
	t.Setenv("SCORING_BATCH_SIZE", "")
	t.Setenv("CAPTAIN_MULTIPLIER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store != StorePostgres {
		t.Fatalf("unexpected Store: %q", cfg.Store)
	}
	if cfg.ScoringBatchSize != 1000 {
		t.Fatalf("unexpected ScoringBatchSize: %d", cfg.ScoringBatchSize)
	}
	if !cfg.ScoringStrictTiers {
		t.Fatalf("expected strict tiers by default")
	}
	if cfg.GameDayLocation != time.UTC {
		t.Fatalf("expected UTC game day, got %s", cfg.GameDayLocation)
	}
	if cfg.GameNightBoundary != 12*time.Hour {
		t.Fatalf("unexpected GameNightBoundary: %s", cfg.GameNightBoundary)
	}
	if cfg.CaptainMultiplier != 1.3 {
		t.Fatalf("unexpected CaptainMultiplier: %v", cfg.CaptainMultiplier)
	}
	if !cfg.ScoringCircuit.Enabled || cfg.ScoringCircuit.FailureThreshold != 3 {
		t.Fatalf("unexpected scoring circuit: %+v", cfg.ScoringCircuit)
	}
}

func TestLoad_GameDaySettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("GAME_DAY_TIMEZONE", "America/Toronto")
	t.Setenv("GAME_NIGHT_BOUNDARY", "6h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GameDayLocation.String() != "America/Toronto" {
		t.Fatalf("unexpected GameDayLocation: %s", cfg.GameDayLocation)
	}
	if cfg.GameNightBoundary != 6*time.Hour {
		t.Fatalf("unexpected GameNightBoundary: %s", cfg.GameNightBoundary)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero batch size", key: "SCORING_BATCH_SIZE", value: "0"},
		{name: "non numeric batch size", key: "SCORING_BATCH_SIZE", value: "many"},
		{name: "unknown timezone", key: "GAME_DAY_TIMEZONE", value: "Mars/Olympus"},
		{name: "boundary past a day", key: "GAME_NIGHT_BOUNDARY", value: "24h"},
		{name: "negative boundary", key: "GAME_NIGHT_BOUNDARY", value: "-1h"},
		{name: "zero captain multiplier", key: "CAPTAIN_MULTIPLIER", value: "0"},
		{name: "bad strict flag", key: "SCORING_STRICT_TIERS", value: "maybe"},
		{name: "zero circuit failures", key: "SCORING_CIRCUIT_FAILURE_COUNT", value: "0"},
		{name: "zero pool", key: "WORKER_POOL_SIZE", value: "0"},
		{name: "zero cache ttl", key: "CACHE_TTL", value: "0s"},
		{name: "unknown store", key: "APP_STORE", value: "redis"},
		{name: "seed file without memory store", key: "APP_SEED_FILE", value: "demo.json"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_MemoryStore(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_STORE", " Memory ")
	t.Setenv("APP_SEED_FILE", "db/fixtures/demo.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Fatalf("unexpected Store: %q", cfg.Store)
	}
	if cfg.SeedFile != "db/fixtures/demo.json" {
		t.Fatalf("unexpected SeedFile: %q", cfg.SeedFile)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)
	if got != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn: %q", got)
	}
}

func TestLoad_EnvFileFillsUnsetVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.env")
	if err := os.WriteFile(path, []byte("SCORING_BATCH_SIZE=250\nCAPTAIN_MULTIPLIER=2\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("ENV_FILE", path)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CAPTAIN_MULTIPLIER", "1.5")
	// Registered for cleanup, then unset so the file value applies.
	t.Setenv("SCORING_BATCH_SIZE", "")
	if err := os.Unsetenv("SCORING_BATCH_SIZE"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ScoringBatchSize != 250 {
		t.Fatalf("expected batch size from env file, got %d", cfg.ScoringBatchSize)
	}
	if cfg.CaptainMultiplier != 1.5 {
		t.Fatalf("expected process env to win over env file, got %v", cfg.CaptainMultiplier)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing ENV_FILE")
	}
}
