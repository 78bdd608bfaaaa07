package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadFromAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "app:\n  name: test-app\n")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Name != "test-app" {
		t.Fatalf("expected name from file, got %q", cfg.App.Name)
	}
	if cfg.Cache.Memory.TTL != 5*time.Minute || cfg.Cache.Memory.MaxSize != 100 || cfg.Cache.Memory.KeyPrefixRunes != 100 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache.Memory)
	}
	if cfg.Scheduler.BatchSize != 5 || cfg.Scheduler.Debounce != 100*time.Millisecond {
		t.Fatalf("unexpected scheduler defaults: %+v", cfg.Scheduler)
	}
	if cfg.Cache.Redis.Enabled {
		t.Fatalf("redis second tier must be disabled by default")
	}
}

func TestLoadFromMergesEnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "scheduler:\n  batch_size: 5\n  debounce: 100ms\n")
	writeFile(t, dir, "config.staging.yaml", "scheduler:\n  batch_size: 8\n")
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scheduler.BatchSize != 8 || cfg.Scheduler.Debounce != 100*time.Millisecond {
		t.Fatalf("expected environment file to override batch size only, got %+v", cfg.Scheduler)
	}
}

func TestLoadFromExpandsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "cache:\n  redis:\n    host: ${TEST_REDIS_HOST:fallback}\n    port: ${TEST_REDIS_PORT:6380}\n")
	t.Setenv("TEST_REDIS_HOST", "redis.internal")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.Redis.Host != "redis.internal" || cfg.Cache.Redis.Port != 6380 {
		t.Fatalf("unexpected redis config: %+v", cfg.Cache.Redis)
	}
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing config.yaml")
	}
}

func TestExpandEnvKeepsUnknownPlaceholders(t *testing.T) {
	os.Unsetenv("SURELY_UNDEFINED_VAR")
	if got := expandEnv("a: ${SURELY_UNDEFINED_VAR}"); got != "a: ${SURELY_UNDEFINED_VAR}" {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got := expandEnv("a: ${SURELY_UNDEFINED_VAR:}"); got != "a: " {
		t.Fatalf("empty default should expand to nothing, got %q", got)
	}
}
