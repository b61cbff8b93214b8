package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
feed:
  symbol_a: BTCUSDT
  symbol_b: ETHUSDT
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Feed.Source != "websocket" {
		t.Fatalf("expected default feed source websocket, got %s", cfg.Feed.Source)
	}
	if cfg.Analytics.WindowSize != 50 {
		t.Fatalf("expected default window 50, got %d", cfg.Analytics.WindowSize)
	}
	if cfg.Analytics.HistorySize != 500 {
		t.Fatalf("expected default history 500, got %d", cfg.Analytics.HistorySize)
	}
	if cfg.Analytics.EntryThreshold != 2.0 || cfg.Analytics.ExitThreshold != 0.5 {
		t.Fatalf("unexpected default thresholds: %+v", cfg.Analytics)
	}
	if cfg.Analytics.HedgeRatio != 25.0 {
		t.Fatalf("expected default hedge ratio 25, got %v", cfg.Analytics.HedgeRatio)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 2*time.Second {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestLoadMissingEnvironment(t *testing.T) {
	body := `
feed:
  symbol_a: BTCUSDT
  symbol_b: ETHUSDT
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for missing environment")
	}
}

func TestLoadIdenticalSymbols(t *testing.T) {
	body := `
environment: test
feed:
  symbol_a: BTCUSDT
  symbol_b: btcusdt
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for identical symbols")
	}
}

func TestLoadBadFeedSource(t *testing.T) {
	body := `
environment: test
feed:
  source: carrier-pigeon
  symbol_a: BTCUSDT
  symbol_b: ETHUSDT
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for unknown feed source")
	}
}

func TestLoadKafkaFeedRequiresBrokers(t *testing.T) {
	body := `
environment: test
feed:
  source: kafka
  symbol_a: BTCUSDT
  symbol_b: ETHUSDT
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for kafka feed without brokers")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOL_A", "SOLUSDT")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Feed.SymbolA != "SOLUSDT" {
		t.Fatalf("expected env override SOLUSDT, got %s", cfg.Feed.SymbolA)
	}
	if cfg.Cache.Redis.Host != "cache.internal" {
		t.Fatalf("expected redis host override, got %s", cfg.Cache.Redis.Host)
	}
}

func TestLoadWindowTooSmall(t *testing.T) {
	body := `
environment: test
feed:
  symbol_a: BTCUSDT
  symbol_b: ETHUSDT
analytics:
  window_size: 1
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for window below 2")
	}
}
