package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg = applyDefaults(cfg)

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.TokenTTL.Minutes() != 30 {
		t.Errorf("expected 30m, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Fortune.CacheCapacity != 100 || cfg.Fortune.DefaultSymbol != "0050" {
		t.Errorf("unexpected fortune defaults: %+v", cfg.Fortune)
	}
	if cfg.Valkey.PriceTTL != 5*time.Minute {
		t.Errorf("expected 5m price ttl, got %v", cfg.Valkey.PriceTTL)
	}
	if cfg.FinMind.Timeout != 10*time.Second {
		t.Errorf("expected 10s finmind timeout, got %v", cfg.FinMind.Timeout)
	}
	if cfg.Ingestion.LookbackDays != 7 || cfg.Ingestion.Cron == "" {
		t.Errorf("unexpected ingestion defaults: %+v", cfg.Ingestion)
	}
	if cfg.Valkey.Enabled() {
		t.Error("valkey should be disabled without addr/url")
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("FORTUNE_CACHE_CAPACITY", "20")
	t.Setenv("VALKEY_ADDR", "localhost:6379")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("INGESTION_CRON", "0 0 15 * * *")

	cfg := Config{}
	cfg = applyEnv(cfg)

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTP.Addr)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Pretty {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Fortune.CacheCapacity != 20 {
		t.Errorf("expected capacity 20, got %d", cfg.Fortune.CacheCapacity)
	}
	if !cfg.Valkey.Enabled() {
		t.Error("valkey should be enabled")
	}
	if cfg.Notifier.Telegram.ChatID != 12345 {
		t.Errorf("expected chat id 12345, got %d", cfg.Notifier.Telegram.ChatID)
	}
	if cfg.Ingestion.Cron != "0 0 15 * * *" {
		t.Errorf("unexpected cron %q", cfg.Ingestion.Cron)
	}
}

func TestConfig_PortOverridesAddr(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PORT", "3000")

	cfg := applyEnv(Config{})
	if cfg.HTTP.Addr != ":3000" {
		t.Errorf("expected :3000, got %s", cfg.HTTP.Addr)
	}
}

func TestConfig_InvalidCapacityIgnored(t *testing.T) {
	t.Setenv("FORTUNE_CACHE_CAPACITY", "abc")

	cfg := applyEnv(applyDefaults(Config{}))
	if cfg.Fortune.CacheCapacity != 100 {
		t.Errorf("expected default capacity kept, got %d", cfg.Fortune.CacheCapacity)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
http:
  addr: ":7070"
fortune:
  cache_capacity: 50
valkey:
  price_ttl: 1m
notifier:
  telegram:
    enabled: true
    chat_id: 42
    profile:
      name: 測試用戶
      birth_date: "1990-01-01"
      birth_time: "10:30"
      zodiac: 馬
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" && os.Getenv("HTTP_ADDR") == "" && os.Getenv("PORT") == "" {
		t.Errorf("expected :7070, got %s", cfg.HTTP.Addr)
	}
	if cfg.Fortune.CacheCapacity != 50 {
		t.Errorf("expected capacity 50, got %d", cfg.Fortune.CacheCapacity)
	}
	if cfg.Valkey.PriceTTL != time.Minute {
		t.Errorf("expected 1m ttl, got %v", cfg.Valkey.PriceTTL)
	}
	p := cfg.Notifier.Telegram.Profile
	if p.Name != "測試用戶" || p.Zodiac != "馬" || p.BirthTime != "10:30" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Fortune.DefaultSymbol != "0050" {
		t.Errorf("expected defaults, got %+v", cfg.Fortune)
	}
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http: [\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}
