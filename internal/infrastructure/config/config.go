package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 儲存 HTTP API 及外部相依的執行設定。
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Fortune   FortuneConfig   `yaml:"fortune"`
	FinMind   FinMindConfig   `yaml:"finmind"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Notifier  NotifierConfig  `yaml:"notifier"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DBConfig struct {
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxIdleTime  time.Duration `yaml:"max_idle_time"`
}

type AuthConfig struct {
	TokenTTL   time.Duration `yaml:"token_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
	Secret     string        `yaml:"secret"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type FortuneConfig struct {
	CacheCapacity int    `yaml:"cache_capacity"`
	DefaultSymbol string `yaml:"default_symbol"`
}

type FinMindConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// ValkeyConfig 未設定 Addr 與 URL 時改用記憶體快取。
type ValkeyConfig struct {
	Addr     string        `yaml:"addr"`
	URL      string        `yaml:"url"`
	PriceTTL time.Duration `yaml:"price_ttl"`
}

// Enabled 表示是否設定了遠端快取。
func (v ValkeyConfig) Enabled() bool {
	return v.Addr != "" || v.URL != ""
}

type IngestionConfig struct {
	UseSynthetic bool   `yaml:"use_synthetic"`
	Cron         string `yaml:"cron"`
	LookbackDays int    `yaml:"lookback_days"`
}

type NotifierConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	Enabled bool          `yaml:"enabled"`
	Token   string        `yaml:"token"`
	ChatID  int64         `yaml:"chat_id"`
	Cron    string        `yaml:"cron"`
	Profile ProfileConfig `yaml:"profile"`
}

// ProfileConfig 為每日推播使用的命盤。
type ProfileConfig struct {
	Name      string `yaml:"name"`
	BirthDate string `yaml:"birth_date"`
	BirthTime string `yaml:"birth_time"`
	Zodiac    string `yaml:"zodiac"`
}

// LoadFromFile 從 YAML 組態檔載入設定。
func LoadFromFile(path string) (Config, error) {
	// 嘗試載入 .env 檔案（如果存在）
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg = applyDefaults(cfg)
	cfg = applyEnv(cfg)
	return cfg, nil
}

func applyDefaults(cfg Config) Config {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 5
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 2
	}
	if cfg.DB.MaxIdleTime == 0 {
		cfg.DB.MaxIdleTime = 15 * time.Minute
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 30 * time.Minute
	}
	if cfg.Auth.RefreshTTL == 0 {
		cfg.Auth.RefreshTTL = 24 * time.Hour * 30
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-secret-change-me"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Fortune.CacheCapacity == 0 {
		cfg.Fortune.CacheCapacity = 100
	}
	if cfg.Fortune.DefaultSymbol == "" {
		cfg.Fortune.DefaultSymbol = "0050"
	}
	if cfg.FinMind.BaseURL == "" {
		cfg.FinMind.BaseURL = "https://api.finmindtrade.com/api/v4"
	}
	if cfg.FinMind.Timeout == 0 {
		cfg.FinMind.Timeout = 10 * time.Second
	}
	if cfg.Valkey.PriceTTL == 0 {
		cfg.Valkey.PriceTTL = 5 * time.Minute
	}
	if cfg.Ingestion.Cron == "" {
		// 週一至週五 14:30（收盤後）
		cfg.Ingestion.Cron = "0 30 14 * * 1-5"
	}
	if cfg.Ingestion.LookbackDays == 0 {
		cfg.Ingestion.LookbackDays = 7
	}
	if cfg.Notifier.Telegram.Cron == "" {
		cfg.Notifier.Telegram.Cron = "0 30 8 * * 1-5"
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	if val := os.Getenv("HTTP_ADDR"); val != "" {
		cfg.HTTP.Addr = val
	}
	if val := os.Getenv("PORT"); val != "" {
		cfg.HTTP.Addr = ":" + val
	}
	if val := os.Getenv("DB_DSN"); val != "" {
		cfg.DB.DSN = val
	}
	if val := os.Getenv("AUTH_SECRET"); val != "" {
		cfg.Auth.Secret = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("LOG_PRETTY"); val != "" {
		cfg.Log.Pretty = (val == "true")
	}
	if val := os.Getenv("FORTUNE_CACHE_CAPACITY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Fortune.CacheCapacity = n
		}
	}
	if val := os.Getenv("FINMIND_TOKEN"); val != "" {
		cfg.FinMind.Token = val
	}
	if val := os.Getenv("VALKEY_ADDR"); val != "" {
		cfg.Valkey.Addr = val
	}
	if val := os.Getenv("VALKEY_URL"); val != "" {
		cfg.Valkey.URL = val
	}
	if val := os.Getenv("USE_SYNTHETIC"); val != "" {
		cfg.Ingestion.UseSynthetic = (val == "true")
	}
	if val := os.Getenv("INGESTION_CRON"); val != "" {
		cfg.Ingestion.Cron = val
	}
	if val := os.Getenv("TELEGRAM_TOKEN"); val != "" {
		cfg.Notifier.Telegram.Token = val
	}
	if val := os.Getenv("TELEGRAM_CHAT_ID"); val != "" {
		if id, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Notifier.Telegram.ChatID = id
		}
	}
	if val := os.Getenv("TELEGRAM_ENABLED"); val != "" {
		cfg.Notifier.Telegram.Enabled = (val == "true")
	}
	if val := os.Getenv("TELEGRAM_CRON"); val != "" {
		cfg.Notifier.Telegram.Cron = val
	}
	return cfg
}
