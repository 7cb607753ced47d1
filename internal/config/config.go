// Package config loads the bot's runtime configuration from the environment,
// an optional .env file and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config is built once at startup and passed explicitly to every component.
type Config struct {
	TelegramToken   string
	DatabaseURL     string
	AuthorizedUsers []string

	Mode       string
	WebhookURL string
	HTTPAddr   string
	Debug      bool

	StockTable     string
	ListingTable   string
	ListingColumn  string
	ListingURLBase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminChatID     int64
	SummaryInterval time.Duration
}

var defaults = map[string]any{
	"BOT_MODE":         ModePolling,
	"HTTP_ADDR":        ":8080",
	"BOT_DEBUG":        false,
	"STOCK_TABLE":      "stock",
	"LISTING_TABLE":    "ebujiteri",
	"LISTING_COLUMN":   "shopier_id",
	"LISTING_URL_BASE": "https://shopier.com/",
	"REDIS_DB":         0,
	"ADMIN_CHAT_ID":    0,
	"SUMMARY_INTERVAL": "24h",
}

var required = []string{"TELEGRAM_BOT_TOKEN", "DATABASE_URL", "AUTHORIZED_USERS"}

// Load reads .env (if present), config.yaml (if present) and the environment.
func Load() (Config, error) {
	// A missing .env is the normal case in containers.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance,
// with environment variables taking precedence.
func FromViper(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range required {
		// AutomaticEnv only resolves keys viper already knows about.
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("WEBHOOK_URL")
	_ = v.BindEnv("REDIS_ADDR")
	_ = v.BindEnv("REDIS_PASSWORD")

	for _, key := range required {
		if !v.IsSet(key) || strings.TrimSpace(v.GetString(key)) == "" {
			return Config{}, fmt.Errorf("environment variable %s not found", key)
		}
	}

	interval, err := time.ParseDuration(v.GetString("SUMMARY_INTERVAL"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SUMMARY_INTERVAL: %w", err)
	}

	cfg := Config{
		TelegramToken:   strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		DatabaseURL:     strings.TrimSpace(v.GetString("DATABASE_URL")),
		AuthorizedUsers: strings.Split(v.GetString("AUTHORIZED_USERS"), ","),
		Mode:            strings.ToLower(strings.TrimSpace(v.GetString("BOT_MODE"))),
		WebhookURL:      strings.TrimSpace(v.GetString("WEBHOOK_URL")),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		Debug:           v.GetBool("BOT_DEBUG"),
		StockTable:      v.GetString("STOCK_TABLE"),
		ListingTable:    v.GetString("LISTING_TABLE"),
		ListingColumn:   v.GetString("LISTING_COLUMN"),
		ListingURLBase:  v.GetString("LISTING_URL_BASE"),
		RedisAddr:       strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		AdminChatID:     v.GetInt64("ADMIN_CHAT_ID"),
		SummaryInterval: interval,
	}

	switch cfg.Mode {
	case ModePolling:
	case ModeWebhook:
		if cfg.WebhookURL == "" {
			return Config{}, fmt.Errorf("environment variable WEBHOOK_URL not found (required when BOT_MODE=%s)", ModeWebhook)
		}
	default:
		return Config{}, fmt.Errorf("invalid BOT_MODE %q: must be %s or %s", cfg.Mode, ModePolling, ModeWebhook)
	}
	if cfg.SummaryInterval <= 0 {
		return Config{}, fmt.Errorf("invalid SUMMARY_INTERVAL %s: must be positive", cfg.SummaryInterval)
	}

	return cfg, nil
}
