package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Row sources
const (
	RowSourceSheets   = "sheets"
	RowSourceCSV      = "csv"
	RowSourcePostgres = "postgres"
)

// State backends
const (
	StateMemory = "memory"
	StateRedis  = "redis"
	StateBolt   = "bolt"
	StateSQLite = "sqlite"
)

// Bot modes
const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

type Config struct {
	BotToken      string
	BotMode       string
	Port          string
	WebhookURL    string
	WebhookSecret string

	RowSource         string
	SheetURL          string
	SheetName         string
	GoogleCredentials []byte
	CSVPath           string
	DatabaseURL       string
	PGTable           string

	StateBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BoltPath      string
	SQLitePath    string
	SessionTTL    time.Duration

	RateLimit float64
	RateBurst int

	LogLevel  string
	LogFormat string
}

// BotConfigured reports whether a Telegram token is present
func (c *Config) BotConfigured() bool {
	return c.BotToken != ""
}

// RowsConfigured reports whether the selected row source has what it needs.
func (c *Config) RowsConfigured() bool {
	switch c.RowSource {
	case RowSourceSheets:
		return c.SheetURL != "" && len(c.GoogleCredentials) > 0
	case RowSourceCSV:
		return c.CSVPath != ""
	case RowSourcePostgres:
		return c.DatabaseURL != "" && c.PGTable != ""
	}
	return false
}

// MissingRowSettings names the settings the row source still lacks
func (c *Config) MissingRowSettings() []string {
	var missing []string
	switch c.RowSource {
	case RowSourceSheets:
		if c.SheetURL == "" {
			missing = append(missing, "SHEET_URL")
		}
		if len(c.GoogleCredentials) == 0 {
			missing = append(missing, "GOOGLE_CREDENTIALS_BASE64")
		}
	case RowSourceCSV:
		if c.CSVPath == "" {
			missing = append(missing, "CSV_PATH")
		}
	case RowSourcePostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
		if c.PGTable == "" {
			missing = append(missing, "PG_TABLE")
		}
	}
	return missing
}

// Load reads configuration from .env, an optional config file and the environment.
// Absent settings are not an error; malformed ones are.
func Load() (*Config, error) {
	// .env is optional, production sets real env vars
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	setDefaults(v)

	cfg := &Config{
		BotToken:      firstNonEmpty(v.GetString("BOT_TOKEN"), v.GetString("TOKEN")),
		BotMode:       strings.ToLower(v.GetString("BOT_MODE")),
		Port:          v.GetString("PORT"),
		WebhookURL:    v.GetString("WEBHOOK_URL"),
		WebhookSecret: v.GetString("WEBHOOK_SECRET"),
		RowSource:     strings.ToLower(v.GetString("ROW_SOURCE")),
		SheetURL:      strings.TrimSpace(v.GetString("SHEET_URL")),
		SheetName:     v.GetString("SHEET_NAME"),
		CSVPath:       v.GetString("CSV_PATH"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		PGTable:       v.GetString("PG_TABLE"),
		StateBackend:  strings.ToLower(v.GetString("STATE_BACKEND")),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		BoltPath:      v.GetString("BOLT_PATH"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:     strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	var err error
	if cfg.GoogleCredentials, err = loadCredentials(v); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseInt("REDIS_DB", v.GetString("REDIS_DB")); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = parseInt("RATE_BURST", v.GetString("RATE_BURST")); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = strconv.ParseFloat(v.GetString("RATE_LIMIT"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(v.GetString("SESSION_TTL")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("BOT_MODE", ModeWebhook)
	v.SetDefault("PORT", "8080")
	v.SetDefault("ROW_SOURCE", RowSourceSheets)
	v.SetDefault("CSV_PATH", "data/rows.csv")
	v.SetDefault("PG_TABLE", "armada_ban")
	v.SetDefault("STATE_BACKEND", StateMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", "0")
	v.SetDefault("BOLT_PATH", "data/sessions.db")
	v.SetDefault("SQLITE_PATH", "data/sessions.sqlite")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("RATE_LIMIT", "2")
	v.SetDefault("RATE_BURST", "10")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// loadCredentials prefers the base64 blob over raw JSON
func loadCredentials(v *viper.Viper) ([]byte, error) {
	if b64 := strings.TrimSpace(v.GetString("GOOGLE_CREDENTIALS_BASE64")); b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("invalid GOOGLE_CREDENTIALS_BASE64: %w", err)
		}
		return data, nil
	}
	if raw := strings.TrimSpace(v.GetString("GOOGLE_CREDENTIALS")); raw != "" {
		return []byte(raw), nil
	}
	return nil, nil
}

func (c *Config) validate() error {
	switch c.RowSource {
	case RowSourceSheets, RowSourceCSV, RowSourcePostgres:
	default:
		return fmt.Errorf("unknown ROW_SOURCE %q", c.RowSource)
	}
	switch c.StateBackend {
	case StateMemory, StateRedis, StateBolt, StateSQLite:
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend)
	}
	switch c.BotMode {
	case ModeWebhook, ModePolling:
	default:
		return fmt.Errorf("unknown BOT_MODE %q", c.BotMode)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must not be negative")
	}
	return nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
