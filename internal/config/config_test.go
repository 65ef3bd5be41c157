package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TOKEN", "")
	t.Setenv("SHEET_URL", "")
	t.Setenv("GOOGLE_CREDENTIALS_BASE64", "")
	t.Setenv("GOOGLE_CREDENTIALS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.BotConfigured())
	assert.False(t, cfg.RowsConfigured())
	assert.Equal(t, []string{"SHEET_URL", "GOOGLE_CREDENTIALS_BASE64"}, cfg.MissingRowSettings())
	assert.Equal(t, ModeWebhook, cfg.BotMode)
	assert.Equal(t, StateMemory, cfg.StateBackend)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2.0, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateBurst)
}

func TestLoad_TokenFallback(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)

	t.Setenv("BOT_TOKEN", "456:def")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "456:def", cfg.BotToken)
}

func TestLoad_Credentials(t *testing.T) {
	creds := `{"type":"service_account"}`
	t.Setenv("SHEET_URL", "https://docs.google.com/spreadsheets/d/abc123/edit")
	t.Setenv("GOOGLE_CREDENTIALS", "")
	t.Setenv("GOOGLE_CREDENTIALS_BASE64", base64.StdEncoding.EncodeToString([]byte(creds)))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, creds, string(cfg.GoogleCredentials))
	assert.True(t, cfg.RowsConfigured())

	t.Setenv("GOOGLE_CREDENTIALS_BASE64", "")
	t.Setenv("GOOGLE_CREDENTIALS", creds)
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, creds, string(cfg.GoogleCredentials))
}

func TestLoad_Malformed(t *testing.T) {
	cases := map[string][2]string{
		"bad base64":    {"GOOGLE_CREDENTIALS_BASE64", "%%%not-base64"},
		"bad ttl":       {"SESSION_TTL", "forever"},
		"bad backend":   {"STATE_BACKEND", "etcd"},
		"bad source":    {"ROW_SOURCE", "excel"},
		"bad mode":      {"BOT_MODE", "carrier-pigeon"},
		"bad rate":      {"RATE_LIMIT", "fast"},
		"bad redis db":  {"REDIS_DB", "one"},
		"negative rate": {"RATE_LIMIT", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRowsConfigured_CSV(t *testing.T) {
	cfg := &Config{RowSource: RowSourceCSV, CSVPath: "rows.csv"}
	assert.True(t, cfg.RowsConfigured())
	assert.Empty(t, cfg.MissingRowSettings())

	cfg = &Config{RowSource: RowSourcePostgres, PGTable: "armada_ban"}
	assert.False(t, cfg.RowsConfigured())
	assert.Equal(t, []string{"DATABASE_URL"}, cfg.MissingRowSettings())
}
