package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_PORT", "LOG_LEVEL", "LOG_FORMAT", "STORAGE_DRIVER", "SQLITE_PATH",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_NAMESPACE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN",
	"WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_NOTIFY_TO", "WHATSAPP_ALLOWED_SENDERS",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "GOOGLE_SHEET_REPORT_RANGE",
	"ARCHIVE_CRON_SCHEDULE", "DIGEST_CRON_SCHEDULE", "WEEKLY_CRON_SCHEDULE", "TIMEZONE",
	"MONGODB_URI", "MONGODB_DB_NAME",
}

// clearEnv unsets every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data/farmdash.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
	assert.Empty(t, cfg.MongoDB.URI)
	assert.Equal(t, "Africa/Conakry", cfg.Reporting.Location().String())
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
STORAGE_DRIVER=Redis
REDIS_ADDR=cache:6379
REDIS_DB=2
WHATSAPP_TOKEN=token
WHATSAPP_PHONE_NUMBER_ID=12345
META_VERIFY_TOKEN=verify
WHATSAPP_ALLOWED_SENDERS=224600000001, 224600000002 ,
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.True(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, []string{"224600000001", "224600000002"}, cfg.WhatsApp.AllowedSenders)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "postgres"}, want: "STORAGE_DRIVER"},
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "two"}, want: "REDIS_DB"},
		{name: "whatsapp without verify token", env: map[string]string{"WHATSAPP_TOKEN": "t", "WHATSAPP_PHONE_NUMBER_ID": "1"}, want: "META_VERIFY_TOKEN"},
		{name: "half configured sheets", env: map[string]string{"GOOGLE_SHEET_DATABASE_ID": "sheet"}, want: "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{name: "unknown timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}, want: "TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
