package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TOKEN", "123456:ABC-DEF")
	t.Setenv("CHAT_ID", "-1001234567890")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(-1001234567890), cfg.ChatID)
	assert.Equal(t, 300*time.Second, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.PollTimeout)
	assert.Equal(t, "Swiss Mech Chat", cfg.ChatName)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5, cfg.LogMaxSizeMB)
	assert.False(t, cfg.AuditEnabled())
	assert.False(t, cfg.AdminEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TIMEOUT", "60")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DB_HOST", "db")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("WEBHOOK_BASE_URL", "https://bot.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.AuditEnabled())
	assert.True(t, cfg.AdminEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"TOKEN": "", "CHAT_ID": "-100"}},
		{name: "missing chat", env: map[string]string{"TOKEN": "1:a", "CHAT_ID": ""}},
		{name: "non numeric chat", env: map[string]string{"TOKEN": "1:a", "CHAT_ID": "group"}},
		{name: "zero timeout", env: map[string]string{"TOKEN": "1:a", "CHAT_ID": "-100", "TIMEOUT": "0"}},
		{name: "bad timeout", env: map[string]string{"TOKEN": "1:a", "CHAT_ID": "-100", "TIMEOUT": "5m"}},
		{name: "bad log level", env: map[string]string{"TOKEN": "1:a", "CHAT_ID": "-100", "LOG_LEVEL": "trace"}},
		{name: "bad webhook url", env: map[string]string{"TOKEN": "1:a", "CHAT_ID": "-100", "WEBHOOK_BASE_URL": "not a url"}},
		{name: "admin without password", env: map[string]string{"TOKEN": "1:a", "CHAT_ID": "-100", "ADMIN_USERNAME": "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
