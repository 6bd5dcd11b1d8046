package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/textil-api/pkg/config"
)

func TestLoad_DefaultsYEnv(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "https://api.example.test")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BILLING_SUBMIT_TIMEOUT_SECONDS", "7")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 7*time.Second, cfg.Billing.SubmitTimeout)
	assert.Equal(t, 15*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "invoice_counter", cfg.Billing.CounterKey)
	assert.False(t, cfg.DB.Enabled())
}

func TestLoad_SinBackendFalla(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "https://api.example.test")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "textil", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/textil?sslmode=disable", c.DSN())
	assert.True(t, c.Enabled())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.DSN())
}
