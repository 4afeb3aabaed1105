package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("TRADES_BASE_URL", "https://example.test/")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://example.test", cfg.TradesBaseURL)
	assert.Equal(t, "https://example.test/trades?pageSize=96", cfg.TradesURL)
	assert.Equal(t, 3, cfg.FetchMaxRetries)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5000, cfg.AnomalyMinDocBytes)
	assert.False(t, cfg.RunOnce)
	assert.Equal(t, "serve", cfg.RunMode)
	assert.Equal(t, "operator", cfg.OperatorSubject)
	assert.Equal(t, 15*time.Minute, cfg.OperatorTokenTTL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TRADES_URL", "https://example.test/trades")
	t.Setenv("FETCH_MAX_RETRIES", "5")
	t.Setenv("FETCH_RATE_PER_SECOND", "0.5")
	t.Setenv("HTML_CACHE_TTL", "1h")
	t.Setenv("RUN_ONCE", "true")
	t.Setenv("API_JWT_SECRET", "s3cret")
	t.Setenv("RUN_MODE", " Token ")
	t.Setenv("OPERATOR_SUBJECT", "ops-oncall")
	t.Setenv("OPERATOR_TOKEN_TTL", "24h")

	cfg := FromEnv()

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "https://example.test/trades", cfg.TradesURL)
	assert.Equal(t, 5, cfg.FetchMaxRetries)
	assert.Equal(t, 0.5, cfg.FetchRatePerSecond)
	assert.Equal(t, time.Hour, cfg.HTMLCacheTTL)
	assert.True(t, cfg.RunOnce)
	assert.Equal(t, "s3cret", cfg.APIJWTSecret)
	assert.Equal(t, "token", cfg.RunMode)
	assert.Equal(t, "ops-oncall", cfg.OperatorSubject)
	assert.Equal(t, 24*time.Hour, cfg.OperatorTokenTTL)
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FETCH_MAX_RETRIES", "many")
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("RUN_ONCE", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.FetchMaxRetries)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.RunOnce)
}
