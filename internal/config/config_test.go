package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")
	t.Setenv("SHARE_LINK_RETENTION", "48h")
	t.Setenv("AUTH_JWT_TTL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Otel.Enabled)
	assert.Equal(t, 0.5, cfg.Otel.SamplingRatio)
	assert.Equal(t, 48*time.Hour, cfg.ShareLinkRetention)
	assert.Equal(t, 24*time.Hour, cfg.AuthJWTTTL)
	assert.Equal(t, time.Hour, cfg.SchedulerInterval)
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, Config{Environment: "Development"}.IsDevelopment())
	assert.True(t, Config{Environment: "production", LogLevel: "debug"}.IsDevelopment())
	assert.False(t, Config{Environment: "production", LogLevel: "info"}.IsDevelopment())
	assert.True(t, Config{Environment: " PRODUCTION "}.IsProduction())
}

func TestGetenvBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SHOWROOM_FLAG", "maybe")
	assert.True(t, getenvBool("SHOWROOM_FLAG", true))
	t.Setenv("SHOWROOM_FLAG", "off")
	assert.False(t, getenvBool("SHOWROOM_FLAG", true))
}
