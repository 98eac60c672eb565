package observability

import (
	"testing"

	"github.com/smallbiznis/showroom/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDerivesFromAppConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment: "production",
		AppVersion:  "1.2.3",
		LogLevel:    "info",
		LogFormat:   "json",
		Otel:        config.OtelConfig{Enabled: true, Endpoint: "collector:4317", Protocol: "grpc", SamplingRatio: 0.2},
	})
	assert.Equal(t, "showroom", cfg.ServiceName)
	assert.False(t, cfg.Debug())

	tr := cfg.tracingConfig()
	assert.True(t, tr.Enabled)
	assert.Equal(t, "collector:4317", tr.ExporterEndpoint)
	assert.Equal(t, 0.2, tr.SamplingRatio)
	assert.Equal(t, "1.2.3", tr.ServiceVersion)

	lg := cfg.loggerConfig()
	assert.False(t, lg.IncludeStackOnError)

	dev := LoadConfig(config.Config{AppName: "showroom-dev", Environment: "local"})
	assert.True(t, dev.Debug())
	assert.True(t, dev.loggerConfig().Debug)
	assert.Equal(t, "showroom-dev", dev.metricsConfig().ServiceName)
}
