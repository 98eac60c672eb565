package observability

import (
	"github.com/smallbiznis/showroom/internal/observability/logger"
	"github.com/smallbiznis/showroom/internal/observability/metrics"
	"github.com/smallbiznis/showroom/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module provides the zap logger, the OTel tracer and meter providers, the
// domain instruments and the prometheus HTTP metrics.
var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.loggerConfig,
		Config.tracingConfig,
		Config.metricsConfig,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// The tracer provider registers itself as the otel global; nothing
	// else depends on it, so force its construction.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func (c Config) loggerConfig() logger.Config {
	return logger.Config{
		ServiceName:         c.ServiceName,
		Environment:         c.Environment,
		Version:             c.Version,
		Level:               c.LogLevel,
		Format:              c.LogFormat,
		Debug:               c.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: c.Debug(),
	}
}

func (c Config) tracingConfig() tracing.Config {
	return tracing.Config{
		Enabled:          c.Otel.Enabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.Otel.Endpoint,
		ExporterProtocol: c.Otel.Protocol,
		SamplingRatio:    c.Otel.SamplingRatio,
	}
}

func (c Config) metricsConfig() metrics.Config {
	return metrics.Config{
		Enabled:          c.Otel.Enabled,
		ExporterEndpoint: c.Otel.Endpoint,
		ExporterProtocol: c.Otel.Protocol,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
	}
}
