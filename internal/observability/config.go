package observability

import (
	"github.com/smallbiznis/showroom/internal/config"
)

// Config is the slice of application config the logger, tracer and meter
// providers are built from.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	Otel  config.OtelConfig
	debug bool
}

func LoadConfig(cfg config.Config) Config {
	name := cfg.AppName
	if name == "" {
		name = "showroom"
	}
	return Config{
		ServiceName: name,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		LogLevel:    cfg.LogLevel,
		LogFormat:   cfg.LogFormat,
		Otel:        cfg.Otel,
		debug:       cfg.IsDevelopment(),
	}
}

// Debug switches on console-friendly logging, stack traces and gin debug mode.
func (c Config) Debug() bool {
	return c.debug
}
