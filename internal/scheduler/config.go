package scheduler

import (
	"time"

	"github.com/smallbiznis/showroom/internal/config"
)

// Config controls how often housekeeping runs and what it removes.
type Config struct {
	RunInterval        time.Duration
	JobTimeout         time.Duration
	ShareLinkRetention time.Duration
	ImportTempMaxAge   time.Duration
	// TempDir is scanned for abandoned import spools; empty means os.TempDir.
	TempDir string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:        time.Hour,
		JobTimeout:         30 * time.Second,
		ShareLinkRetention: 90 * 24 * time.Hour,
		ImportTempMaxAge:   6 * time.Hour,
	}
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval:        cfg.SchedulerInterval,
		ShareLinkRetention: cfg.ShareLinkRetention,
		ImportTempMaxAge:   cfg.ImportTempMaxAge,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.ShareLinkRetention <= 0 {
		c.ShareLinkRetention = defaults.ShareLinkRetention
	}
	if c.ImportTempMaxAge <= 0 {
		c.ImportTempMaxAge = defaults.ImportTempMaxAge
	}
	return c
}
