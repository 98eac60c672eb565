package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ImportSettings tunes the CSV upload endpoints. It is reloaded from
// import.yml while the server runs.
type ImportSettings struct {
	MaxUploadBytes    int64    `mapstructure:"maxUploadBytes"`
	SampleBytes       int      `mapstructure:"sampleBytes"`
	AllowedExtensions []string `mapstructure:"allowedExtensions"`
	DefaultPC         string   `mapstructure:"defaultPC"`
}

func DefaultImportSettings() ImportSettings {
	return ImportSettings{
		MaxUploadBytes:    10 << 20,
		SampleBytes:       1024,
		AllowedExtensions: []string{".csv"},
	}
}

// AllowsExtension reports whether ext (with leading dot) may be uploaded.
func (s ImportSettings) AllowsExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimSpace(ext))
	for _, allowed := range s.AllowedExtensions {
		if strings.ToLower(strings.TrimSpace(allowed)) == ext {
			return true
		}
	}
	return false
}

type ImportSettingsHolder struct {
	current atomic.Value // holds ImportSettings
}

// NewStaticImportSettings returns a holder that never reloads.
func NewStaticImportSettings(settings ImportSettings) *ImportSettingsHolder {
	holder := &ImportSettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func NewImportSettingsHolder(log *zap.Logger) (*ImportSettingsHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.import")
	v := viper.New()

	v.SetConfigName("import")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/showroom")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SHOWROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultImportSettings()
	v.SetDefault("import.maxUploadBytes", defaults.MaxUploadBytes)
	v.SetDefault("import.sampleBytes", defaults.SampleBytes)
	v.SetDefault("import.allowedExtensions", defaults.AllowedExtensions)
	v.SetDefault("import.defaultPC", defaults.DefaultPC)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg ImportSettings
	if err := v.UnmarshalKey("import", &cfg); err != nil {
		return nil, err
	}
	if err := validateImportSettings(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticImportSettings(cfg)
	if !fileFound {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		holder.reload(v, e.Name, log)
	})
	v.WatchConfig()

	return holder, nil
}

// reload keeps the current settings when the changed file does not decode
// or validate.
func (h *ImportSettingsHolder) reload(v *viper.Viper, source string, log *zap.Logger) bool {
	var updated ImportSettings
	if err := v.UnmarshalKey("import", &updated); err != nil {
		log.Warn("import settings reload failed", zap.String("file", source), zap.Error(err))
		return false
	}
	if err := validateImportSettings(updated); err != nil {
		log.Warn("invalid import settings ignored", zap.String("file", source), zap.Error(err))
		return false
	}
	h.current.Store(updated)
	log.Info("import settings reloaded", zap.String("file", source))
	return true
}

func (h *ImportSettingsHolder) Get() ImportSettings {
	return h.current.Load().(ImportSettings)
}

func validateImportSettings(cfg ImportSettings) error {
	if cfg.MaxUploadBytes <= 0 {
		return errors.New("import.maxUploadBytes must be positive")
	}
	if cfg.SampleBytes <= 0 {
		return errors.New("import.sampleBytes must be positive")
	}
	if len(cfg.AllowedExtensions) == 0 {
		return errors.New("import.allowedExtensions cannot be empty")
	}
	return nil
}
