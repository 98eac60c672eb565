package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultImportSettingsAreValid(t *testing.T) {
	cfg := DefaultImportSettings()
	assert.NoError(t, validateImportSettings(cfg))
	assert.True(t, cfg.AllowsExtension(".CSV"))
	assert.False(t, cfg.AllowsExtension(".xlsx"))
}

func TestValidateImportSettingsRejectsEmpty(t *testing.T) {
	cfg := DefaultImportSettings()
	cfg.AllowedExtensions = nil
	assert.Error(t, validateImportSettings(cfg))

	cfg = DefaultImportSettings()
	cfg.SampleBytes = 0
	assert.Error(t, validateImportSettings(cfg))
}

func TestStaticHolderReturnsStoredSettings(t *testing.T) {
	cfg := DefaultImportSettings()
	cfg.DefaultPC = "PC-1"
	holder := NewStaticImportSettings(cfg)
	assert.Equal(t, "PC-1", holder.Get().DefaultPC)
}

func TestReloadKeepsSettingsOnInvalidFile(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	holder := NewStaticImportSettings(DefaultImportSettings())
	v := viper.New()
	v.Set("import.maxUploadBytes", 0)
	v.Set("import.sampleBytes", 512)
	v.Set("import.allowedExtensions", []string{".csv"})

	assert.False(t, holder.reload(v, "import.yml", log))
	assert.Equal(t, DefaultImportSettings().MaxUploadBytes, holder.Get().MaxUploadBytes)
	assert.Equal(t, 1, logs.FilterMessage("invalid import settings ignored").Len())

	v.Set("import.maxUploadBytes", 2048)
	assert.True(t, holder.reload(v, "import.yml", log))
	assert.EqualValues(t, 2048, holder.Get().MaxUploadBytes)
	assert.Equal(t, 512, holder.Get().SampleBytes)
	assert.Equal(t, 1, logs.FilterMessage("import settings reloaded").Len())
}
