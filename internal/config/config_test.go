package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "ingredient-cache.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "https://api.nal.usda.gov/fdc/v1", cfg.FDC.BaseURL)
	assert.Equal(t, 25, cfg.FDC.MaxCandidates)
	assert.InDelta(t, 2.0, cfg.FDC.RequestsPerSec, 0.001)
	assert.InDelta(t, 0.10, cfg.Engine.TolerancePct, 0.001)
	assert.Equal(t, 5, cfg.Engine.MaxIterations)
	assert.Equal(t, 90*24*time.Hour, cfg.Engine.CacheFreshness)
	assert.Equal(t, 8, cfg.Engine.ResolveConcurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: memory
fdc:
  key: test-key
  max_candidates: 10
engine:
  tolerance_pct: 0.05
  max_iterations: 3
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "test-key", cfg.FDC.Key)
	assert.Equal(t, 10, cfg.FDC.MaxCandidates)
	assert.InDelta(t, 0.05, cfg.Engine.TolerancePct, 0.001)
	assert.Equal(t, 3, cfg.Engine.MaxIterations)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Defaults still apply to untouched keys.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 90*24*time.Hour, cfg.Engine.CacheFreshness)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
