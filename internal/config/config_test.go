package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "daynight.db", cfg.Store.DatabaseURL)
	assert.EqualValues(t, 10, cfg.Store.MaxConns)
	assert.EqualValues(t, 2, cfg.Store.MinConns)
	assert.Equal(t, 3, cfg.Store.RetryAttempts)
	assert.Equal(t, "solar", cfg.Solar.Clock)
	assert.Equal(t, "auto", cfg.Solar.PolarPolicy)
	assert.True(t, cfg.Solar.Memoize)
	assert.Equal(t, 4, cfg.Analysis.Concurrency)
	assert.Empty(t, cfg.Analysis.MeasurementType)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate("analyze"))
	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/weather
solar:
  clock: "+01:00"
  polar_policy: night
analysis:
  concurrency: 8
  measurement_type: B00300S
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/weather", cfg.Store.DatabaseURL)
	assert.Equal(t, "+01:00", cfg.Solar.Clock)
	assert.Equal(t, "night", cfg.Solar.PolarPolicy)
	assert.Equal(t, 8, cfg.Analysis.Concurrency)
	assert.Equal(t, "B00300S", cfg.Analysis.MeasurementType)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.True(t, cfg.Solar.Memoize)
	assert.EqualValues(t, 10, cfg.Store.MaxConns)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DAYNIGHT_STORE_DRIVER", "postgres")
	t.Setenv("DAYNIGHT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("DAYNIGHT_SERVER_PORT", "3000")
	t.Setenv("DAYNIGHT_SOLAR_MEMOIZE", "false")
	t.Setenv("DAYNIGHT_ANALYSIS_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.False(t, cfg.Solar.Memoize)
	assert.Equal(t, 2, cfg.Analysis.Concurrency)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "daynight.db"
	cfg.Store.MaxConns = 10
	cfg.Store.MinConns = 2
	cfg.Analysis.Concurrency = 4
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateAnalyze_MissingFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mongo"
	cfg.Store.DatabaseURL = ""

	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `store.driver "mongo" must be sqlite or postgres`)
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	// Port only matters when serving.
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Analysis.Concurrency = 0
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "analysis.concurrency must be between 1 and 64")

	cfg.Analysis.Concurrency = 65
	assert.Error(t, cfg.Validate("analyze"))

	cfg.Analysis.Concurrency = 64
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidatePoolBounds(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.MinConns = 20

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.min_conns (20) must not exceed store.max_conns (10)")
}
