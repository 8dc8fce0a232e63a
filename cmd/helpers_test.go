package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/sells-group/daynight/internal/config"
	"github.com/sells-group/daynight/internal/store"
)

// seededDB creates a migrated SQLite file holding one populated region, one
// empty region and a single day of samples.
func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daynight.db")

	st, err := store.Open(context.Background(), config.StoreConfig{Driver: "sqlite", DatabaseURL: path})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	for _, q := range []string{
		`INSERT INTO regions (id, name, boundary, attributes) VALUES
			(1, 'tarnogórski', '{"type":"Point","coordinates":[18.86,50.44]}', '{"teryt":"2413"}'),
			(2, 'pszczyński', NULL, '{}')`,
		`INSERT INTO stations (id, name, region_id, lon, lat, attributes) VALUES
			(1, 'Station 1', 1, 18.86, 50.44, '{}'),
			(2, 'Station 2', 1, 18.95, 50.50, '{}')`,
		`INSERT INTO measurement_documents (station_id, m_type, date, samples) VALUES
			(1, 'B00300S', '2025-09-01', '[{"time":"05:59","value":10},{"time":"06:00","value":12},{"time":"19:59","value":18},{"time":"20:00","value":20},{"time":"20:01","value":9}]'),
			(1, 'B00300S', '2025-09-03', '[{"time":"12:00","value":21}]')`,
	} {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}
	return path
}

// useConfig points the package-level config at a SQLite file for commands
// invoked without the root pre-run.
func useConfig(t *testing.T, path string) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{
		Store:    config.StoreConfig{Driver: "sqlite", DatabaseURL: path, MaxConns: 10, MinConns: 2, RetryAttempts: 1},
		Solar:    config.SolarConfig{Clock: "solar", PolarPolicy: "auto", Memoize: true},
		Analysis: config.AnalysisConfig{Concurrency: 2},
		Server:   config.ServerConfig{Port: 8080},
		Log:      config.LogConfig{Level: "error", Format: "json"},
	}
	t.Cleanup(func() { cfg = prev })
}
