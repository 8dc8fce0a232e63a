package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/daynight/internal/config"
	"github.com/sells-group/daynight/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath, WithRetryAttempts(1))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func exec(t *testing.T, st *SQLiteStore, query string, args ...any) {
	t.Helper()
	_, err := st.db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

// seedSQLite loads two regions, three stations (one unlocated) and a handful
// of documents.
func seedSQLite(t *testing.T, st *SQLiteStore) {
	t.Helper()
	exec(t, st, `INSERT INTO regions (id, name, boundary, attributes) VALUES
		(1, 'tarnogórski', '{"type":"Polygon","coordinates":[[[18.7,50.3],[19.0,50.3],[19.0,50.6],[18.7,50.3]]]}', '{"teryt":"2413"}'),
		(2, 'pszczyński', NULL, '{}'),
		(3, 'bieruńsko-lędziński', NULL, '{}')`)
	exec(t, st, `INSERT INTO stations (id, name, region_id, lon, lat, attributes) VALUES
		(20, 'Tarnowskie Góry', 1, 18.86, 50.44, '{"ifcid":20}'),
		(10, 'Miasteczko Śląskie', 1, 18.95, 50.50, '{}'),
		(30, 'Radzionków', 1, NULL, NULL, '{}'),
		(40, 'Pszczyna', 2, 18.95, 49.98, '{}')`)
	exec(t, st, `INSERT INTO measurement_documents (station_id, m_type, date, samples) VALUES
		(20, 'B00300S', '2025-09-02', '[{"time":"12:00","value":21.5},{"time":"23:00","value":12.0}]'),
		(20, 'B00300S', '2025-09-01', '[{"time":"05:00","value":9.0}]'),
		(20, 'B00606S', '2025-09-01', '[{"time":"12:00","value":0.4}]'),
		(10, 'B00300S', '2025-09-05', '[]'),
		(40, 'B00300S', '2025-08-20', '[{"time":"12:00","value":25.0}]')`)
}

func TestSQLite_RegionByName(t *testing.T) {
	st := newTestSQLiteStore(t)
	seedSQLite(t, st)

	r, err := st.RegionByName(context.Background(), "tarnogórski")
	require.NoError(t, err)
	assert.EqualValues(t, 1, r.ID)
	assert.Equal(t, "tarnogórski", r.Name)
	assert.Equal(t, map[string]any{"teryt": "2413"}, r.Attributes)
	require.NotNil(t, r.Boundary)
	_, ok := r.Boundary.(*geom.Polygon)
	assert.True(t, ok)

	r, err = st.RegionByName(context.Background(), "pszczyński")
	require.NoError(t, err)
	assert.Nil(t, r.Boundary)
	assert.Empty(t, r.Attributes)
}

func TestSQLite_RegionByName_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	seedSQLite(t, st)

	_, err := st.RegionByName(context.Background(), "Tarnogórski")
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrRegionNotFound))
}

func TestSQLite_StationsInRegion(t *testing.T) {
	st := newTestSQLiteStore(t)
	seedSQLite(t, st)

	stations, err := st.StationsInRegion(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stations, 3)

	assert.EqualValues(t, 10, stations[0].ID)
	assert.EqualValues(t, 20, stations[1].ID)
	assert.EqualValues(t, 30, stations[2].ID)

	require.NotNil(t, stations[1].Coordinates)
	assert.Equal(t, model.Coordinates{Lon: 18.86, Lat: 50.44}, *stations[1].Coordinates)
	assert.EqualValues(t, 20, stations[1].Attributes["ifcid"])
	assert.Nil(t, stations[2].Coordinates)

	none, err := st.StationsInRegion(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_FindMeasurements(t *testing.T) {
	st := newTestSQLiteStore(t)
	seedSQLite(t, st)
	ctx := context.Background()

	docs, err := st.FindMeasurements(ctx, model.MeasurementFilter{
		StationIDs: []int64{10, 20, 30},
		Start:      "2025-09-01",
		End:        "2025-09-02",
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "2025-09-01", docs[0].Date)
	assert.Equal(t, "B00300S", docs[0].Type)
	assert.Equal(t, "B00606S", docs[1].Type)
	assert.Equal(t, "2025-09-02", docs[2].Date)
	assert.Equal(t, []model.Sample{{Clock: "12:00", Value: 21.5}, {Clock: "23:00", Value: 12.0}}, docs[2].Samples)

	docs, err = st.FindMeasurements(ctx, model.MeasurementFilter{
		StationIDs: []int64{10, 20},
		Start:      "2025-09-01",
		End:        "2025-09-30",
		Type:       "B00300S",
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.EqualValues(t, 10, docs[0].StationID)
	assert.NotNil(t, docs[0].Samples)
	assert.Empty(t, docs[0].Samples)

	docs, err = st.FindMeasurements(ctx, model.MeasurementFilter{Start: "2025-01-01", End: "2025-12-31"})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSQLite_FindMeasurements_BeyondVariableLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	seedSQLite(t, st)

	ids := make([]int64, 0, 40000)
	for id := int64(1000); len(ids) < cap(ids)-2; id++ {
		ids = append(ids, id)
	}
	ids = append(ids, 20, 40)

	docs, err := st.FindMeasurements(context.Background(), model.MeasurementFilter{
		StationIDs: ids,
		Start:      "2025-08-01",
		End:        "2025-09-30",
		Type:       "B00300S",
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.EqualValues(t, 20, docs[0].StationID)
	assert.EqualValues(t, 40, docs[2].StationID)
}

func TestSQLite_FindMeasurements_CorruptSamples(t *testing.T) {
	st := newTestSQLiteStore(t)
	seedSQLite(t, st)
	exec(t, st, `INSERT INTO measurement_documents (station_id, m_type, date, samples) VALUES (10, 'B00300S', '2025-09-03', '{"time":')`)

	_, err := st.FindMeasurements(context.Background(), model.MeasurementFilter{
		StationIDs: []int64{10},
		Start:      "2025-09-01",
		End:        "2025-09-30",
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrMalformedData))
}

func TestSQLite_RegionStationCounts(t *testing.T) {
	st := newTestSQLiteStore(t)
	seedSQLite(t, st)

	counts, err := st.RegionStationCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 3)

	byName := map[string]int{}
	for _, c := range counts {
		byName[c.Name] = c.Stations
	}
	assert.Equal(t, 3, byName["tarnogórski"])
	assert.Equal(t, 1, byName["pszczyński"])
	assert.Equal(t, 0, byName["bieruńsko-lędziński"])
}

func TestSQLite_MeasurementDateSpan(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	span, err := st.MeasurementDateSpan(ctx, "")
	require.NoError(t, err)
	assert.True(t, span.IsEmpty())

	seedSQLite(t, st)

	span, err = st.MeasurementDateSpan(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, model.DateSpan{Start: "2025-08-20", End: "2025-09-05"}, span)

	span, err = st.MeasurementDateSpan(ctx, "B00606S")
	require.NoError(t, err)
	assert.Equal(t, model.DateSpan{Start: "2025-09-01", End: "2025-09-01"}, span)
}

func TestSQLite_Ping(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Ping(context.Background()))

	require.NoError(t, st.Close())
	assert.Error(t, st.Ping(context.Background()))
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	counts, err := st.RegionStationCounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
