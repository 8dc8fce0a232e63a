package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/daynight/internal/geospatial"
	"github.com/sells-group/daynight/internal/model"
	"github.com/sells-group/daynight/internal/resilience"
)

// SQLiteStore implements Store using modernc.org/sqlite. Region boundaries
// are kept as GeoJSON text and station membership is the region_id column.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, opts: buildOptions(opts)}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS regions (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	boundary   TEXT,
	attributes TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS stations (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	region_id  INTEGER REFERENCES regions(id),
	lon        REAL,
	lat        REAL,
	attributes TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS measurement_documents (
	station_id INTEGER NOT NULL,
	m_type     TEXT NOT NULL,
	date       TEXT NOT NULL,
	samples    TEXT NOT NULL DEFAULT '[]',
	UNIQUE (station_id, m_type, date)
);

CREATE INDEX IF NOT EXISTS idx_stations_region_id ON stations(region_id);
CREATE INDEX IF NOT EXISTS idx_measurement_documents_date ON measurement_documents(date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) retry(op string) resilience.RetryConfig {
	return resilience.StoreRetryConfig(s.opts.retryAttempts, "sqlite", op)
}

func (s *SQLiteStore) RegionByName(ctx context.Context, name string) (*model.Region, error) {
	return resilience.DoVal(ctx, s.retry("region_by_name"), func(ctx context.Context) (*model.Region, error) {
		var (
			r        model.Region
			boundary sql.NullString
			attrs    string
		)
		err := s.db.QueryRowContext(ctx,
			`SELECT id, name, boundary, attributes FROM regions WHERE name = ?`, name,
		).Scan(&r.ID, &r.Name, &boundary, &attrs)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(model.ErrRegionNotFound, "sqlite: region %q", name)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: get region %q", name)
		}

		if boundary.Valid {
			if r.Boundary, err = geospatial.DecodeGeoJSON([]byte(boundary.String)); err != nil {
				return nil, eris.Wrapf(err, "sqlite: boundary of region %q", name)
			}
		}
		if r.Attributes, err = model.UnmarshalAttributes([]byte(attrs)); err != nil {
			return nil, eris.Wrapf(err, "sqlite: attributes of region %q", name)
		}
		return &r, nil
	})
}

func (s *SQLiteStore) StationsInRegion(ctx context.Context, regionID int64) ([]model.Station, error) {
	return resilience.DoVal(ctx, s.retry("stations_in_region"), func(ctx context.Context) ([]model.Station, error) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, name, region_id, lon, lat, attributes FROM stations WHERE region_id = ? ORDER BY id`,
			regionID,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: stations in region %d", regionID)
		}
		defer rows.Close() //nolint:errcheck

		var out []model.Station
		for rows.Next() {
			var (
				st       model.Station
				lon, lat sql.NullFloat64
				attrs    string
			)
			if err := rows.Scan(&st.ID, &st.Name, &st.RegionID, &lon, &lat, &attrs); err != nil {
				return nil, eris.Wrap(err, "sqlite: scan station")
			}
			if lon.Valid && lat.Valid {
				st.Coordinates = &model.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
			}
			if st.Attributes, err = model.UnmarshalAttributes([]byte(attrs)); err != nil {
				return nil, eris.Wrapf(err, "sqlite: attributes of station %d", st.ID)
			}
			out = append(out, st)
		}
		return out, eris.Wrap(rows.Err(), "sqlite: stations iterate")
	})
}

func (s *SQLiteStore) FindMeasurements(ctx context.Context, f model.MeasurementFilter) ([]model.MeasurementDocument, error) {
	if len(f.StationIDs) == 0 {
		return nil, nil
	}

	// One JSON array argument keeps the statement under SQLite's variable
	// limit however many stations a region holds.
	ids, err := json.Marshal(f.StationIDs)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: encode station ids")
	}
	query := `SELECT station_id, m_type, date, samples FROM measurement_documents
		WHERE station_id IN (SELECT value FROM json_each(?))
		AND date >= ? AND date <= ?`
	args := []any{string(ids), f.Start, f.End}
	if f.Type != "" {
		query += ` AND m_type = ?`
		args = append(args, f.Type)
	}
	query += ` ORDER BY station_id, date, m_type`

	return resilience.DoVal(ctx, s.retry("find_measurements"), func(ctx context.Context) ([]model.MeasurementDocument, error) {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: find measurements")
		}
		defer rows.Close() //nolint:errcheck

		var out []model.MeasurementDocument
		for rows.Next() {
			var (
				doc model.MeasurementDocument
				raw string
			)
			if err := rows.Scan(&doc.StationID, &doc.Type, &doc.Date, &raw); err != nil {
				return nil, eris.Wrap(err, "sqlite: scan measurement document")
			}
			if err := decodeSamples(&doc, []byte(raw)); err != nil {
				return nil, err
			}
			out = append(out, doc)
		}
		return out, eris.Wrap(rows.Err(), "sqlite: measurements iterate")
	})
}

func (s *SQLiteStore) RegionStationCounts(ctx context.Context) ([]model.RegionStationCount, error) {
	return resilience.DoVal(ctx, s.retry("region_station_counts"), func(ctx context.Context) ([]model.RegionStationCount, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT r.id, r.name, COUNT(s.id)
			FROM regions r LEFT JOIN stations s ON s.region_id = r.id
			GROUP BY r.id, r.name
			ORDER BY r.name`)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: region station counts")
		}
		defer rows.Close() //nolint:errcheck

		var out []model.RegionStationCount
		for rows.Next() {
			var c model.RegionStationCount
			if err := rows.Scan(&c.RegionID, &c.Name, &c.Stations); err != nil {
				return nil, eris.Wrap(err, "sqlite: scan region count")
			}
			out = append(out, c)
		}
		return out, eris.Wrap(rows.Err(), "sqlite: region counts iterate")
	})
}

func (s *SQLiteStore) MeasurementDateSpan(ctx context.Context, mtype string) (model.DateSpan, error) {
	return resilience.DoVal(ctx, s.retry("measurement_date_span"), func(ctx context.Context) (model.DateSpan, error) {
		var first, last sql.NullString
		err := s.db.QueryRowContext(ctx,
			`SELECT MIN(date), MAX(date) FROM measurement_documents WHERE ? = '' OR m_type = ?`,
			mtype, mtype,
		).Scan(&first, &last)
		if err != nil {
			return model.DateSpan{}, eris.Wrap(err, "sqlite: measurement date span")
		}
		return model.DateSpan{Start: first.String, End: last.String}, nil
	})
}
