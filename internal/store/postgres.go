package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/daynight/internal/db"
	"github.com/sells-group/daynight/internal/geospatial"
	"github.com/sells-group/daynight/internal/model"
	"github.com/sells-group/daynight/internal/resilience"
)

// PostgresStore implements Store on PostGIS. Station membership is the
// region_id column; the geometries are only read back.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
	opts    options
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg db.PoolConfig, opts ...Option) (*PostgresStore, error) {
	pool, err := db.NewPool(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close, opts: buildOptions(opts)}, nil
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS regions (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	boundary   geometry(MultiPolygon, 4326),
	attributes JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS stations (
	id         BIGINT PRIMARY KEY,
	name       TEXT NOT NULL,
	region_id  BIGINT REFERENCES regions(id),
	geom       geometry(Point, 4326),
	attributes JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS measurement_documents (
	station_id BIGINT NOT NULL,
	m_type     TEXT NOT NULL,
	date       DATE NOT NULL,
	samples    JSONB NOT NULL DEFAULT '[]',
	UNIQUE (station_id, m_type, date)
);

CREATE INDEX IF NOT EXISTS idx_regions_boundary ON regions USING GIST (boundary);
CREATE INDEX IF NOT EXISTS idx_stations_geom ON stations USING GIST (geom);
CREATE INDEX IF NOT EXISTS idx_stations_region_id ON stations(region_id);
CREATE INDEX IF NOT EXISTS idx_measurement_documents_date ON measurement_documents(date);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) retry(op string) resilience.RetryConfig {
	return resilience.StoreRetryConfig(s.opts.retryAttempts, "postgres", op)
}

func (s *PostgresStore) RegionByName(ctx context.Context, name string) (*model.Region, error) {
	return resilience.DoVal(ctx, s.retry("region_by_name"), func(ctx context.Context) (*model.Region, error) {
		var (
			r        model.Region
			boundary []byte
			attrs    []byte
		)
		err := s.pool.QueryRow(ctx,
			`SELECT id, name, ST_AsEWKB(boundary), attributes FROM regions WHERE name = $1`, name,
		).Scan(&r.ID, &r.Name, &boundary, &attrs)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(model.ErrRegionNotFound, "postgres: region %q", name)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: get region %q", name)
		}

		if len(boundary) > 0 {
			if r.Boundary, err = geospatial.DecodeEWKB(boundary); err != nil {
				return nil, eris.Wrapf(err, "postgres: boundary of region %q", name)
			}
		}
		if r.Attributes, err = model.UnmarshalAttributes(attrs); err != nil {
			return nil, eris.Wrapf(err, "postgres: attributes of region %q", name)
		}
		return &r, nil
	})
}

const stationsInRegionSQL = `
SELECT s.id, s.name, s.region_id, ST_X(s.geom), ST_Y(s.geom), s.attributes
FROM stations s
WHERE s.region_id = $1
ORDER BY s.id`

func (s *PostgresStore) StationsInRegion(ctx context.Context, regionID int64) ([]model.Station, error) {
	return resilience.DoVal(ctx, s.retry("stations_in_region"), func(ctx context.Context) ([]model.Station, error) {
		rows, err := s.pool.Query(ctx, stationsInRegionSQL, regionID)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: stations in region %d", regionID)
		}
		defer rows.Close()

		var out []model.Station
		for rows.Next() {
			var (
				st       model.Station
				lon, lat *float64
				attrs    []byte
			)
			if err := rows.Scan(&st.ID, &st.Name, &st.RegionID, &lon, &lat, &attrs); err != nil {
				return nil, eris.Wrap(err, "postgres: scan station")
			}
			if lon != nil && lat != nil {
				st.Coordinates = &model.Coordinates{Lon: *lon, Lat: *lat}
			}
			if st.Attributes, err = model.UnmarshalAttributes(attrs); err != nil {
				return nil, eris.Wrapf(err, "postgres: attributes of station %d", st.ID)
			}
			out = append(out, st)
		}
		return out, eris.Wrap(rows.Err(), "postgres: stations iterate")
	})
}

const findMeasurementsSQL = `
SELECT station_id, m_type, to_char(date, 'YYYY-MM-DD'), samples
FROM measurement_documents
WHERE station_id = ANY($1)
  AND date BETWEEN $2::date AND $3::date
  AND ($4 = '' OR m_type = $4)
ORDER BY station_id, date, m_type`

func (s *PostgresStore) FindMeasurements(ctx context.Context, f model.MeasurementFilter) ([]model.MeasurementDocument, error) {
	if len(f.StationIDs) == 0 {
		return nil, nil
	}
	return resilience.DoVal(ctx, s.retry("find_measurements"), func(ctx context.Context) ([]model.MeasurementDocument, error) {
		rows, err := s.pool.Query(ctx, findMeasurementsSQL, f.StationIDs, f.Start, f.End, f.Type)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: find measurements")
		}
		defer rows.Close()

		var out []model.MeasurementDocument
		for rows.Next() {
			var (
				doc model.MeasurementDocument
				raw []byte
			)
			if err := rows.Scan(&doc.StationID, &doc.Type, &doc.Date, &raw); err != nil {
				return nil, eris.Wrap(err, "postgres: scan measurement document")
			}
			if err := decodeSamples(&doc, raw); err != nil {
				return nil, err
			}
			out = append(out, doc)
		}
		return out, eris.Wrap(rows.Err(), "postgres: measurements iterate")
	})
}

const regionStationCountsSQL = `
SELECT r.id, r.name, COUNT(s.id)
FROM regions r
LEFT JOIN stations s ON s.region_id = r.id
GROUP BY r.id, r.name
ORDER BY r.name`

func (s *PostgresStore) RegionStationCounts(ctx context.Context) ([]model.RegionStationCount, error) {
	return resilience.DoVal(ctx, s.retry("region_station_counts"), func(ctx context.Context) ([]model.RegionStationCount, error) {
		rows, err := s.pool.Query(ctx, regionStationCountsSQL)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: region station counts")
		}
		defer rows.Close()

		var out []model.RegionStationCount
		for rows.Next() {
			var (
				c     model.RegionStationCount
				count int64
			)
			if err := rows.Scan(&c.RegionID, &c.Name, &count); err != nil {
				return nil, eris.Wrap(err, "postgres: scan region count")
			}
			c.Stations = int(count)
			out = append(out, c)
		}
		return out, eris.Wrap(rows.Err(), "postgres: region counts iterate")
	})
}

func (s *PostgresStore) MeasurementDateSpan(ctx context.Context, mtype string) (model.DateSpan, error) {
	return resilience.DoVal(ctx, s.retry("measurement_date_span"), func(ctx context.Context) (model.DateSpan, error) {
		var first, last *string
		err := s.pool.QueryRow(ctx, `
			SELECT to_char(MIN(date), 'YYYY-MM-DD'), to_char(MAX(date), 'YYYY-MM-DD')
			FROM measurement_documents
			WHERE $1 = '' OR m_type = $1`, mtype,
		).Scan(&first, &last)
		if err != nil {
			return model.DateSpan{}, eris.Wrap(err, "postgres: measurement date span")
		}
		var span model.DateSpan
		if first != nil && last != nil {
			span = model.DateSpan{Start: *first, End: *last}
		}
		return span, nil
	})
}
