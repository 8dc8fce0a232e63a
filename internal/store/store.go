// Package store provides the persistence backends the analysis engine reads
// regions, stations and measurement documents from.
package store

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/daynight/internal/analysis"
	"github.com/sells-group/daynight/internal/config"
	"github.com/sells-group/daynight/internal/db"
	"github.com/sells-group/daynight/internal/model"
)

// Store is a read backend for all three analysis ports plus the catalogue
// queries used by the CLI and API.
type Store interface {
	analysis.RegionResolver
	analysis.StationLocator
	analysis.MeasurementFetcher

	// RegionStationCounts lists every region with its station count,
	// ordered by name.
	RegionStationCounts(ctx context.Context) ([]model.RegionStationCount, error)
	// MeasurementDateSpan returns the first and last document dates, limited
	// to mtype when it is non-empty.
	MeasurementDateSpan(ctx context.Context, mtype string) (model.DateSpan, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// Open connects the backend named by cfg.Driver and applies its schema.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		st, err = NewSQLite(cfg.DatabaseURL, WithRetryAttempts(cfg.RetryAttempts))
	case "postgres":
		st, err = NewPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
			MaxConns: cfg.MaxConns,
			MinConns: cfg.MinConns,
		}, WithRetryAttempts(cfg.RetryAttempts))
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// Option tunes a backend.
type Option func(*options)

type options struct {
	retryAttempts int
}

// WithRetryAttempts sets how many times a transient read failure is tried.
func WithRetryAttempts(n int) Option {
	return func(o *options) {
		o.retryAttempts = n
	}
}

func buildOptions(opts []Option) options {
	o := options{retryAttempts: 3}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// decodeSamples parses a stored sample array. Corrupt blobs are data errors,
// not backend failures.
func decodeSamples(doc *model.MeasurementDocument, raw []byte) error {
	if len(raw) == 0 {
		doc.Samples = []model.Sample{}
		return nil
	}
	if err := json.Unmarshal(raw, &doc.Samples); err != nil {
		return eris.Wrapf(model.ErrMalformedData, "store: samples of station %d on %s: %v", doc.StationID, doc.Date, err)
	}
	if doc.Samples == nil {
		doc.Samples = []model.Sample{}
	}
	return nil
}
