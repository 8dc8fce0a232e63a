// Package analysis classifies station samples as solar day or night and
// aggregates them per station and per region.
package analysis

import (
	"context"

	"github.com/sells-group/daynight/internal/model"
)

// RegionResolver looks a region up by exact name. A miss returns an error
// wrapping model.ErrRegionNotFound.
type RegionResolver interface {
	RegionByName(ctx context.Context, name string) (*model.Region, error)
}

// StationLocator lists the stations assigned to a region. A region without
// stations yields an empty slice and no error.
type StationLocator interface {
	StationsInRegion(ctx context.Context, regionID int64) ([]model.Station, error)
}

// MeasurementFetcher returns every document matching the filter, in no
// particular order.
type MeasurementFetcher interface {
	FindMeasurements(ctx context.Context, filter model.MeasurementFilter) ([]model.MeasurementDocument, error)
}
