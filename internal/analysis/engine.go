package analysis

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/daynight/internal/geospatial"
	"github.com/sells-group/daynight/internal/metrics"
	"github.com/sells-group/daynight/internal/model"
	"github.com/sells-group/daynight/internal/solar"
)

// Request names the region and inclusive date range to analyse. An empty
// Type falls back to the engine's configured measurement type.
type Request struct {
	Region string
	Start  string
	End    string
	Type   string
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds how many stations are classified in parallel.
// Values below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = max(n, 1)
	}
}

// WithMeasurementType restricts analyses to one measurement type by default.
func WithMeasurementType(t string) Option {
	return func(e *Engine) {
		e.measurementType = t
	}
}

// Engine runs the region pipeline: resolve region, locate stations, fetch
// documents, classify samples against per-date solar windows, aggregate.
// It holds no state between calls.
type Engine struct {
	regions         RegionResolver
	stations        StationLocator
	measurements    MeasurementFetcher
	solar           solar.Calculator
	concurrency     int
	measurementType string
}

// NewEngine wires the store ports and the solar calculator.
func NewEngine(regions RegionResolver, stations StationLocator, measurements MeasurementFetcher, calc solar.Calculator, opts ...Option) *Engine {
	e := &Engine{
		regions:      regions,
		stations:     stations,
		measurements: measurements,
		solar:        calc,
		concurrency:  1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// located is a station with validated coordinates.
type located struct {
	station model.Station
	coords  model.Coordinates
}

// skipError isolates a per-station failure from fatal ones.
type skipError struct {
	reason string
	err    error
}

func (s *skipError) Error() string { return s.err.Error() }
func (s *skipError) Unwrap() error { return s.err }

// Analyze produces the day/night analysis for req. It fails with an error
// wrapping model.ErrRegionNotFound, model.ErrInvalidDateRange or
// model.ErrMalformedData; per-station problems only drop the station.
func (e *Engine) Analyze(ctx context.Context, req Request) (*model.RegionAnalysis, error) {
	began := time.Now()
	log := zap.L().With(
		zap.String("component", "analysis"),
		zap.String("analysis_id", uuid.NewString()),
		zap.String("region", req.Region),
		zap.String("start", req.Start),
		zap.String("end", req.End),
	)

	result, err := e.analyze(ctx, req, log)

	metrics.AnalysisLatency.Observe(time.Since(began).Seconds())
	metrics.AnalysesTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return nil, err
	}

	log.Info("analysis complete",
		zap.Int("stations", len(result.Stations)),
		zap.Int("day_measurements", result.Summary.DayMeasurements),
		zap.Int("night_measurements", result.Summary.NightMeasurements),
		zap.Duration("elapsed", time.Since(began)),
	)
	return result, nil
}

func (e *Engine) analyze(ctx context.Context, req Request, log *zap.Logger) (*model.RegionAnalysis, error) {
	if err := ValidateRange(req.Start, req.End); err != nil {
		return nil, err
	}

	region, err := e.regions.RegionByName(ctx, req.Region)
	if err != nil {
		return nil, eris.Wrapf(err, "analysis: resolve region %q", req.Region)
	}

	boundary, err := geospatial.BoundaryJSON(region.Boundary)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: region boundary")
	}

	result := &model.RegionAnalysis{
		Region:         model.RegionInfo{ID: region.ID, Name: region.Name, Attributes: region.Attributes},
		RegionGeometry: boundary,
		DateRange:      model.DateRange{Start: req.Start, End: req.End},
		Stations:       []model.StationAnalysis{},
	}

	stations, err := e.stations.StationsInRegion(ctx, region.ID)
	if err != nil {
		return nil, eris.Wrapf(err, "analysis: stations in region %d", region.ID)
	}

	targets := locate(stations, log)
	if len(targets) == 0 {
		log.Info("no located stations in region", zap.Int("assigned", len(stations)))
		result.Summary = Summarize(nil)
		return result, nil
	}

	ids := make([]int64, len(targets))
	for i, t := range targets {
		ids[i] = t.station.ID
	}

	mtype := req.Type
	if mtype == "" {
		mtype = e.measurementType
	}
	docs, err := e.measurements.FindMeasurements(ctx, model.MeasurementFilter{
		StationIDs: ids,
		Start:      req.Start,
		End:        req.End,
		Type:       mtype,
	})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: fetch measurements")
	}
	byStation := GroupByStation(docs)

	accs := make([]*Accumulator, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, t := range targets {
		stationDocs := byStation[t.station.ID]
		if len(stationDocs) == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			acc, err := e.classifyStation(t, stationDocs)
			var skip *skipError
			if errors.As(err, &skip) {
				metrics.StationsSkipped.WithLabelValues(skip.reason).Inc()
				log.Warn("skipping station",
					zap.Int64("station_id", t.station.ID),
					zap.String("reason", skip.reason),
					zap.Error(skip.err),
				)
				return nil
			}
			if err != nil {
				return eris.Wrapf(err, "analysis: station %d", t.station.ID)
			}
			accs[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	retained := make([]model.DayNightStats, 0, len(targets))
	for i, t := range targets {
		acc := accs[i]
		if acc == nil {
			// Skipped above, or nothing fetched for it.
			if _, fetched := byStation[t.station.ID]; !fetched {
				noMeasurements(log, t.station.ID)
			}
			continue
		}
		if acc.Total() == 0 {
			noMeasurements(log, t.station.ID)
			continue
		}
		stats := acc.Stats()
		retained = append(retained, stats)
		result.Stations = append(result.Stations, model.StationAnalysis{
			StationID:   t.station.ID,
			Name:        t.station.Name,
			Coordinates: t.coords,
			Attributes:  attributesOrEmpty(t.station.Attributes),
			Analysis:    stats,
		})
	}
	result.Summary = Summarize(retained)
	return result, nil
}

// classifyStation folds every sample of one station's documents, which
// arrive sorted by date. Every document is checked for malformed dates and
// clocks before any window is computed.
func (e *Engine) classifyStation(t located, docs []model.MeasurementDocument) (*Accumulator, error) {
	dates := make([]time.Time, len(docs))
	for i, doc := range docs {
		day, err := ParseDate(doc.Date)
		if err != nil {
			return nil, err
		}
		for _, s := range doc.Samples {
			if err := ValidateClock(s.Clock); err != nil {
				return nil, eris.Wrapf(err, "document %s/%s", doc.Type, doc.Date)
			}
		}
		dates[i] = day
	}

	acc := &Accumulator{}
	var days, nights int
	for i, doc := range docs {
		window, err := e.solar.Window(t.coords, dates[i])
		if err != nil {
			reason := metrics.SkipSolarWindow
			if eris.Is(err, model.ErrGeolocationUnavailable) {
				reason = metrics.SkipNoGeolocation
			}
			return nil, &skipError{reason: reason, err: eris.Wrapf(err, "solar window for %s", doc.Date)}
		}
		for _, s := range doc.Samples {
			cs, err := Classify(s, window)
			if err != nil {
				return nil, eris.Wrapf(err, "document %s/%s", doc.Type, doc.Date)
			}
			acc.Add(cs)
			if cs.IsDay {
				days++
			} else {
				nights++
			}
		}
	}
	metrics.SamplesClassified.WithLabelValues("day").Add(float64(days))
	metrics.SamplesClassified.WithLabelValues("night").Add(float64(nights))
	return acc, nil
}

// locate keeps stations with usable coordinates, ordered by id.
func locate(stations []model.Station, log *zap.Logger) []located {
	out := make([]located, 0, len(stations))
	for _, st := range stations {
		c, err := geospatial.Locate(st)
		if err != nil {
			metrics.StationsSkipped.WithLabelValues(metrics.SkipNoGeolocation).Inc()
			log.Warn("station geolocation unavailable", zap.Int64("station_id", st.ID), zap.Error(err))
			continue
		}
		out = append(out, located{station: st, coords: c})
	}
	slices.SortFunc(out, func(a, b located) int {
		return cmp.Compare(a.station.ID, b.station.ID)
	})
	return out
}

// GroupByStation buckets documents by station in one pass, each bucket
// ordered by date then measurement type.
func GroupByStation(docs []model.MeasurementDocument) map[int64][]model.MeasurementDocument {
	out := make(map[int64][]model.MeasurementDocument)
	for _, d := range docs {
		out[d.StationID] = append(out[d.StationID], d)
	}
	for _, bucket := range out {
		slices.SortStableFunc(bucket, func(a, b model.MeasurementDocument) int {
			if c := strings.Compare(a.Date, b.Date); c != 0 {
				return c
			}
			return strings.Compare(a.Type, b.Type)
		})
	}
	return out
}

// ValidateRange checks both ends parse and start does not follow end.
func ValidateRange(start, end string) error {
	if _, err := ParseDate(start); err != nil {
		return eris.Wrapf(model.ErrInvalidDateRange, "analysis: start %q is not YYYY-MM-DD", start)
	}
	if _, err := ParseDate(end); err != nil {
		return eris.Wrapf(model.ErrInvalidDateRange, "analysis: end %q is not YYYY-MM-DD", end)
	}
	if start > end {
		return eris.Wrapf(model.ErrInvalidDateRange, "analysis: start %s is after end %s", start, end)
	}
	return nil
}

func noMeasurements(log *zap.Logger, stationID int64) {
	metrics.StationsSkipped.WithLabelValues(metrics.SkipNoMeasurements).Inc()
	log.Debug("station has no measurements in range", zap.Int64("station_id", stationID))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case eris.Is(err, model.ErrRegionNotFound):
		return "region_not_found"
	case eris.Is(err, model.ErrInvalidDateRange):
		return "invalid_range"
	case eris.Is(err, model.ErrMalformedData):
		return "malformed"
	default:
		return "error"
	}
}

func attributesOrEmpty(attrs map[string]any) map[string]any {
	if attrs == nil {
		return map[string]any{}
	}
	return attrs
}
