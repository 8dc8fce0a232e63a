package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daynight_analyses_total",
			Help: "Total region analyses by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "daynight_analysis_duration_seconds",
			Help:    "Region analysis duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SamplesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daynight_samples_classified_total",
			Help: "Total samples classified, by label",
		},
		[]string{"label"},
	)

	StationsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daynight_stations_skipped_total",
			Help: "Stations left out of an analysis, by reason",
		},
		[]string{"reason"},
	)
)

// Skip reasons.
const (
	SkipNoGeolocation  = "no_geolocation"
	SkipNoMeasurements = "no_measurements"
	SkipSolarWindow    = "solar_window"
)
