package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/daynight/internal/analysis"
	"github.com/sells-group/daynight/internal/config"
	"github.com/sells-group/daynight/internal/model"
	"github.com/sells-group/daynight/internal/solar"
	"github.com/sells-group/daynight/internal/store"
)

// analysisEnv holds the store and engine shared by every command.
type analysisEnv struct {
	Store  store.Store
	Engine *analysis.Engine
}

// Close releases resources held by the environment.
func (e *analysisEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// openStore is swapped in tests.
var openStore = store.Open

// initEnv validates configuration for mode, opens the store and builds the
// engine. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*analysisEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	calc, err := newCalculator(cfg.Solar)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	zap.L().Debug("environment ready",
		zap.String("store", cfg.Store.Driver),
		zap.String("solar_clock", cfg.Solar.Clock),
		zap.String("polar_policy", cfg.Solar.PolarPolicy),
		zap.Int("concurrency", cfg.Analysis.Concurrency),
	)

	return &analysisEnv{
		Store:  st,
		Engine: newEngine(st, calc, cfg.Analysis),
	}, nil
}

func newCalculator(c config.SolarConfig) (solar.Calculator, error) {
	clock, err := solar.ParseClock(c.Clock)
	if err != nil {
		return nil, err
	}
	polar, err := solar.ParsePolarPolicy(c.PolarPolicy)
	if err != nil {
		return nil, err
	}

	var calc solar.Calculator = solar.NewEphemeris(clock, polar)
	if c.Memoize {
		calc = solar.NewMemo(calc)
	}
	return calc, nil
}

func newEngine(st store.Store, calc solar.Calculator, c config.AnalysisConfig) *analysis.Engine {
	return analysis.NewEngine(st, st, st, calc,
		analysis.WithConcurrency(c.Concurrency),
		analysis.WithMeasurementType(c.MeasurementType),
	)
}

// resolveRange fills an empty start or end from the store's document span.
func resolveRange(ctx context.Context, st store.Store, start, end, mtype string) (string, string, error) {
	if start != "" && end != "" {
		return start, end, nil
	}
	span, err := st.MeasurementDateSpan(ctx, mtype)
	if err != nil {
		return "", "", err
	}
	if span.IsEmpty() {
		return "", "", eris.Wrap(model.ErrInvalidDateRange, "no stored measurements to default the date range from")
	}
	if start == "" {
		start = span.Start
	}
	if end == "" {
		end = span.End
	}
	return start, end, nil
}
