// Package solar computes the daylight window of a station on a calendar date.
package solar

import (
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/rotisserie/eris"

	"github.com/sells-group/daynight/internal/geospatial"
	"github.com/sells-group/daynight/internal/model"
)

// Calculator yields the solar window for a position and date. Implementations
// must be deterministic.
type Calculator interface {
	Window(c model.Coordinates, day time.Time) (model.SolarWindow, error)
}

// Func adapts a plain function to Calculator.
type Func func(c model.Coordinates, day time.Time) (model.SolarWindow, error)

// Window calls f.
func (f Func) Window(c model.Coordinates, day time.Time) (model.SolarWindow, error) {
	return f(c, day)
}

// Fixed returns a Calculator yielding w for every input.
func Fixed(w model.SolarWindow) Calculator {
	return Func(func(model.Coordinates, time.Time) (model.SolarWindow, error) {
		return w, nil
	})
}

// PolarPolicy decides how dates without a sunrise or sunset are labelled.
type PolarPolicy string

const (
	// PolarAuto picks polar day or night from the sunrise hour angle.
	PolarAuto PolarPolicy = "auto"
	// PolarDay labels every sample on such dates as day.
	PolarDay PolarPolicy = "day"
	// PolarNight labels every sample on such dates as night.
	PolarNight PolarPolicy = "night"
)

// ParsePolarPolicy validates a configured policy name.
func ParsePolarPolicy(s string) (PolarPolicy, error) {
	switch p := PolarPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolarAuto, nil
	case PolarAuto, PolarDay, PolarNight:
		return p, nil
	default:
		return "", eris.Errorf("solar: unknown polar policy %q", s)
	}
}

// Ephemeris is the production Calculator backed by go-sunrise.
type Ephemeris struct {
	clock Clock
	polar PolarPolicy
}

// NewEphemeris creates an Ephemeris rendering times on clock.
func NewEphemeris(clock Clock, polar PolarPolicy) *Ephemeris {
	if polar == "" {
		polar = PolarAuto
	}
	return &Ephemeris{clock: clock, polar: polar}
}

// Window computes sunrise and sunset for c on day's calendar date.
func (e *Ephemeris) Window(c model.Coordinates, day time.Time) (model.SolarWindow, error) {
	if err := geospatial.ValidateCoordinates(c); err != nil {
		return model.SolarWindow{}, err
	}

	y, m, d := day.Date()
	rise, set := sunrise.SunriseSunset(c.Lat, c.Lon, y, m, d)
	if rise.IsZero() || set.IsZero() {
		return e.polarWindow(c, y, m, d), nil
	}

	return model.NewSolarWindow(e.clock.Format(rise, c.Lon), e.clock.Format(set, c.Lon)), nil
}

func (e *Ephemeris) polarWindow(c model.Coordinates, y int, m time.Month, d int) model.SolarWindow {
	switch e.polar {
	case PolarDay:
		return model.SolarWindow{Kind: model.WindowPolarDay}
	case PolarNight:
		return model.SolarWindow{Kind: model.WindowPolarNight}
	}
	if NeverSets(c, y, m, d) {
		return model.SolarWindow{Kind: model.WindowPolarDay}
	}
	return model.SolarWindow{Kind: model.WindowPolarNight}
}

// NeverSets reports whether the sun stays above the horizon for the whole
// date at c. It follows the same computation as sunrise.SunriseSunset, whose
// hour angle is -MaxFloat64 when the sun never sets and +MaxFloat64 when it
// never rises.
func NeverSets(c model.Coordinates, y int, m time.Month, d int) bool {
	noon := sunrise.MeanSolarNoon(c.Lon, y, m, d)
	anomaly := sunrise.SolarMeanAnomaly(noon)
	center := sunrise.EquationOfCenter(anomaly)
	ecliptic := sunrise.EclipticLongitude(anomaly, center, noon)
	return sunrise.HourAngle(c.Lat, sunrise.Declination(ecliptic)) < 0
}
