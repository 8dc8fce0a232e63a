package analysis

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/daynight/internal/model"
)

// ValidateClock checks that s is a zero-padded 24-hour HH:MM clock, the only
// form for which string order matches time order.
func ValidateClock(s string) error {
	if len(s) != len(model.ClockLayout) {
		return eris.Wrapf(model.ErrMalformedData, "analysis: clock %q is not HH:MM", s)
	}
	if _, err := time.Parse(model.ClockLayout, s); err != nil {
		return eris.Wrapf(model.ErrMalformedData, "analysis: clock %q is not HH:MM", s)
	}
	return nil
}

// ParseDate parses a zero-padded YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(model.DateLayout) {
		return time.Time{}, eris.Wrapf(model.ErrMalformedData, "analysis: date %q is not YYYY-MM-DD", s)
	}
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(model.ErrMalformedData, "analysis: date %q is not YYYY-MM-DD", s)
	}
	return d, nil
}

// IsDay reports whether clock falls inside w. Both bounds are inclusive. A
// window whose sunset precedes its sunrise wraps midnight.
func IsDay(clock string, w model.SolarWindow) bool {
	switch w.Kind {
	case model.WindowPolarDay:
		return true
	case model.WindowPolarNight:
		return false
	}
	if w.Sunrise <= w.Sunset {
		return w.Sunrise <= clock && clock <= w.Sunset
	}
	return clock >= w.Sunrise || clock <= w.Sunset
}

// Classify labels one sample against its station-date window.
func Classify(s model.Sample, w model.SolarWindow) (model.ClassifiedSample, error) {
	if err := ValidateClock(s.Clock); err != nil {
		return model.ClassifiedSample{}, err
	}
	return model.ClassifiedSample{Clock: s.Clock, Value: s.Value, IsDay: IsDay(s.Clock, w)}, nil
}
