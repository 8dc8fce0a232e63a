package solar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/daynight/internal/model"
)

// Clock renders instants as HH:MM without consulting a time zone database.
type Clock struct {
	name   string
	offset time.Duration
	solar  bool
}

var (
	// SolarClock is local mean solar time: UTC shifted four minutes per
	// degree of longitude.
	SolarClock = Clock{name: "solar", solar: true}
	// UTCClock renders UTC wall time.
	UTCClock = Clock{name: "utc"}
)

// ParseClock accepts "solar", "utc" or a fixed offset such as "+02:00".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "solar":
		return SolarClock, nil
	case "utc", "z":
		return UTCClock, nil
	}

	t, err := time.Parse("-07:00", s)
	if err != nil {
		return Clock{}, eris.Errorf("solar: unknown clock %q (want solar, utc or ±HH:MM)", s)
	}
	_, off := t.Zone()
	return FixedClock(time.Duration(off) * time.Second), nil
}

// FixedClock renders UTC shifted by offset.
func FixedClock(offset time.Duration) Clock {
	sign := "+"
	abs := offset
	if offset < 0 {
		sign = "-"
		abs = -offset
	}
	name := fmt.Sprintf("%s%02d:%02d", sign, int(abs.Hours()), int(abs.Minutes())%60)
	return Clock{name: name, offset: offset}
}

// String returns the configured name of the clock.
func (c Clock) String() string {
	if c.name == "" {
		return "utc"
	}
	return c.name
}

// Format renders t, truncated to the minute, for a station at lon.
func (c Clock) Format(t time.Time, lon float64) string {
	shift := c.offset
	if c.solar {
		shift = time.Duration(lon * 4 * float64(time.Minute))
	}
	return t.UTC().Add(shift).Format(model.ClockLayout)
}
