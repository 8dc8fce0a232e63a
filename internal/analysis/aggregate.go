package analysis

import (
	"github.com/sells-group/daynight/internal/model"
)

// Accumulator sums classified samples for one station within one analysis.
type Accumulator struct {
	daySum     float64
	nightSum   float64
	dayCount   int
	nightCount int
}

// Add folds one sample in.
func (a *Accumulator) Add(cs model.ClassifiedSample) {
	if cs.IsDay {
		a.daySum += cs.Value
		a.dayCount++
		return
	}
	a.nightSum += cs.Value
	a.nightCount++
}

// Total is the number of samples folded in.
func (a *Accumulator) Total() int {
	return a.dayCount + a.nightCount
}

// Stats returns the station's simple means and counts.
func (a *Accumulator) Stats() model.DayNightStats {
	s := model.DayNightStats{
		DayMeasurements:   a.dayCount,
		NightMeasurements: a.nightCount,
	}
	if a.dayCount > 0 {
		s.AvgTempDay = ptr(a.daySum / float64(a.dayCount))
	}
	if a.nightCount > 0 {
		s.AvgTempNight = ptr(a.nightSum / float64(a.nightCount))
	}
	s.Difference = difference(s.AvgTempDay, s.AvgTempNight)
	return s
}

// Summarize combines station stats into region means weighted by each
// station's sample counts. It is not the mean of the station means.
func Summarize(stations []model.DayNightStats) model.DayNightStats {
	var (
		daySum, nightSum     float64
		dayCount, nightCount int
	)
	for _, s := range stations {
		if s.AvgTempDay != nil && s.DayMeasurements > 0 {
			daySum += *s.AvgTempDay * float64(s.DayMeasurements)
			dayCount += s.DayMeasurements
		}
		if s.AvgTempNight != nil && s.NightMeasurements > 0 {
			nightSum += *s.AvgTempNight * float64(s.NightMeasurements)
			nightCount += s.NightMeasurements
		}
	}

	out := model.DayNightStats{DayMeasurements: dayCount, NightMeasurements: nightCount}
	if dayCount > 0 {
		out.AvgTempDay = ptr(daySum / float64(dayCount))
	}
	if nightCount > 0 {
		out.AvgTempNight = ptr(nightSum / float64(nightCount))
	}
	out.Difference = difference(out.AvgTempDay, out.AvgTempNight)
	return out
}

func difference(day, night *float64) *float64 {
	if day == nil || night == nil {
		return nil
	}
	return ptr(*day - *night)
}

func ptr(f float64) *float64 { return &f }
