package model

import "encoding/json"

// DateRange is the inclusive request range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayNightStats is the day/night block shared by stations and the region
// summary. Averages and Difference are nil when undefined.
type DayNightStats struct {
	AvgTempDay        *float64 `json:"avg_temp_day"`
	AvgTempNight      *float64 `json:"avg_temp_night"`
	DayMeasurements   int      `json:"day_measurements"`
	NightMeasurements int      `json:"night_measurements"`
	Difference        *float64 `json:"difference"`
}

// Total is the number of samples behind the stats.
func (s DayNightStats) Total() int {
	return s.DayMeasurements + s.NightMeasurements
}

// StationAnalysis is one retained station in a RegionAnalysis.
type StationAnalysis struct {
	StationID   int64          `json:"station_id"`
	Name        string         `json:"name"`
	Coordinates Coordinates    `json:"coordinates"`
	Attributes  map[string]any `json:"attributes"`
	Analysis    DayNightStats  `json:"analysis"`
}

// RegionInfo is the region block of the output. It serialises as the
// region's attributes with name and id laid over them.
type RegionInfo struct {
	ID         int64
	Name       string
	Attributes map[string]any
}

// MarshalJSON flattens attributes next to name and id. Map keys are emitted
// sorted so repeated runs produce identical bytes.
func (r RegionInfo) MarshalJSON() ([]byte, error) {
	out := cloneAttributes(r.Attributes)
	out["name"] = r.Name
	out["id"] = r.ID
	return json.Marshal(out)
}

// RegionAnalysis is the engine's sole output.
type RegionAnalysis struct {
	Region         RegionInfo        `json:"region"`
	RegionGeometry json.RawMessage   `json:"region_geometry"`
	DateRange      DateRange         `json:"date_range"`
	Stations       []StationAnalysis `json:"stations"`
	Summary        DayNightStats     `json:"summary"`
}
