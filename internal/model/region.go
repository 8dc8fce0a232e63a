package model

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
)

// Region is an administrative area (e.g. a county) stations are assigned to.
type Region struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Boundary   geom.T         `json:"-"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Coordinates is a WGS84 position in degrees.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Station is a fixed weather sensor. Coordinates is nil when the backing
// store holds no usable position for it.
type Station struct {
	ID          int64          `json:"station_id"`
	Name        string         `json:"name"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	RegionID    int64          `json:"region_id"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// RegionStationCount pairs a region name with the number of stations
// assigned to it.
type RegionStationCount struct {
	RegionID int64  `json:"region_id"`
	Name     string `json:"name"`
	Stations int    `json:"stations"`
}

// DateSpan is the inclusive range of document dates present in a store.
// Both fields are empty when the store holds no documents.
type DateSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsEmpty reports whether the span covers no dates.
func (d DateSpan) IsEmpty() bool {
	return d.Start == "" || d.End == ""
}

// cloneAttributes returns a shallow copy so callers can add keys without
// mutating the store's map.
func cloneAttributes(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// MarshalAttributes encodes an attribute map, yielding "{}" for nil.
func MarshalAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(attrs)
}

// UnmarshalAttributes decodes a stored attribute blob. Empty input yields an
// empty map.
func UnmarshalAttributes(data []byte) (map[string]any, error) {
	attrs := map[string]any{}
	if len(data) == 0 {
		return attrs, nil
	}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}
