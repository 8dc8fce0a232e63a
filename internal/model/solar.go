package model

// WindowKind distinguishes an ordinary sunrise/sunset pair from dates on which
// the sun never rises or never sets.
type WindowKind string

const (
	WindowNormal     WindowKind = "normal"
	WindowPolarDay   WindowKind = "polar_day"
	WindowPolarNight WindowKind = "polar_night"
)

// SolarWindow is the daylight interval for one station on one date, as
// zero-padded HH:MM clock strings truncated to the minute. Sunrise and Sunset
// are empty for polar kinds.
type SolarWindow struct {
	Sunrise string     `json:"sunrise,omitempty"`
	Sunset  string     `json:"sunset,omitempty"`
	Kind    WindowKind `json:"kind"`
}

// NewSolarWindow returns an ordinary window.
func NewSolarWindow(sunrise, sunset string) SolarWindow {
	return SolarWindow{Sunrise: sunrise, Sunset: sunset, Kind: WindowNormal}
}

// ClassifiedSample is a sample labelled day or night.
type ClassifiedSample struct {
	Clock string
	Value float64
	IsDay bool
}
