package model

// DateLayout is the zero-padded ISO calendar date used by documents and
// request ranges. Lexicographic order on it equals chronological order.
const DateLayout = "2006-01-02"

// ClockLayout is the zero-padded 24-hour clock used by samples and solar
// windows. Lexicographic order on it equals minute-of-day order.
const ClockLayout = "15:04"

// Sample is one timestamped reading inside a measurement document.
type Sample struct {
	Clock string  `json:"time"`
	Value float64 `json:"value"`
}

// MeasurementDocument holds one station's samples for one measurement type on
// one calendar date. All samples share the document's date.
type MeasurementDocument struct {
	StationID int64    `json:"station_id"`
	Type      string   `json:"m_type"`
	Date      string   `json:"date"`
	Samples   []Sample `json:"values"`
}

// MeasurementFilter selects documents by station membership and an inclusive
// date range. An empty Type matches every measurement type.
type MeasurementFilter struct {
	StationIDs []int64
	Start      string
	End        string
	Type       string
}

// Matches reports whether doc satisfies the filter. Backends that cannot push
// the filter down use it to post-filter.
func (f MeasurementFilter) Matches(doc MeasurementDocument) bool {
	if doc.Date < f.Start || doc.Date > f.End {
		return false
	}
	if f.Type != "" && doc.Type != f.Type {
		return false
	}
	for _, id := range f.StationIDs {
		if id == doc.StationID {
			return true
		}
	}
	return false
}
