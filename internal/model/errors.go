package model

import "github.com/rotisserie/eris"

var (
	// ErrRegionNotFound means the requested region name did not resolve. No
	// analysis is produced.
	ErrRegionNotFound = eris.New("region not found")

	// ErrMalformedData marks stored dates or clock times that cannot be
	// interpreted. It aborts the whole analysis.
	ErrMalformedData = eris.New("malformed measurement data")

	// ErrInvalidDateRange rejects unparsable or inverted request ranges.
	ErrInvalidDateRange = eris.New("invalid date range")

	// ErrGeolocationUnavailable marks a station without usable coordinates.
	// The station is skipped; the error never escapes an analysis.
	ErrGeolocationUnavailable = eris.New("station geolocation unavailable")
)
