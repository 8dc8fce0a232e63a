// Package geospatial converts region boundaries between their stored forms
// and the GeoJSON emitted in analyses, and validates station positions.
package geospatial

import (
	"encoding/json"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/daynight/internal/model"
)

// SRID of every stored geometry. Solar computation needs WGS84 degrees.
const SRID = 4326

// DecodeEWKB parses a PostGIS boundary. Empty input yields a nil geometry.
func DecodeEWKB(data []byte) (geom.T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "geo: decode EWKB boundary")
	}
	return g, nil
}

// EncodeEWKB serialises g with SRID 4326 in little-endian order.
func EncodeEWKB(g geom.T) ([]byte, error) {
	if g == nil {
		return nil, nil
	}
	if g.SRID() == 0 {
		g = withSRID(g)
	}
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode EWKB boundary")
	}
	return data, nil
}

func withSRID(g geom.T) geom.T {
	switch t := g.(type) {
	case *geom.Point:
		return t.SetSRID(SRID)
	case *geom.Polygon:
		return t.SetSRID(SRID)
	case *geom.MultiPolygon:
		return t.SetSRID(SRID)
	}
	return g
}

// DecodeGeoJSON parses a GeoJSON geometry object. Empty input or JSON null
// yields a nil geometry.
func DecodeGeoJSON(data []byte) (geom.T, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return nil, eris.Wrap(err, "geo: decode GeoJSON boundary")
	}
	return g, nil
}

// BoundaryJSON renders g as a GeoJSON geometry, or JSON null when absent.
func BoundaryJSON(g geom.T) (json.RawMessage, error) {
	if g == nil {
		return json.RawMessage("null"), nil
	}
	data, err := geojson.Marshal(g)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode GeoJSON boundary")
	}
	return data, nil
}

// ValidateCoordinates rejects positions that cannot feed the solar
// computation. The returned error wraps model.ErrGeolocationUnavailable.
func ValidateCoordinates(c model.Coordinates) error {
	switch {
	case math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0):
		return eris.Wrap(model.ErrGeolocationUnavailable, "geo: non-finite coordinates")
	case c.Lat < -90 || c.Lat > 90:
		return eris.Wrapf(model.ErrGeolocationUnavailable, "geo: latitude %v out of range", c.Lat)
	case c.Lon < -180 || c.Lon > 180:
		return eris.Wrapf(model.ErrGeolocationUnavailable, "geo: longitude %v out of range", c.Lon)
	}
	return nil
}

// Locate returns the station's coordinates, or an error wrapping
// model.ErrGeolocationUnavailable when it has none usable.
func Locate(st model.Station) (model.Coordinates, error) {
	if st.Coordinates == nil {
		return model.Coordinates{}, eris.Wrapf(model.ErrGeolocationUnavailable, "geo: station %d has no position", st.ID)
	}
	if err := ValidateCoordinates(*st.Coordinates); err != nil {
		return model.Coordinates{}, err
	}
	return *st.Coordinates, nil
}
