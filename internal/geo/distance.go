// Package geo computes geodesic distances between course coordinates.
package geo

import (
	"math"

	"github.com/tidwall/geodesic"
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// NewPoint returns a point when both coordinates are present and finite.
func NewPoint(lat, lon *float64) (Point, bool) {
	if lat == nil || lon == nil {
		return Point{}, false
	}
	if math.IsNaN(*lat) || math.IsNaN(*lon) || math.IsInf(*lat, 0) || math.IsInf(*lon, 0) {
		return Point{}, false
	}
	return Point{Lat: *lat, Lon: *lon}, true
}

// Valid reports whether the latitude lies within [-90, 90].
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90
}

// Distance returns the WGS-84 ellipsoidal distance in meters between a and b.
// It fails when either latitude is out of range.
func Distance(a, b Point) (float64, bool) {
	if !a.Valid() || !b.Valid() {
		return 0, false
	}
	var s12 float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &s12, nil, nil)
	if math.IsNaN(s12) {
		return 0, false
	}
	return s12, true
}
