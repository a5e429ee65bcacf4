// Package geo computes great-circle distances between coordinates.
package geo

import "math"

// EarthRadiusMeters is the mean radius used for spherical distances.
const EarthRadiusMeters = 6371000.0

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether c lies within the latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Geodesy measures the distance in meters between two coordinates.
type Geodesy interface {
	DistanceMeters(a, b Coordinate) float64
}

// GeodesyFunc adapts a plain function to Geodesy.
type GeodesyFunc func(a, b Coordinate) float64

func (f GeodesyFunc) DistanceMeters(a, b Coordinate) float64 { return f(a, b) }

// Sphere is the default Geodesy: a spherical Earth of EarthRadiusMeters.
type Sphere struct{}

func (Sphere) DistanceMeters(a, b Coordinate) float64 { return DistanceMeters(a, b) }

// DistanceMeters returns the great-circle distance between a and b using the
// spherical law of cosines. The result is symmetric and zero for a == b.
func DistanceMeters(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	// math.Cos is even, so swapping a and b yields the same cosine bit for bit.
	cos := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLng)
	cos = math.Max(-1, math.Min(1, cos))
	return EarthRadiusMeters * math.Acos(cos)
}
