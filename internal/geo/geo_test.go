package geo

import (
	"math"
	"testing"
)

func TestDistanceMetersZero(t *testing.T) {
	coords := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: -12.0563, Lng: -77.0845},
		{Lat: 89.9, Lng: 179.9},
		{Lat: -45.5, Lng: 10.25},
	}
	for _, c := range coords {
		if got := DistanceMeters(c, c); got != 0 {
			t.Errorf("expected DistanceMeters(%v, %v) 0, got %v", c, c, got)
		}
	}
}

func TestDistanceMetersSymmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{{Lat: -12.0563, Lng: -77.0845}, {Lat: -12.0576, Lng: -77.0834}},
		{{Lat: 51.5, Lng: -0.12}, {Lat: 48.85, Lng: 2.35}},
		{{Lat: 10, Lng: 170}, {Lat: -10, Lng: -170}},
		{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 0.0001}},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1])
		ba := DistanceMeters(p[1], p[0])
		if ab != ba {
			t.Errorf("asymmetric distance for %v: %v vs %v", p, ab, ba)
		}
		if ab <= 0 {
			t.Errorf("expected distance for %v > 0, got %v", p, ab)
		}
	}
}

func TestDistanceMetersKnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64
		tol  float64
	}{
		{
			name: "one degree of longitude on the equator",
			a:    Coordinate{Lat: 0, Lng: 0},
			b:    Coordinate{Lat: 0, Lng: 1},
			want: EarthRadiusMeters * math.Pi / 180,
			tol:  0.01,
		},
		{
			name: "quarter meridian",
			a:    Coordinate{Lat: 0, Lng: 0},
			b:    Coordinate{Lat: 90, Lng: 0},
			want: EarthRadiusMeters * math.Pi / 2,
			tol:  0.01,
		},
		{
			// 0.0005 degrees of latitude is about 55.6 m.
			name: "campus scale",
			a:    Coordinate{Lat: -12.0560, Lng: -77.0840},
			b:    Coordinate{Lat: -12.0565, Lng: -77.0840},
			want: EarthRadiusMeters * 0.0005 * math.Pi / 180,
			tol:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("expected DistanceMeters %v ± %v, got %v", tt.want, tt.tol, got)
			}
		})
	}
}

func TestDistanceMetersMonotonic(t *testing.T) {
	origin := Coordinate{Lat: -12.0560, Lng: -77.0840}
	prev := 0.0
	for i := 1; i <= 20; i++ {
		d := DistanceMeters(origin, Coordinate{Lat: origin.Lat, Lng: origin.Lng + float64(i)*0.0001})
		if d <= prev {
			t.Fatalf("step %d: distance %v not greater than %v", i, d, prev)
		}
		prev = d
	}
}

func TestCoordinateValid(t *testing.T) {
	tests := []struct {
		c    Coordinate
		want bool
	}{
		{Coordinate{Lat: 0, Lng: 0}, true},
		{Coordinate{Lat: 90, Lng: 180}, true},
		{Coordinate{Lat: 90.1, Lng: 0}, false},
		{Coordinate{Lat: 0, Lng: -180.5}, false},
		{Coordinate{Lat: math.NaN(), Lng: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Errorf("expected %v.Valid() %v, got %v", tt.c, tt.want, got)
		}
	}
}

func TestGeodesyFunc(t *testing.T) {
	var g Geodesy = GeodesyFunc(func(a, b Coordinate) float64 { return 42 })
	if got := g.DistanceMeters(Coordinate{}, Coordinate{}); got != 42 {
		t.Errorf("expected GeodesyFunc 42, got %v", got)
	}
	if got := (Sphere{}).DistanceMeters(Coordinate{Lat: 1}, Coordinate{Lat: 1}); got != 0 {
		t.Errorf("expected Sphere distance 0, got %v", got)
	}
}
