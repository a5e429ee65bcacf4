// Package catalog holds the ordered list of quiz targets.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/playperu/geoquiz/internal/geo"
)

type Location struct {
	Name     string         `json:"name"`
	Code     string         `json:"code"`
	Grid     string         `json:"grid"`
	Position geo.Coordinate `json:"position"`
}

// Catalog is a read-only, ordered sequence of locations fixed at startup.
type Catalog struct {
	locations []Location
}

func New(locations []Location) *Catalog {
	return &Catalog{locations: append([]Location(nil), locations...)}
}

func (c *Catalog) Len() int { return len(c.locations) }

// At returns the location at index i. It panics when i is out of range, like a slice.
func (c *Catalog) At(i int) Location { return c.locations[i] }

func (c *Catalog) All() []Location {
	return append([]Location(nil), c.locations...)
}

// Default is the built-in campus catalog (Ciudad Universitaria, Lima).
func Default() *Catalog {
	return New([]Location{
		{Name: "Rectorado", Code: "REC", Grid: "C4", Position: geo.Coordinate{Lat: -12.05633, Lng: -77.08449}},
		{Name: "Biblioteca Central", Code: "BIB", Grid: "D4", Position: geo.Coordinate{Lat: -12.05758, Lng: -77.08337}},
		{Name: "Estadio San Marcos", Code: "EST", Grid: "B2", Position: geo.Coordinate{Lat: -12.05402, Lng: -77.08695}},
		{Name: "Facultad de Medicina Veterinaria", Code: "FMV", Grid: "E6", Position: geo.Coordinate{Lat: -12.05921, Lng: -77.08204}},
		{Name: "Comedor Universitario", Code: "COM", Grid: "C5", Position: geo.Coordinate{Lat: -12.05696, Lng: -77.08541}},
		{Name: "Facultad de Ingenieria de Sistemas", Code: "FISI", Grid: "D2", Position: geo.Coordinate{Lat: -12.05362, Lng: -77.08534}},
		{Name: "Clinica Universitaria", Code: "CLI", Grid: "E3", Position: geo.Coordinate{Lat: -12.05484, Lng: -77.08271}},
		{Name: "Puerta 3 (Av. Venezuela)", Code: "P3", Grid: "A5", Position: geo.Coordinate{Lat: -12.05801, Lng: -77.08762}},
	})
}

// fileEntry is the on-disk shape of a catalog entry.
type fileEntry struct {
	Name string   `json:"name"`
	Code string   `json:"code"`
	Grid string   `json:"grid"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// Load reads a JSON catalog file: an array of {name, code, grid, lat, lng}.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON catalog.
func Parse(data []byte) (*Catalog, error) {
	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("catalog has no locations")
	}

	locations := make([]Location, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("location %d: name is required", i)
		}
		if e.Lat == nil || e.Lng == nil {
			return nil, fmt.Errorf("location %d (%s): lat and lng are required", i, name)
		}
		pos := geo.Coordinate{Lat: *e.Lat, Lng: *e.Lng}
		if !pos.Valid() {
			return nil, fmt.Errorf("location %d (%s): coordinate out of range", i, name)
		}
		locations = append(locations, Location{
			Name:     name,
			Code:     strings.TrimSpace(e.Code),
			Grid:     strings.TrimSpace(e.Grid),
			Position: pos,
		})
	}
	return New(locations), nil
}
