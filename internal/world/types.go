package world

import (
	"fmt"
	"math"
)

// City is one dataset record. Values are never mutated after loading.
type City struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"` // eastward scale once normalised, raw degrees before
	ISO3       string  `json:"iso3"`
	Population float64 `json:"population"`
}

func (c City) String() string {
	return fmt.Sprintf("id %d, %s, %s, lat %g, lng %g, pop %.0f", c.ID, c.Name, c.ISO3, c.Lat, c.Lng, c.Population)
}

// Candidate is a possible next hop ranked by distance from the current city.
type Candidate struct {
	Rank       int     `json:"rank"` // 1 = nearest
	DistanceKm float64 `json:"distanceKm"`
	City       City    `json:"city"`
}

// NormalizeLongitude shifts lng so that ref maps to 0 and wraps westward
// values into [0,360), making eastward travel strictly increasing.
func NormalizeLongitude(lng, ref float64) float64 {
	v := lng - ref
	if v < 0 {
		v += 360
	}
	if v >= 360 {
		v -= 360
	}
	return v
}

// DataIntegrityError reports a malformed city record at the provisioning boundary.
type DataIntegrityError struct {
	Row    int
	Field  string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("data integrity: row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("data integrity: %s: %s", e.Field, e.Reason)
}

// Validate checks raw (unnormalised) coordinates and fields.
func (c City) Validate(row int) error {
	switch {
	case c.Name == "":
		return &DataIntegrityError{Row: row, Field: "name", Reason: "missing"}
	case !within(c.Lat, 90):
		return &DataIntegrityError{Row: row, Field: "lat", Reason: fmt.Sprintf("%g out of range [-90,90]", c.Lat)}
	case !within(c.Lng, 180):
		return &DataIntegrityError{Row: row, Field: "lng", Reason: fmt.Sprintf("%g out of range [-180,180]", c.Lng)}
	case math.IsNaN(c.Population) || math.IsInf(c.Population, 0):
		return &DataIntegrityError{Row: row, Field: "population", Reason: fmt.Sprintf("%g is not finite", c.Population)}
	case c.Population < 0:
		return &DataIntegrityError{Row: row, Field: "population", Reason: "negative"}
	}
	return nil
}

// within reports whether v lies in [-limit, limit]. NaN never does.
func within(v, limit float64) bool { return v >= -limit && v <= limit }
