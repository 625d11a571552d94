// Package dataset provisions city records for a traversal: it reads raw
// rows from CSV or XLSX files, validates them and normalises longitudes to
// the eastward scale a catalog expects.
package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"worldtour/internal/catalog"
	"worldtour/internal/world"
)

var (
	ErrOriginNotFound = errors.New("origin city not found in dataset")
	ErrCityNotFound   = errors.New("city not found in dataset")
)

// column aliases, matched case-insensitively against the header row
var columns = map[string][]string{
	"id":         {"id"},
	"name":       {"city", "name"},
	"lat":        {"lat", "latitude"},
	"lng":        {"lng", "lon", "longitude"},
	"iso3":       {"iso3", "country_code"},
	"population": {"population", "pop"},
}

var required = []string{"id", "name", "lat", "lng"}

// ParseRecords converts a header and data rows into raw cities. Row numbers
// in errors are 1-based data rows, not counting the header.
func ParseRecords(header []string, rows [][]string) ([]world.City, error) {
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}
	cities := make([]world.City, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		c, err := parseRow(idx, row, i+1)
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range columns {
			if _, seen := idx[field]; seen {
				continue
			}
			for _, a := range aliases {
				if h == a {
					idx[field] = i
				}
			}
		}
	}
	for _, f := range required {
		if _, ok := idx[f]; !ok {
			return nil, &world.DataIntegrityError{Field: f, Reason: "column missing from header"}
		}
	}
	return idx, nil
}

func parseRow(idx map[string]int, row []string, n int) (world.City, error) {
	get := func(field string) string {
		i, ok := idx[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var c world.City
	var err error

	if c.ID, err = parseID(get("id")); err != nil {
		return c, &world.DataIntegrityError{Row: n, Field: "id", Reason: err.Error()}
	}
	c.Name = get("name")
	if c.Lat, err = parseRequiredFloat(get("lat")); err != nil {
		return c, &world.DataIntegrityError{Row: n, Field: "lat", Reason: err.Error()}
	}
	if c.Lng, err = parseRequiredFloat(get("lng")); err != nil {
		return c, &world.DataIntegrityError{Row: n, Field: "lng", Reason: err.Error()}
	}
	c.ISO3 = get("iso3")
	// missing population counts as zero, which never triggers the surcharge
	if p := get("population"); p != "" {
		if c.Population, err = strconv.ParseFloat(p, 64); err != nil {
			return c, &world.DataIntegrityError{Row: n, Field: "population", Reason: fmt.Sprintf("not a number: %q", p)}
		}
	}
	if err := c.Validate(n); err != nil {
		return c, err
	}
	return c, nil
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("missing")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	// spreadsheets sometimes hand back integral ids as floats
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int64(f), nil
}

func parseRequiredFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("missing")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Normalize returns copies of raw with longitudes shifted so that refLng
// maps to 0 and westward values wrapped by +360.
func Normalize(raw []world.City, refLng float64) []world.City {
	out := make([]world.City, len(raw))
	for i, c := range raw {
		c.Lng = world.NormalizeLongitude(c.Lng, refLng)
		out[i] = c
	}
	return out
}

// Prepare builds a catalog on the eastward scale anchored at origin's raw
// longitude and returns the origin on that scale.
func Prepare(raw []world.City, origin world.City) (*catalog.Catalog, world.City) {
	ref := origin.Lng
	origin.Lng = world.NormalizeLongitude(origin.Lng, ref)
	return catalog.New(Normalize(raw, ref)), origin
}

// FindCity looks up a raw city by ID.
func FindCity(raw []world.City, id int64) (world.City, error) {
	for _, c := range raw {
		if c.ID == id {
			return c, nil
		}
	}
	return world.City{}, fmt.Errorf("%w: id %d", ErrOriginNotFound, id)
}

// ResolveOrigin prefers the dataset's own record for id and falls back to
// the supplied record when the dataset does not carry it.
func ResolveOrigin(raw []world.City, id int64, fallback world.City) world.City {
	if c, err := FindCity(raw, id); err == nil {
		return c
	}
	return fallback
}
