// Package catalog holds the normalised city list a traversal runs over.
//
// A Catalog is read-only after New and can be shared between concurrent
// traversals.
package catalog

import (
	"sort"

	"worldtour/internal/geo"
	"worldtour/internal/world"
)

// MaxCandidates is the lookahead of a single hop.
const MaxCandidates = 3

// Catalog is an immutable set of cities on one eastward longitude scale.
type Catalog struct {
	cities []world.City
	byID   map[int64]int
}

// New copies cities into a new catalog. Longitudes must already be normalised.
func New(cities []world.City) *Catalog {
	c := &Catalog{
		cities: make([]world.City, len(cities)),
		byID:   make(map[int64]int, len(cities)),
	}
	copy(c.cities, cities)
	for i, city := range c.cities {
		if _, dup := c.byID[city.ID]; !dup {
			c.byID[city.ID] = i
		}
	}
	return c
}

func (c *Catalog) Len() int { return len(c.cities) }

// Cities returns a copy of the catalog contents in catalog order.
func (c *Catalog) Cities() []world.City {
	out := make([]world.City, len(c.cities))
	copy(out, c.cities)
	return out
}

// Lookup returns the first city with the given ID.
func (c *Catalog) Lookup(id int64) (world.City, bool) {
	i, ok := c.byID[id]
	if !ok {
		return world.City{}, false
	}
	return c.cities[i], true
}

// EastwardCandidates returns up to MaxCandidates cities strictly east of
// from, nearest first. Equal distances keep catalog order. An empty result
// means the journey cannot continue.
func (c *Catalog) EastwardCandidates(from world.City) []world.Candidate {
	var out []world.Candidate
	for _, other := range c.cities {
		if other.Lng > from.Lng {
			d := geo.Distance(from.Lat, from.Lng, other.Lat, other.Lng)
			out = append(out, world.Candidate{DistanceKm: d, City: other})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
