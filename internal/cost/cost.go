package cost

import "worldtour/internal/world"

const (
	ForeignSurchargeHours  = 2
	PopulousSurchargeHours = 2
	// PopulousThreshold is the population above which a destination costs extra.
	PopulousThreshold = 200000
)

// Baseline returns the hours a hop costs before surcharges.
// Ranks past 3 cannot occur and fall through to the rank-3 price.
func Baseline(rank int) int {
	switch rank {
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 8
	}
}

// HopCost prices travelling from start to end when end was the rank-th nearest candidate.
func HopCost(start, end world.City, rank int) int {
	hours := Baseline(rank)
	if start.ISO3 != end.ISO3 {
		hours += ForeignSurchargeHours
	}
	if end.Population > PopulousThreshold {
		hours += PopulousSurchargeHours
	}
	return hours
}
