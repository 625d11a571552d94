package geo

import "math"

const (
	// EarthRadiusKm is the radius of the modelled sphere.
	EarthRadiusKm = 6371.0
	// HalfCircumferenceKm is the largest distance two points on the sphere can be apart.
	HalfCircumferenceKm = math.Pi * EarthRadiusKm
)

func toRad(d float64) float64 { return d * math.Pi / 180 }

// Distance returns the haversine great-circle distance in kilometres.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dPhi := toRad(lat2 - lat1)
	dLambda := toRad(lng2 - lng1)
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// rounding can push a a hair outside [0,1] for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Bearing returns the initial bearing from the first point to the second, in [0,360) degrees.
func Bearing(lat1, lng1, lat2, lng2 float64) float64 {
	y := math.Sin(toRad(lng2-lng1)) * math.Cos(toRad(lat2))
	x := math.Cos(toRad(lat1))*math.Sin(toRad(lat2)) - math.Sin(toRad(lat1))*math.Cos(toRad(lat2))*math.Cos(toRad(lng2-lng1))
	brng := math.Atan2(y, x) * 180.0 / math.Pi
	if brng < 0 {
		brng += 360
	}
	return brng
}
