package geo

import (
	"math"

	"github.com/umahmood/haversine"

	"github.com/carenest/marketplace/internal/domain"
)

const (
	// libraryRadiusKm is the earth radius haversine.Distance scales by.
	libraryRadiusKm = 6371.0
	// EarthRadiusMeters is the equatorial radius distances are reported in.
	EarthRadiusMeters = 6378137.0
)

// DistanceMeters returns the great-circle distance between a and b on a
// sphere of EarthRadiusMeters, rounded to the nearest metre.
func DistanceMeters(a, b domain.Location) int {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Long},
		haversine.Coord{Lat: b.Lat, Lon: b.Long},
	)
	if math.IsNaN(km) || km <= 0 {
		return 0
	}
	angle := km / libraryRadiusKm
	return int(math.Round(angle * EarthRadiusMeters))
}

// DistanceKm returns DistanceMeters floored to whole kilometres. The result
// is never negative.
func DistanceKm(a, b domain.Location) int {
	return DistanceMeters(a, b) / 1000
}
