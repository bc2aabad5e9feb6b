package geo

import (
	"math"
	"sort"

	"akipe/models"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// DistanceMeters computes the great-circle distance between two coordinates
// using the Haversine formula. It is symmetric and returns 0 for equal points.
func DistanceMeters(a, b models.Coordinate) float64 {
	return DistanceKm(a, b) * 1000
}

// DistanceKm is DistanceMeters in kilometers.
func DistanceKm(a, b models.Coordinate) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// FilterWithinRadius keeps the items whose coordinate lies within radiusMeters
// of origin. A radius of 0 or less means no filtering: all items are returned.
func FilterWithinRadius[T any](origin models.Coordinate, radiusMeters float64, items []T, coordinateOf func(T) models.Coordinate) []T {
	if radiusMeters <= 0 {
		return items
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if DistanceMeters(origin, coordinateOf(item)) <= radiusMeters {
			kept = append(kept, item)
		}
	}
	return kept
}

// SortByDistance returns the items ordered nearest-first from origin. The sort
// is stable: ties keep their original order, so repeated calls on unchanged
// input produce identical output. The input slice is not modified.
func SortByDistance[T any](origin models.Coordinate, items []T, coordinateOf func(T) models.Coordinate) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return DistanceMeters(origin, coordinateOf(sorted[i])) < DistanceMeters(origin, coordinateOf(sorted[j]))
	})
	return sorted
}

// DegreeDelta is the Chebyshev distance between two coordinates in degrees,
// used for cheap movement-threshold checks where spherical accuracy is
// unnecessary (GPS jitter suppression, duplicate detection).
func DegreeDelta(a, b models.Coordinate) float64 {
	return math.Max(math.Abs(a.Latitude-b.Latitude), math.Abs(a.Longitude-b.Longitude))
}
