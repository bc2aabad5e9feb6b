package places

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"akipe/geo"
	"akipe/models"
)

// DefaultDuplicateThresholdDeg is the coordinate delta under which two
// same-named places count as one (~50 meters). The historical import used
// 0.05° (~5 km), which its own comment contradicted; the radius is
// configurable so product can pick either.
const DefaultDuplicateThresholdDeg = 0.0005

// SearchCenters are the district anchor points swept during a bulk import.
var SearchCenters = []models.Coordinate{
	{Latitude: -12.0464, Longitude: -77.0428}, // Lima center
	{Latitude: -12.0564, Longitude: -77.0528}, // Miraflores
	{Latitude: -12.0364, Longitude: -77.0328}, // San Isidro
	{Latitude: -12.0664, Longitude: -77.0628}, // Barranco
	{Latitude: -12.0264, Longitude: -77.0228}, // La Molina
	{Latitude: -12.0764, Longitude: -77.0728}, // Surco
}

// ImportOptions configures a bulk import sweep.
type ImportOptions struct {
	Centers               []models.Coordinate
	RadiusMeters          float64
	DuplicateThresholdDeg float64
}

// DefaultImportOptions reads the duplicate threshold from the
// DEDUP_THRESHOLD_DEG env var when set.
func DefaultImportOptions() ImportOptions {
	opts := ImportOptions{
		Centers:               SearchCenters,
		RadiusMeters:          50000,
		DuplicateThresholdDeg: DefaultDuplicateThresholdDeg,
	}
	if v := os.Getenv("DEDUP_THRESHOLD_DEG"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil && threshold > 0 {
			opts.DuplicateThresholdDeg = threshold
		}
	}
	return opts
}

// IsDuplicate reports whether two restaurants are the same venue: an exact
// case-insensitive name match within the coordinate threshold.
func IsDuplicate(a, b models.Restaurant, thresholdDeg float64) bool {
	return strings.EqualFold(a.Name, b.Name) &&
		geo.DegreeDelta(a.Coordinates, b.Coordinates) < thresholdDeg
}

// Import sweeps the configured centers with nearby searches and merges the
// results, dropping id collisions and near-duplicate venues. A center that
// fails is logged and skipped; the sweep only errors when every center fails.
func Import(client *Client, opts ImportOptions) ([]models.Restaurant, error) {
	centers := opts.Centers
	if len(centers) == 0 {
		centers = SearchCenters
	}
	threshold := opts.DuplicateThresholdDeg
	if threshold <= 0 {
		threshold = DefaultDuplicateThresholdDeg
	}

	var merged []models.Restaurant
	seen := make(map[string]bool)
	failures := 0

	for _, center := range centers {
		found, err := client.SearchNearby(center, opts.RadiusMeters)
		if err != nil {
			log.Printf("Import: search near (%.4f, %.4f) failed: %v", center.Latitude, center.Longitude, err)
			failures++
			continue
		}

		for _, candidate := range found {
			if candidate.ID != "" && seen[candidate.ID] {
				continue
			}
			duplicate := false
			for _, existing := range merged {
				if IsDuplicate(existing, candidate, threshold) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			if candidate.ID != "" {
				seen[candidate.ID] = true
			}
			merged = append(merged, candidate)
		}
	}

	if failures == len(centers) {
		return nil, fmt.Errorf("import failed for all %d search centers", len(centers))
	}
	return merged, nil
}
