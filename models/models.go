package models

import "time"

// Coordinate is an immutable latitude/longitude pair in degrees.
// Valid values are latitude in [-90, 90] and longitude in [-180, 180].
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the WGS84 degree ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Category classifies a restaurant for marker styling and filtering.
type Category string

const (
	CategoryLocal      Category = "local"
	CategoryFastFood   Category = "fast_food"
	CategoryGourmet    Category = "gourmet"
	CategoryStreetFood Category = "street_food"
	CategoryCafe       Category = "cafe"
	CategoryBakery     Category = "bakery"
)

// PriceRange is the expected cost per person in the restaurant's currency.
type PriceRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// GroupFriendly flags which party sizes a restaurant suits.
type GroupFriendly struct {
	Solo       bool `json:"solo"`
	Couple     bool `json:"couple"`
	Family     bool `json:"family"`
	LargeGroup bool `json:"large_group"`
}

// For reports whether the restaurant suits the named group type
// ("solo", "couple", "family" or "large_group"). Unknown names match nothing.
func (g GroupFriendly) For(groupType string) bool {
	switch groupType {
	case "solo":
		return g.Solo
	case "couple":
		return g.Couple
	case "family":
		return g.Family
	case "large_group":
		return g.LargeGroup
	}
	return false
}

// Restaurant is the core model for a dining venue. Provider-sourced entries
// are rebuilt on every catalog refresh and never mutated in place; user-added
// entries are persisted and may be replaced by id.
type Restaurant struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	District      string        `json:"district"`
	CuisineType   string        `json:"type_of_cuisine"`
	Category      Category      `json:"category"`
	Coordinates   Coordinate    `json:"gps_coordinates"`
	Rating        float64       `json:"rating"`
	PriceRange    PriceRange    `json:"price_range"`
	OpeningHours  string        `json:"opening_hours"`
	ContactNumber string        `json:"contact_number,omitempty"`
	GroupFriendly GroupFriendly `json:"group_friendly"`
	DateAdded     time.Time     `json:"date_added"`

	// UserAdded marks entries created through the add flow; they are
	// persisted and survive provider refreshes.
	UserAdded bool `json:"user_added,omitempty"`
}

// RestaurantDraft carries the user-supplied fields for a new restaurant.
// The catalog assigns the id and date on creation.
type RestaurantDraft struct {
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	District      string        `json:"district"`
	CuisineType   string        `json:"type_of_cuisine"`
	Category      Category      `json:"category"`
	Coordinates   Coordinate    `json:"gps_coordinates"`
	Rating        float64       `json:"rating"`
	PriceRange    PriceRange    `json:"price_range"`
	OpeningHours  string        `json:"opening_hours"`
	ContactNumber string        `json:"contact_number,omitempty"`
	GroupFriendly GroupFriendly `json:"group_friendly"`
}

// SearchFilters is the transient query object rebuilt on every UI
// interaction and re-applied to the catalog.
type SearchFilters struct {
	Text         string      `json:"text,omitempty"`
	RadiusMeters float64     `json:"radius_meters,omitempty"` // 0 means no radius filter
	GroupType    string      `json:"group_type,omitempty"`
	PriceRange   *PriceRange `json:"price_range,omitempty"`
}

// RankedSuggestion annotates a restaurant with its distance from the current
// location for the search dropdown ordering.
type RankedSuggestion struct {
	Restaurant Restaurant `json:"restaurant"`
	DistanceKm float64    `json:"distance_km"`
}
