package places

import (
	"strings"
	"time"

	"akipe/models"
)

// limaDistricts are the 43 districts of metropolitan Lima, used to derive a
// district from a formatted address.
var limaDistricts = []string{
	"Ancón", "Ate", "Barranco", "Breña", "Carabayllo", "Chaclacayo",
	"Chorrillos", "Cieneguilla", "Comas", "El Agustino", "Independencia",
	"Jesús María", "La Molina", "La Victoria", "Lima", "Lince",
	"Los Olivos", "Lurigancho", "Lurín", "Magdalena del Mar", "Miraflores",
	"Pachacámac", "Pucusana", "Pueblo Libre", "Puente Piedra", "Punta Hermosa",
	"Punta Negra", "Rímac", "San Bartolo", "San Borja", "San Isidro",
	"San Juan de Lurigancho", "San Juan de Miraflores", "San Luis",
	"San Martín de Porres", "San Miguel", "Santa Anita", "Santa María del Mar",
	"Santa Rosa", "Santiago de Surco", "Surquillo", "Villa El Salvador",
	"Villa María del Triunfo",
}

// ExtractDistrict finds the first Lima district named in the address,
// defaulting to "Lima".
func ExtractDistrict(address string) string {
	lower := strings.ToLower(address)
	for _, district := range limaDistricts {
		if strings.Contains(lower, strings.ToLower(district)) {
			return district
		}
	}
	return "Lima"
}

var cuisineByType = map[string]string{
	"restaurant":    "Restaurante",
	"food":          "Comida",
	"bar":           "Bar",
	"cafe":          "Café",
	"bakery":        "Panadería",
	"meal_takeaway": "Para llevar",
	"meal_delivery": "Delivery",
}

func cuisineFromTypes(types []string) string {
	for _, t := range types {
		if cuisine, ok := cuisineByType[t]; ok {
			return cuisine
		}
	}
	return "Restaurante"
}

func categoryFromTypes(types []string) models.Category {
	has := func(name string) bool {
		for _, t := range types {
			if t == name {
				return true
			}
		}
		return false
	}
	switch {
	case has("bar") || has("night_club"):
		return models.CategoryLocal
	case has("fast_food_restaurant") || has("meal_takeaway"):
		return models.CategoryFastFood
	case has("fine_dining") || has("restaurant"):
		return models.CategoryGourmet
	case has("street_food_vendor"):
		return models.CategoryStreetFood
	case has("cafe") || has("coffee_shop"):
		return models.CategoryCafe
	case has("bakery"):
		return models.CategoryBakery
	}
	return models.CategoryLocal
}

// priceRangesByLevel maps the provider's 0-4 price level to soles per person.
var priceRangesByLevel = []models.PriceRange{
	{Min: 0, Max: 15, Currency: "S/"},
	{Min: 15, Max: 35, Currency: "S/"},
	{Min: 35, Max: 70, Currency: "S/"},
	{Min: 70, Max: 150, Currency: "S/"},
	{Min: 150, Max: 500, Currency: "S/"},
}

func priceRangeFromLevel(level *int) models.PriceRange {
	if level == nil {
		return priceRangesByLevel[1]
	}
	l := *level
	if l < 0 {
		l = 0
	}
	if l >= len(priceRangesByLevel) {
		l = len(priceRangesByLevel) - 1
	}
	return priceRangesByLevel[l]
}

// placeToRestaurant is the parse boundary between the provider's loose JSON
// and the typed Restaurant model. Missing fields get explicit placeholders
// rather than zero-value surprises downstream.
func placeToRestaurant(place providerPlace) models.Restaurant {
	address := place.FormattedAddress
	if address == "" {
		address = place.Vicinity
	}
	if address == "" {
		address = "Dirección no disponible"
	}

	name := place.Name
	if name == "" {
		name = "Restaurant"
	}

	openingHours := "Horarios no disponibles"
	if place.OpeningHours != nil && len(place.OpeningHours.WeekdayText) > 0 {
		openingHours = strings.Join(place.OpeningHours.WeekdayText, ", ")
	}

	return models.Restaurant{
		ID:          place.PlaceID,
		Name:        name,
		Address:     address,
		District:    ExtractDistrict(address),
		CuisineType: cuisineFromTypes(place.Types),
		Category:    categoryFromTypes(place.Types),
		Coordinates: models.Coordinate{
			Latitude:  place.Geometry.Location.Lat,
			Longitude: place.Geometry.Location.Lng,
		},
		Rating:       place.Rating,
		PriceRange:   priceRangeFromLevel(place.PriceLevel),
		OpeningHours: openingHours,
		GroupFriendly: models.GroupFriendly{
			Solo:       true,
			Couple:     true,
			Family:     true,
			LargeGroup: true,
		},
		DateAdded: time.Now(),
	}
}
