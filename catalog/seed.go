package catalog

import (
	"time"

	"akipe/models"
)

var seedDate = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// SeedRestaurants is the bundled Lima list used when the places provider is
// not configured, so the app still has something to show.
var SeedRestaurants = []models.Restaurant{
	{
		ID:            "seed-1",
		Name:          "Restaurante El Pescador",
		Address:       "Av. Ancón 123",
		District:      "Ancón",
		CuisineType:   "Mariscos",
		Category:      models.CategoryLocal,
		Coordinates:   models.Coordinate{Latitude: -11.7667, Longitude: -77.1667},
		Rating:        4.2,
		PriceRange:    models.PriceRange{Min: 25, Max: 50, Currency: "S/"},
		OpeningHours:  "11:00 - 22:00",
		ContactNumber: "+51 1 552-1234",
		GroupFriendly: models.GroupFriendly{Solo: true, Couple: true, Family: true, LargeGroup: true},
		DateAdded:     seedDate,
	},
	{
		ID:            "seed-2",
		Name:          "Pollería Don Pollo",
		Address:       "Av. Nicolás Ayllón 2456",
		District:      "Ate",
		CuisineType:   "Pollo a la Brasa",
		Category:      models.CategoryLocal,
		Coordinates:   models.Coordinate{Latitude: -12.0333, Longitude: -76.9167},
		Rating:        4.1,
		PriceRange:    models.PriceRange{Min: 18, Max: 35, Currency: "S/"},
		OpeningHours:  "11:00 - 23:00",
		ContactNumber: "+51 1 326-7890",
		GroupFriendly: models.GroupFriendly{Solo: true, Couple: true, Family: true, LargeGroup: true},
		DateAdded:     seedDate,
	},
	{
		ID:            "seed-3",
		Name:          "KFC Ate",
		Address:       "Av. Separadora Industrial 1234",
		District:      "Ate",
		CuisineType:   "Pollo Frito",
		Category:      models.CategoryFastFood,
		Coordinates:   models.Coordinate{Latitude: -12.0289, Longitude: -76.9234},
		Rating:        3.8,
		PriceRange:    models.PriceRange{Min: 12, Max: 30, Currency: "S/"},
		OpeningHours:  "10:00 - 23:00",
		ContactNumber: "+51 1 326-5555",
		GroupFriendly: models.GroupFriendly{Solo: true, Couple: true, Family: true, LargeGroup: true},
		DateAdded:     seedDate,
	},
	{
		ID:            "seed-4",
		Name:          "Central",
		Address:       "Av. Pedro de Osma 301",
		District:      "Barranco",
		CuisineType:   "Alta Cocina Peruana",
		Category:      models.CategoryGourmet,
		Coordinates:   models.Coordinate{Latitude: -12.1456, Longitude: -77.0208},
		Rating:        4.9,
		PriceRange:    models.PriceRange{Min: 280, Max: 450, Currency: "S/"},
		OpeningHours:  "19:00 - 24:00",
		ContactNumber: "+51 1 242-8515",
		GroupFriendly: models.GroupFriendly{Solo: false, Couple: true, Family: true, LargeGroup: false},
		DateAdded:     seedDate,
	},
	{
		ID:            "seed-5",
		Name:          "Isolina",
		Address:       "Av. San Martín 101",
		District:      "Barranco",
		CuisineType:   "Criolla",
		Category:      models.CategoryLocal,
		Coordinates:   models.Coordinate{Latitude: -12.1456, Longitude: -77.0175},
		Rating:        4.6,
		PriceRange:    models.PriceRange{Min: 40, Max: 70, Currency: "S/"},
		OpeningHours:  "12:00 - 23:00",
		ContactNumber: "+51 1 247-5075",
		GroupFriendly: models.GroupFriendly{Solo: true, Couple: true, Family: true, LargeGroup: false},
		DateAdded:     seedDate,
	},
}
