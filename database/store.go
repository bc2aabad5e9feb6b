package database

import (
	"database/sql"

	"akipe/models"
)

// RestaurantStore is the persistence façade for user-added restaurants:
// idempotent create-or-replace keyed by id, plus a full listing. No
// multi-record transactional guarantees are offered or needed.
type RestaurantStore struct {
	db *sql.DB
}

// NewRestaurantStore wraps an open database handle.
func NewRestaurantStore(db *sql.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

// Upsert creates or fully replaces the record with r's id.
func (s *RestaurantStore) Upsert(r models.Restaurant) error {
	_, err := s.db.Exec(`
		INSERT INTO restaurants (
			id, name, address, district, cuisine_type, category,
			latitude, longitude, rating, price_min, price_max, currency,
			opening_hours, contact_number, solo, couple, family, large_group,
			date_added, user_added
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			district = EXCLUDED.district,
			cuisine_type = EXCLUDED.cuisine_type,
			category = EXCLUDED.category,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			rating = EXCLUDED.rating,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			currency = EXCLUDED.currency,
			opening_hours = EXCLUDED.opening_hours,
			contact_number = EXCLUDED.contact_number,
			solo = EXCLUDED.solo,
			couple = EXCLUDED.couple,
			family = EXCLUDED.family,
			large_group = EXCLUDED.large_group,
			user_added = EXCLUDED.user_added
	`,
		r.ID, r.Name, r.Address, r.District, r.CuisineType, string(r.Category),
		r.Coordinates.Latitude, r.Coordinates.Longitude, r.Rating,
		r.PriceRange.Min, r.PriceRange.Max, r.PriceRange.Currency,
		r.OpeningHours, r.ContactNumber,
		r.GroupFriendly.Solo, r.GroupFriendly.Couple, r.GroupFriendly.Family, r.GroupFriendly.LargeGroup,
		r.DateAdded, r.UserAdded,
	)
	return err
}

// List returns all persisted restaurants in insertion-time order.
func (s *RestaurantStore) List() ([]models.Restaurant, error) {
	rows, err := s.db.Query(`
		SELECT id, name, address, district, cuisine_type, category,
		       latitude, longitude, rating, price_min, price_max, currency,
		       opening_hours, contact_number, solo, couple, family, large_group,
		       date_added, user_added
		FROM restaurants
		ORDER BY date_added ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []models.Restaurant{}
	for rows.Next() {
		var r models.Restaurant
		var category string
		err := rows.Scan(
			&r.ID, &r.Name, &r.Address, &r.District, &r.CuisineType, &category,
			&r.Coordinates.Latitude, &r.Coordinates.Longitude, &r.Rating,
			&r.PriceRange.Min, &r.PriceRange.Max, &r.PriceRange.Currency,
			&r.OpeningHours, &r.ContactNumber,
			&r.GroupFriendly.Solo, &r.GroupFriendly.Couple, &r.GroupFriendly.Family, &r.GroupFriendly.LargeGroup,
			&r.DateAdded, &r.UserAdded,
		)
		if err != nil {
			return nil, err
		}
		r.Category = models.Category(category)
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}
