package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"akipe/geo"
	"akipe/models"
)

// DefaultProviderRadiusMeters covers the whole Lima metro area when no user
// radius is chosen. Display filtering happens afterwards, in ApplyFilters.
const DefaultProviderRadiusMeters = 100000

// DefaultSuggestionLimit caps the search dropdown.
const DefaultSuggestionLimit = 8

// providerQuery is the broad text search the catalog refreshes from.
const providerQuery = "restaurants in Lima, Peru"

// SearchProvider is the external places capability the catalog refreshes
// from.
type SearchProvider interface {
	TextSearch(query string, origin models.Coordinate, radiusMeters float64) ([]models.Restaurant, error)
}

// Store persists user-added restaurants across sessions.
type Store interface {
	Upsert(r models.Restaurant) error
	List() ([]models.Restaurant, error)
}

// Catalog owns the canonical in-memory restaurant list for the session:
// provider-sourced entries rebuilt on refresh, plus user-added entries that
// survive refreshes. All queries are linear scans; the entity count is small.
type Catalog struct {
	mu          sync.Mutex
	provider    SearchProvider
	store       Store
	fromAPI     []models.Restaurant
	userAdded   []models.Restaurant
	nextLocalID int
	refreshSeq  uint64
	lastErr     error
}

// New creates an empty catalog. provider and store may be nil for offline or
// ephemeral use.
func New(provider SearchProvider, store Store) *Catalog {
	return &Catalog{provider: provider, store: store, nextLocalID: 1}
}

// LoadPersisted pulls previously saved user-added restaurants from the store
// into the session catalog.
func (c *Catalog) LoadPersisted() error {
	if c.store == nil {
		return nil
	}
	saved, err := c.store.List()
	if err != nil {
		return fmt.Errorf("loading persisted restaurants: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAdded = saved
	for _, r := range saved {
		var n int
		if _, err := fmt.Sscanf(r.ID, "local-%d", &n); err == nil && n >= c.nextLocalID {
			c.nextLocalID = n + 1
		}
	}
	return nil
}

// Seed replaces the provider-sourced subset with a fixed list, used when the
// provider is unavailable.
func (c *Catalog) Seed(restaurants []models.Restaurant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fromAPI = restaurants
}

// Refresh requests restaurants from the provider centered at origin. A radius
// of 0 or less falls back to the metro-wide default. Overlapping refreshes are
// not serialized; the latest call wins and stale in-flight results are
// discarded when they arrive. On provider error the previous catalog stays
// intact and the failure is recorded as the catalog error state.
func (c *Catalog) Refresh(origin models.Coordinate, radiusMeters float64) error {
	if radiusMeters <= 0 {
		radiusMeters = DefaultProviderRadiusMeters
	}

	c.mu.Lock()
	if c.provider == nil {
		c.mu.Unlock()
		return nil
	}
	c.refreshSeq++
	seq := c.refreshSeq
	provider := c.provider
	c.mu.Unlock()

	found, err := provider.TextSearch(providerQuery, origin, radiusMeters)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.refreshSeq {
		// a newer refresh superseded this one
		return nil
	}
	if err != nil {
		c.lastErr = err
		return err
	}
	c.fromAPI = found
	c.lastErr = nil
	return nil
}

// Err returns the catalog-level error state from the last refresh, nil when
// the catalog is healthy.
func (c *Catalog) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// all returns the session list, provider entries first, user-added appended.
// Caller must hold c.mu.
func (c *Catalog) all() []models.Restaurant {
	combined := make([]models.Restaurant, 0, len(c.fromAPI)+len(c.userAdded))
	combined = append(combined, c.fromAPI...)
	combined = append(combined, c.userAdded...)
	return combined
}

// Restaurants returns a copy of the unfiltered session catalog.
func (c *Catalog) Restaurants() []models.Restaurant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.all()
}

// matchesText is the shared text predicate: case-insensitive substring match
// against name, district, or cuisine type (any field matches).
func matchesText(r models.Restaurant, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.District), q) ||
		strings.Contains(strings.ToLower(r.CuisineType), q)
}

// ApplyFilters runs the query pipeline: text, then group type, then price
// range, then radius, then distance sort. The cheap narrowing stages run
// before any distance computation; the order is part of the contract.
// A nil origin disables radius filtering and preserves catalog order.
func (c *Catalog) ApplyFilters(filters models.SearchFilters, origin *models.Coordinate) []models.Restaurant {
	c.mu.Lock()
	filtered := c.all()
	c.mu.Unlock()

	if filters.Text != "" {
		kept := filtered[:0]
		for _, r := range filtered {
			if matchesText(r, filters.Text) {
				kept = append(kept, r)
			}
		}
		filtered = kept
	}

	if filters.GroupType != "" {
		kept := filtered[:0]
		for _, r := range filtered {
			if r.GroupFriendly.For(filters.GroupType) {
				kept = append(kept, r)
			}
		}
		filtered = kept
	}

	if filters.PriceRange != nil {
		kept := filtered[:0]
		for _, r := range filtered {
			if r.PriceRange.Min >= filters.PriceRange.Min && r.PriceRange.Max <= filters.PriceRange.Max {
				kept = append(kept, r)
			}
		}
		filtered = kept
	}

	if origin != nil && filters.RadiusMeters > 0 {
		filtered = geo.FilterWithinRadius(*origin, filters.RadiusMeters, filtered, restaurantCoord)
	}

	if origin != nil {
		filtered = geo.SortByDistance(*origin, filtered, restaurantCoord)
	}
	return filtered
}

func restaurantCoord(r models.Restaurant) models.Coordinate { return r.Coordinates }

// Suggest returns up to limit restaurants matching queryText, annotated with
// their distance from origin and ordered nearest-first when origin is known.
// Callers driving this from keystrokes should debounce (see Debouncer).
func (c *Catalog) Suggest(queryText string, origin *models.Coordinate, limit int) []models.RankedSuggestion {
	if queryText == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	c.mu.Lock()
	all := c.all()
	c.mu.Unlock()

	var matched []models.Restaurant
	for _, r := range all {
		if matchesText(r, queryText) {
			matched = append(matched, r)
		}
	}
	if origin != nil {
		matched = geo.SortByDistance(*origin, matched, restaurantCoord)
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	suggestions := make([]models.RankedSuggestion, 0, len(matched))
	for _, r := range matched {
		s := models.RankedSuggestion{Restaurant: r}
		if origin != nil {
			s.DistanceKm = geo.DistanceKm(*origin, r.Coordinates)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions
}

// Add creates a restaurant from the draft: assigns a local id that cannot
// collide with provider place ids, stamps the creation time, persists it, and
// appends it to the session catalog.
func (c *Catalog) Add(draft models.RestaurantDraft) (models.Restaurant, error) {
	if !draft.Coordinates.Valid() {
		return models.Restaurant{}, fmt.Errorf("invalid coordinates (%f, %f)", draft.Coordinates.Latitude, draft.Coordinates.Longitude)
	}
	if draft.PriceRange.Min > draft.PriceRange.Max {
		return models.Restaurant{}, fmt.Errorf("price range min %d exceeds max %d", draft.PriceRange.Min, draft.PriceRange.Max)
	}
	if draft.Name == "" {
		return models.Restaurant{}, fmt.Errorf("restaurant name is required")
	}

	c.mu.Lock()
	id := fmt.Sprintf("local-%d", c.nextLocalID)
	c.nextLocalID++
	c.mu.Unlock()

	restaurant := models.Restaurant{
		ID:            id,
		Name:          draft.Name,
		Address:       draft.Address,
		District:      draft.District,
		CuisineType:   draft.CuisineType,
		Category:      draft.Category,
		Coordinates:   draft.Coordinates,
		Rating:        draft.Rating,
		PriceRange:    draft.PriceRange,
		OpeningHours:  draft.OpeningHours,
		ContactNumber: draft.ContactNumber,
		GroupFriendly: draft.GroupFriendly,
		DateAdded:     time.Now(),
		UserAdded:     true,
	}

	if c.store != nil {
		if err := c.store.Upsert(restaurant); err != nil {
			return models.Restaurant{}, fmt.Errorf("persisting restaurant: %w", err)
		}
	}

	c.mu.Lock()
	c.userAdded = append(c.userAdded, restaurant)
	c.mu.Unlock()
	return restaurant, nil
}

// Update replaces a user-added restaurant by id (full replace). Provider
// sourced entries are immutable and cannot be edited.
func (c *Catalog) Update(id string, draft models.RestaurantDraft) (models.Restaurant, error) {
	c.mu.Lock()
	idx := -1
	for i, r := range c.userAdded {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return models.Restaurant{}, fmt.Errorf("restaurant %s not found or not editable", id)
	}
	existing := c.userAdded[idx]
	c.mu.Unlock()

	if !draft.Coordinates.Valid() {
		return models.Restaurant{}, fmt.Errorf("invalid coordinates (%f, %f)", draft.Coordinates.Latitude, draft.Coordinates.Longitude)
	}
	if draft.PriceRange.Min > draft.PriceRange.Max {
		return models.Restaurant{}, fmt.Errorf("price range min %d exceeds max %d", draft.PriceRange.Min, draft.PriceRange.Max)
	}

	updated := models.Restaurant{
		ID:            existing.ID,
		Name:          draft.Name,
		Address:       draft.Address,
		District:      draft.District,
		CuisineType:   draft.CuisineType,
		Category:      draft.Category,
		Coordinates:   draft.Coordinates,
		Rating:        draft.Rating,
		PriceRange:    draft.PriceRange,
		OpeningHours:  draft.OpeningHours,
		ContactNumber: draft.ContactNumber,
		GroupFriendly: draft.GroupFriendly,
		DateAdded:     existing.DateAdded,
		UserAdded:     true,
	}

	if c.store != nil {
		if err := c.store.Upsert(updated); err != nil {
			return models.Restaurant{}, fmt.Errorf("persisting restaurant: %w", err)
		}
	}

	c.mu.Lock()
	c.userAdded[idx] = updated
	c.mu.Unlock()
	return updated, nil
}

// GetByID finds a restaurant in the session catalog.
func (c *Catalog) GetByID(id string) (models.Restaurant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.all() {
		if r.ID == id {
			return r, true
		}
	}
	return models.Restaurant{}, false
}
