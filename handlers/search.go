package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"akipe/catalog"
	"akipe/location"
	"akipe/models"
	"akipe/places"
)

// ParseSearchParams extracts and normalizes restaurant search filters from
// the URL query.
func ParseSearchParams(query url.Values) (models.SearchFilters, *models.Coordinate) {
	var filters models.SearchFilters

	filters.Text = query.Get("q")
	if filters.Text == "" {
		filters.Text = query.Get("name")
	}

	filters.RadiusMeters, _ = strconv.ParseFloat(query.Get("radius"), 64)

	filters.GroupType = query.Get("group")
	if filters.GroupType == "" {
		filters.GroupType = query.Get("group_type")
	}

	minPrice, _ := strconv.Atoi(query.Get("min_price"))
	maxPrice, _ := strconv.Atoi(query.Get("max_price"))
	if maxPrice > 0 {
		filters.PriceRange = &models.PriceRange{Min: minPrice, Max: maxPrice}
	}

	return filters, parseCoordinate(query, "lat", "lon")
}

func parseCoordinate(query url.Values, latKey, lonKey string) *models.Coordinate {
	latStr, lonStr := query.Get(latKey), query.Get(lonKey)
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return nil
	}
	c := models.Coordinate{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return nil
	}
	return &c
}

// sessionOrigin resolves the search origin: explicit lat/lon wins, then the
// session's current location, then none (no distance ordering).
func sessionOrigin(explicit *models.Coordinate, session *location.Session) *models.Coordinate {
	if explicit != nil {
		return explicit
	}
	if session == nil {
		return nil
	}
	return session.Snapshot().Current
}

// userMessage picks the user-facing text for a failure, preferring the
// classified provider message.
func userMessage(err error) string {
	var pe *places.ProviderError
	if errors.As(err, &pe) {
		return pe.UserMessage
	}
	return "Algo salió mal. Por favor, intenta de nuevo."
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("encoding response:", err)
	}
}

// SearchHandler runs the filter pipeline over the session catalog. The
// catalog-level error state, if any, rides along with the (stale but valid)
// results instead of replacing them.
func SearchHandler(c *catalog.Catalog, session *location.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, explicit := ParseSearchParams(r.URL.Query())
		origin := sessionOrigin(explicit, session)

		results := c.ApplyFilters(filters, origin)

		response := map[string]any{
			"restaurants": results,
			"total_count": len(results),
		}
		if err := c.Err(); err != nil {
			response["error"] = userMessage(err)
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// SuggestHandler serves the ranked search suggestions for the dropdown.
func SuggestHandler(c *catalog.Catalog, session *location.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, "q is required", http.StatusBadRequest)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		origin := sessionOrigin(parseCoordinate(r.URL.Query(), "lat", "lon"), session)

		writeJSON(w, http.StatusOK, map[string]any{
			"suggestions": c.Suggest(query, origin, limit),
		})
	}
}

// GetRestaurantHandler looks a restaurant up by id.
func GetRestaurantHandler(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		restaurant, found := c.GetByID(id)
		if !found {
			http.Error(w, "Restaurant not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, restaurant)
	}
}

// AddRestaurantHandler creates a user-added restaurant from the posted draft.
func AddRestaurantHandler(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft models.RestaurantDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		restaurant, err := c.Add(draft)
		if err != nil {
			log.Println("adding restaurant:", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, restaurant)
	}
}

// UpdateRestaurantHandler fully replaces a user-added restaurant by id.
func UpdateRestaurantHandler(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft models.RestaurantDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		restaurant, err := c.Update(r.PathValue("id"), draft)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, restaurant)
	}
}

// RefreshHandler re-queries the places provider around the session location
// (or an explicit lat/lon) and swaps in the fresh provider subset.
func RefreshHandler(c *catalog.Catalog, session *location.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := sessionOrigin(parseCoordinate(r.URL.Query(), "lat", "lon"), session)
		if origin == nil {
			// default Lima center, same as the map's initial viewport
			origin = &models.Coordinate{Latitude: -12.0464, Longitude: -77.0428}
		}
		radius, _ := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)

		if err := c.Refresh(*origin, radius); err != nil {
			log.Println("catalog refresh:", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":       userMessage(err),
				"restaurants": c.Restaurants(), // previous catalog, still valid
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total_count": len(c.Restaurants()),
		})
	}
}

// ImportHandler runs the bulk district sweep and persists the merged result.
// importFn is the places.Import sweep bound to its client and options.
func ImportHandler(c *catalog.Catalog, store catalog.Store, importFn func() ([]models.Restaurant, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imported, err := importFn()
		if err != nil {
			log.Println("bulk import:", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": userMessage(err)})
			return
		}

		saved := 0
		if store != nil {
			for _, restaurant := range imported {
				if err := store.Upsert(restaurant); err != nil {
					log.Printf("saving imported restaurant %s: %v", restaurant.ID, err)
					continue
				}
				saved++
			}
		}
		c.Seed(imported)

		writeJSON(w, http.StatusOK, map[string]any{
			"imported": len(imported),
			"saved":    saved,
		})
	}
}
