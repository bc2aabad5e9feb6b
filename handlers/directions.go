package handlers

import (
	"net/http"

	"akipe/catalog"
	"akipe/location"
	"akipe/models"
	"akipe/places"
)

// DirectionsProvider is the routing surface handlers need from the maps
// client. Narrowed to an interface so tests can script routes.
type DirectionsProvider interface {
	Directions(origin, destination models.Coordinate, mode places.TravelMode) (*places.Route, error)
}

// GeocodeProvider resolves free-form addresses to coordinates.
type GeocodeProvider interface {
	Geocode(address string) (models.Coordinate, error)
}

// DirectionsHandler returns walking or driving steps from the requester's
// position to a destination. The destination is either an explicit lat/lon
// pair or a restaurant id. When the provider cannot route, the response
// still carries a public maps URL so the caller has somewhere to send the
// user.
func DirectionsHandler(provider DirectionsProvider, c *catalog.Catalog, session *location.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		origin := sessionOrigin(parseCoordinate(query, "lat", "lon"), session)
		if origin == nil {
			http.Error(w, "origin is required", http.StatusBadRequest)
			return
		}

		var destination *models.Coordinate
		if id := query.Get("restaurant_id"); id != "" {
			restaurant, ok := c.GetByID(id)
			if !ok {
				http.Error(w, "Restaurant not found", http.StatusNotFound)
				return
			}
			destination = &restaurant.Coordinates
		} else {
			destination = parseCoordinate(query, "dest_lat", "dest_lon")
		}
		if destination == nil {
			http.Error(w, "destination is required", http.StatusBadRequest)
			return
		}

		mode := places.ModeWalking
		if query.Get("mode") == string(places.ModeDriving) {
			mode = places.ModeDriving
		}

		fallbackURL := places.PublicDirectionsURL(*origin, *destination, mode)

		route, err := provider.Directions(*origin, *destination, mode)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":        userMessage(err),
				"fallback_url": fallbackURL,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"route":        route,
			"mode":         mode,
			"fallback_url": fallbackURL,
		})
	}
}

// GeocodeHandler resolves an address without pinning the session to it.
func GeocodeHandler(provider GeocodeProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if address == "" {
			http.Error(w, "address is required", http.StatusBadRequest)
			return
		}

		coord, err := provider.Geocode(address)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": userMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, coord)
	}
}
