package places

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"akipe/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL)
}

func TestSearchNearby(t *testing.T) {
	t.Run("parses provider places into restaurants", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/place/nearbysearch/json", r.URL.Path)
			require.Equal(t, "test-key", r.URL.Query().Get("key"))
			fmt.Fprint(w, `{
				"status": "OK",
				"results": [{
					"place_id": "abc123",
					"name": "La Lucha",
					"vicinity": "Av. Benavides 308, Miraflores",
					"geometry": {"location": {"lat": -12.1211, "lng": -77.0297}},
					"rating": 4.6,
					"price_level": 2,
					"types": ["restaurant", "food"],
					"opening_hours": {"weekday_text": ["Monday: 9-22", "Tuesday: 9-22"]}
				}]
			}`)
		})

		restaurants, err := client.SearchNearby(models.Coordinate{Latitude: -12.0464, Longitude: -77.0428}, 5000)
		require.NoError(t, err)
		require.Len(t, restaurants, 1)

		r := restaurants[0]
		require.Equal(t, "abc123", r.ID)
		require.Equal(t, "La Lucha", r.Name)
		require.Equal(t, "Miraflores", r.District)
		require.Equal(t, models.CategoryGourmet, r.Category)
		require.Equal(t, models.PriceRange{Min: 35, Max: 70, Currency: "S/"}, r.PriceRange)
		require.Equal(t, "Monday: 9-22, Tuesday: 9-22", r.OpeningHours)
		require.InDelta(t, -12.1211, r.Coordinates.Latitude, 1e-9)
	})

	t.Run("zero results is an empty slice, not an error", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
		})

		restaurants, err := client.SearchNearby(models.Coordinate{}, 5000)
		require.NoError(t, err)
		require.Empty(t, restaurants)
	})

	t.Run("maps each failure status to its classified error", func(t *testing.T) {
		cases := map[string]error{
			"OVER_QUERY_LIMIT": ErrQuotaExceeded,
			"REQUEST_DENIED":   ErrRequestDenied,
			"INVALID_REQUEST":  ErrInvalidRequest,
			"UNKNOWN_ERROR":    ErrUnknown,
			"SOMETHING_NEW":    ErrUnknown,
		}
		for status, want := range cases {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"status": %q, "results": []}`, status)
			})
			_, err := client.SearchNearby(models.Coordinate{}, 5000)
			require.ErrorIs(t, err, want, "status %s", status)
		}
	})

	t.Run("malformed body maps into the error taxonomy", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "OK", "results": [`)
		})
		_, err := client.SearchNearby(models.Coordinate{}, 5000)
		require.ErrorIs(t, err, ErrUnknown)
	})

	t.Run("fills placeholders for missing fields", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "OK", "results": [{"place_id": "p1", "geometry": {"location": {"lat": -12.05, "lng": -77.04}}}]}`)
		})
		restaurants, err := client.SearchNearby(models.Coordinate{}, 5000)
		require.NoError(t, err)
		require.Equal(t, "Restaurant", restaurants[0].Name)
		require.Equal(t, "Dirección no disponible", restaurants[0].Address)
		require.Equal(t, "Horarios no disponibles", restaurants[0].OpeningHours)
		require.Equal(t, models.PriceRange{Min: 15, Max: 35, Currency: "S/"}, restaurants[0].PriceRange)
		require.True(t, restaurants[0].GroupFriendly.Family)
	})
}

func TestGeocode(t *testing.T) {
	t.Run("appends city context and returns the first result", func(t *testing.T) {
		var gotAddress string
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotAddress = r.URL.Query().Get("address")
			fmt.Fprint(w, `{"status": "OK", "results": [{"geometry": {"location": {"lat": -12.1219, "lng": -77.0306}}}]}`)
		})

		coord, err := client.Geocode("Av. Larco 123")
		require.NoError(t, err)
		require.Equal(t, "Av. Larco 123, Lima, Peru", gotAddress)
		require.InDelta(t, -12.1219, coord.Latitude, 1e-9)
	})

	t.Run("does not duplicate context when already present", func(t *testing.T) {
		var gotAddress string
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotAddress = r.URL.Query().Get("address")
			fmt.Fprint(w, `{"status": "OK", "results": [{"geometry": {"location": {"lat": -12.1, "lng": -77.0}}}]}`)
		})

		_, err := client.Geocode("Av. Larco 123, Lima")
		require.NoError(t, err)
		require.Equal(t, "Av. Larco 123, Lima", gotAddress)
	})

	t.Run("zero results surfaces the classified error", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
		})
		_, err := client.Geocode("asdfghjkl")
		require.ErrorIs(t, err, ErrZeroResults)

		var pe *ProviderError
		require.True(t, errors.As(err, &pe))
		require.NotEmpty(t, pe.UserMessage)
	})
}

func TestDirections(t *testing.T) {
	t.Run("parses steps and strips instruction markup", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "walking", r.URL.Query().Get("mode"))
			fmt.Fprint(w, `{
				"status": "OK",
				"routes": [{"legs": [{
					"distance": {"text": "1.2 km"},
					"duration": {"text": "15 mins"},
					"steps": [
						{"html_instructions": "Head <b>north</b> on Av. Arequipa", "distance": {"text": "300 m"}, "duration": {"text": "4 mins"}, "maneuver": ""},
						{"html_instructions": "Turn <b>left</b>", "distance": {"text": "900 m"}, "duration": {"text": "11 mins"}, "maneuver": "turn-left"}
					]
				}]}]
			}`)
		})

		route, err := client.Directions(models.Coordinate{Latitude: -12.04, Longitude: -77.04}, models.Coordinate{Latitude: -12.12, Longitude: -77.03}, ModeWalking)
		require.NoError(t, err)
		require.Equal(t, "1.2 km", route.TotalDistance)
		require.Equal(t, "15 mins", route.TotalDuration)
		require.Len(t, route.Steps, 2)
		require.Equal(t, "Head north on Av. Arequipa", route.Steps[0].Instruction)
		require.Equal(t, "turn-left", route.Steps[1].Maneuver)
	})

	t.Run("empty routes surface zero results", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "OK", "routes": []}`)
		})
		_, err := client.Directions(models.Coordinate{}, models.Coordinate{}, ModeDriving)
		require.ErrorIs(t, err, ErrZeroResults)
	})
}

func TestPublicDirectionsURL(t *testing.T) {
	u := PublicDirectionsURL(
		models.Coordinate{Latitude: -12.0464, Longitude: -77.0428},
		models.Coordinate{Latitude: -12.1456, Longitude: -77.0208},
		ModeDriving,
	)
	require.Contains(t, u, "https://www.google.com/maps/dir/?")
	require.Contains(t, u, "travelmode=driving")
	require.Contains(t, u, "origin=-12.046400%2C-77.042800")
}

func TestExtractDistrict(t *testing.T) {
	require.Equal(t, "Barranco", ExtractDistrict("Av. Grau 323, barranco, Lima"))
	require.Equal(t, "San Isidro", ExtractDistrict("Calle Los Libertadores 100, SAN ISIDRO"))
	require.Equal(t, "Lima", ExtractDistrict("somewhere unrecognizable"))
}

func TestImport(t *testing.T) {
	makeRestaurant := func(id, name string, lat, lng float64) models.Restaurant {
		return models.Restaurant{
			ID:          id,
			Name:        name,
			Coordinates: models.Coordinate{Latitude: lat, Longitude: lng},
		}
	}

	t.Run("drops near duplicates by name and proximity", func(t *testing.T) {
		calls := 0
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, `{"status": "OK", "results": [
				{"place_id": "p1", "name": "El Rinconcito", "geometry": {"location": {"lat": -12.0464, "lng": -77.0428}}},
				{"place_id": "p2", "name": "el rinconcito", "geometry": {"location": {"lat": -12.04641, "lng": -77.04281}}},
				{"place_id": "p3", "name": "El Rinconcito", "geometry": {"location": {"lat": -12.2, "lng": -77.0428}}}
			]}`)
		})

		merged, err := Import(client, ImportOptions{
			Centers:               []models.Coordinate{{Latitude: -12.0464, Longitude: -77.0428}},
			RadiusMeters:          50000,
			DuplicateThresholdDeg: DefaultDuplicateThresholdDeg,
		})
		require.NoError(t, err)
		require.Len(t, merged, 2)
		// p2 is the same venue as p1 under a different place id; p3 shares the
		// name but sits kilometers away and survives.
		require.Equal(t, "p1", merged[0].ID)
		require.Equal(t, "p3", merged[1].ID)
		require.Equal(t, 1, calls)
	})

	t.Run("wide threshold collapses distant same-name venues", func(t *testing.T) {
		// The historical 0.05 degree radius merges venues kilometers apart.
		x := makeRestaurant("p1", "Sabor Criollo", -12.0464, -77.0428)
		y := makeRestaurant("p2", "Sabor Criollo", -12.0700, -77.0428)
		require.False(t, IsDuplicate(x, y, DefaultDuplicateThresholdDeg))
		require.True(t, IsDuplicate(x, y, 0.05))
	})

	t.Run("skips failing centers and merges the rest", func(t *testing.T) {
		calls := 0
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				fmt.Fprint(w, `{"status": "UNKNOWN_ERROR", "results": []}`)
				return
			}
			fmt.Fprint(w, `{"status": "OK", "results": [{"place_id": "p9", "name": "Bodega Central", "geometry": {"location": {"lat": -12.05, "lng": -77.05}}}]}`)
		})

		merged, err := Import(client, ImportOptions{
			Centers: []models.Coordinate{
				{Latitude: -12.0, Longitude: -77.0},
				{Latitude: -12.1, Longitude: -77.1},
			},
			RadiusMeters: 50000,
		})
		require.NoError(t, err)
		require.Len(t, merged, 1)
	})

	t.Run("errors only when every center fails", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "REQUEST_DENIED", "results": []}`)
		})
		_, err := Import(client, ImportOptions{
			Centers:      []models.Coordinate{{Latitude: -12.0, Longitude: -77.0}},
			RadiusMeters: 50000,
		})
		require.Error(t, err)
	})
}
