package places

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"akipe/models"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client talks to the external places/geocoding/directions provider over
// HTTP. All responses cross a strict parse boundary: loosely typed provider
// JSON is converted into the typed models of this module, and every non-OK
// status becomes a classified ProviderError.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a provider client with a bounded request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is NewClient pointed at an alternate endpoint,
// used by tests.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type providerPlace struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	Vicinity         string `json:"vicinity"`
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Rating       float64  `json:"rating"`
	PriceLevel   *int     `json:"price_level"`
	Types        []string `json:"types"`
	OpeningHours *struct {
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
}

type searchResponse struct {
	Results []providerPlace `json:"results"`
	Status  string          `json:"status"`
}

// SearchNearby requests restaurants around origin within radiusMeters.
// A ZERO_RESULTS status yields an empty slice, not an error.
func (c *Client) SearchNearby(origin models.Coordinate, radiusMeters float64) ([]models.Restaurant, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%.6f,%.6f", origin.Latitude, origin.Longitude))
	params.Set("radius", fmt.Sprintf("%.0f", radiusMeters))
	params.Set("type", "restaurant")
	params.Set("key", c.apiKey)

	var resp searchResponse
	if err := c.getJSON("/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}
	return c.placesToRestaurants(resp)
}

// TextSearch runs a free-text places query biased to the origin. Used for
// broad coverage queries like "restaurants in Lima, Peru".
func (c *Client) TextSearch(query string, origin models.Coordinate, radiusMeters float64) ([]models.Restaurant, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("location", fmt.Sprintf("%.6f,%.6f", origin.Latitude, origin.Longitude))
	params.Set("radius", fmt.Sprintf("%.0f", radiusMeters))
	params.Set("key", c.apiKey)

	var resp searchResponse
	if err := c.getJSON("/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	return c.placesToRestaurants(resp)
}

func (c *Client) placesToRestaurants(resp searchResponse) ([]models.Restaurant, error) {
	switch resp.Status {
	case StatusOK:
	case StatusZeroResults:
		return []models.Restaurant{}, nil
	default:
		return nil, statusError(resp.Status)
	}

	restaurants := make([]models.Restaurant, 0, len(resp.Results))
	for _, place := range resp.Results {
		restaurants = append(restaurants, placeToRestaurant(place))
	}
	return restaurants, nil
}

// Geocode resolves a free-text address to a coordinate. The city/country
// context is appended when missing so short street addresses disambiguate
// to Lima.
func (c *Client) Geocode(address string) (models.Coordinate, error) {
	if !strings.Contains(strings.ToLower(address), "lima") {
		address += ", Lima, Peru"
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	var resp struct {
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := c.getJSON("/geocode/json", params, &resp); err != nil {
		return models.Coordinate{}, err
	}

	if resp.Status != StatusOK {
		return models.Coordinate{}, statusError(resp.Status)
	}
	if len(resp.Results) == 0 {
		return models.Coordinate{}, ErrZeroResults
	}

	loc := resp.Results[0].Geometry.Location
	coord := models.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}
	if !coord.Valid() {
		return models.Coordinate{}, ErrUnknown
	}
	return coord, nil
}

// TravelMode selects how directions are computed.
type TravelMode string

const (
	ModeWalking TravelMode = "walking"
	ModeDriving TravelMode = "driving"
)

// Step is one turn-by-turn instruction of a route.
type Step struct {
	Instruction  string `json:"instruction"`
	DistanceText string `json:"distance_text"`
	DurationText string `json:"duration_text"`
	Maneuver     string `json:"maneuver,omitempty"`
}

// Route is the full directions result between two coordinates.
type Route struct {
	Steps         []Step `json:"steps"`
	TotalDistance string `json:"total_distance"`
	TotalDuration string `json:"total_duration"`
}

// Directions requests a route from origin to destination for the given mode.
func (c *Client) Directions(origin, destination models.Coordinate, mode TravelMode) (*Route, error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%.6f,%.6f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%.6f,%.6f", destination.Latitude, destination.Longitude))
	params.Set("mode", string(mode))
	params.Set("key", c.apiKey)

	var resp struct {
		Routes []struct {
			Legs []struct {
				Distance struct {
					Text string `json:"text"`
				} `json:"distance"`
				Duration struct {
					Text string `json:"text"`
				} `json:"duration"`
				Steps []struct {
					HTMLInstructions string `json:"html_instructions"`
					Distance         struct {
						Text string `json:"text"`
					} `json:"distance"`
					Duration struct {
						Text string `json:"text"`
					} `json:"duration"`
					Maneuver string `json:"maneuver"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
		Status string `json:"status"`
	}
	if err := c.getJSON("/directions/json", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != StatusOK {
		return nil, statusError(resp.Status)
	}
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return nil, ErrZeroResults
	}

	leg := resp.Routes[0].Legs[0]
	route := &Route{
		TotalDistance: leg.Distance.Text,
		TotalDuration: leg.Duration.Text,
		Steps:         make([]Step, 0, len(leg.Steps)),
	}
	for _, s := range leg.Steps {
		route.Steps = append(route.Steps, Step{
			Instruction:  stripHTMLTags(s.HTMLInstructions),
			DistanceText: s.Distance.Text,
			DurationText: s.Duration.Text,
			Maneuver:     s.Maneuver,
		})
	}
	return route, nil
}

// PublicDirectionsURL builds the provider's public web directions link, the
// last-resort degrade path when the directions API fails.
func PublicDirectionsURL(origin, destination models.Coordinate, mode TravelMode) string {
	params := url.Values{}
	params.Set("api", "1")
	params.Set("origin", fmt.Sprintf("%.6f,%.6f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%.6f,%.6f", destination.Latitude, destination.Longitude))
	params.Set("travelmode", string(mode))
	return "https://www.google.com/maps/dir/?" + params.Encode()
}

func (c *Client) getJSON(path string, params url.Values, out any) error {
	resp, err := c.httpClient.Get(c.baseURL + path + "?" + params.Encode())
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned HTTP %d: %w", resp.StatusCode, ErrUnknown)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed provider response: %w", ErrUnknown)
	}
	return nil
}

// stripHTMLTags removes the markup the directions API embeds in instructions.
func stripHTMLTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
