package handlers

import (
	"encoding/json"
	"net/http"

	"akipe/location"
	"akipe/models"
)

// GetLocationHandler reports the session's location state: current position,
// provenance, pinned override, and the last acquisition error message.
func GetLocationHandler(session *location.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := session.Snapshot()
		response := map[string]any{
			"current": st.Current,
			"source":  st.Source,
			"fixed":   st.Fixed,
		}
		if st.Err != nil {
			response["error"] = st.Err.UserMessage
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// SetManualLocationHandler pins the session to a posted coordinate.
func SetManualLocationHandler(override *location.Override) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var coord models.Coordinate
		if err := json.NewDecoder(r.Body).Decode(&coord); err != nil || !coord.Valid() {
			http.Error(w, "Invalid coordinate", http.StatusBadRequest)
			return
		}
		override.SetCoordinate(coord)
		writeJSON(w, http.StatusOK, map[string]any{"fixed": coord, "source": location.SourceManual})
	}
}

// SetAddressLocationHandler resolves a posted address through the geocoding
// collaborator and pins the result. Lookup failures come back as inline
// validation with the classified message, not a hard error page.
func SetAddressLocationHandler(override *location.Override) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Address string `json:"address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Address == "" {
			http.Error(w, "address is required", http.StatusBadRequest)
			return
		}

		coord, err := override.SetFromAddressText(body.Address)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": userMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"fixed": coord, "source": location.SourceAddress})
	}
}

// ClearFixedLocationHandler removes the pinned override and resumes
// GPS-driven tracking.
func ClearFixedLocationHandler(override *location.Override) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		override.Clear()
		writeJSON(w, http.StatusOK, map[string]any{"source": location.SourceNone})
	}
}
