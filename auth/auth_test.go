package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	require.NoError(t, err)
	return New([]byte("test-signing-key"), map[string]string{"admin": string(hash)})
}

func issueToken(t *testing.T, s *Service, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.TokenHandler(rec, req)
	return rec
}

func TestTokenHandler(t *testing.T) {
	s := newTestService(t)

	t.Run("valid credentials get a token", func(t *testing.T) {
		rec := issueToken(t, s, `{"username": "admin", "password": "secreto"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "token")
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		rec := issueToken(t, s, `{"username": "admin", "password": "nope"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		rec := issueToken(t, s, `{"username": "ghost", "password": "secreto"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage payload is a bad request", func(t *testing.T) {
		rec := issueToken(t, s, `{`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMiddleware(t *testing.T) {
	s := newTestService(t)
	protected := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("accepts a freshly issued token", func(t *testing.T) {
		rec := issueToken(t, s, `{"username": "admin", "password": "secreto"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		req := httptest.NewRequest(http.MethodPost, "/api/restaurants", nil)
		req.Header.Set("Authorization", "Bearer "+body.Token)
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, req)
		require.Equal(t, http.StatusNoContent, out.Code)
	})

	t.Run("rejects missing and malformed tokens", func(t *testing.T) {
		for _, header := range []string{"", "Bearer not-a-token"} {
			req := httptest.NewRequest(http.MethodPost, "/api/restaurants", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			out := httptest.NewRecorder()
			protected.ServeHTTP(out, req)
			require.Equal(t, http.StatusUnauthorized, out.Code)
		}
	})
}
