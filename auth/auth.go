// Package auth issues and verifies the bearer tokens that guard the
// mutating API endpoints.
package auth

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service checks credentials and signs session tokens.
type Service struct {
	signingKey []byte
	// username -> bcrypt password hash
	users map[string]string
}

// NewFromEnv builds the service from JWT_SIGNING_KEY plus a single
// ADMIN_USER/ADMIN_PASSWORD_HASH pair.
func NewFromEnv() (*Service, error) {
	key := os.Getenv("JWT_SIGNING_KEY")
	if key == "" {
		return nil, fmt.Errorf("JWT_SIGNING_KEY environment variable is not set")
	}

	users := map[string]string{}
	if user := os.Getenv("ADMIN_USER"); user != "" {
		users[user] = os.Getenv("ADMIN_PASSWORD_HASH")
	}
	return &Service{signingKey: []byte(key), users: users}, nil
}

// New builds the service with explicit values, used by tests.
func New(signingKey []byte, users map[string]string) *Service {
	return &Service{signingKey: signingKey, users: users}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenHandler exchanges valid credentials for a one-hour bearer token.
func (s *Service) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	storedHash, ok := s.users[creds.Username]
	if !ok || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(creds.Password)) != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": creds.Username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Println("signing token:", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": signed})
}

// Middleware rejects requests without a valid Bearer token.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Forbidden", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return s.signingKey, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			http.Error(w, "Forbidden", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
