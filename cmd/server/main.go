package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"akipe/auth"
	"akipe/catalog"
	"akipe/database"
	"akipe/handlers"
	"akipe/location"
	"akipe/models"
	"akipe/places"
	"akipe/worker"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// main initializes the server, the restaurant catalog, and the background
// refresher.
func main() {
	_ = godotenv.Load()

	var store catalog.Store
	if os.Getenv("DATABASE_URL") != "" {
		db, err := database.Connect()
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()
		store = database.NewRestaurantStore(db)
	} else {
		log.Println("DATABASE_URL not set, user-added restaurants will not survive restarts")
	}

	var client *places.Client
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		client = places.NewClient(apiKey)
	} else {
		log.Println("GOOGLE_MAPS_API_KEY not set, serving the built-in restaurant list")
	}

	c := newCatalog(client, store)

	session := location.NewSession()
	override := location.NewOverride(session, nil, client)

	var refresher *worker.Refresher
	if client != nil {
		importFn := func() ([]models.Restaurant, error) {
			return places.Import(client, places.DefaultImportOptions())
		}
		refresher = worker.NewRefresher(c, store, importFn, refreshInterval())
		refresher.Start()
		defer refresher.Stop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/restaurants", handlers.SearchHandler(c, session))
	mux.HandleFunc("GET /api/search", handlers.SearchHandler(c, session))
	mux.HandleFunc("GET /api/restaurants/suggest", handlers.SuggestHandler(c, session))
	mux.HandleFunc("GET /api/suggest", handlers.SuggestHandler(c, session))
	mux.HandleFunc("GET /api/restaurants/{id}", handlers.GetRestaurantHandler(c))
	mux.HandleFunc("GET /api/categories", handlers.CategoriesHandler())
	mux.HandleFunc("GET /api/group-types", handlers.GroupTypesHandler())

	mux.HandleFunc("GET /api/location", handlers.GetLocationHandler(session))
	mux.HandleFunc("POST /api/location/manual", handlers.SetManualLocationHandler(override))
	mux.HandleFunc("DELETE /api/location/fixed", handlers.ClearFixedLocationHandler(override))

	if client != nil {
		mux.HandleFunc("POST /api/location/address", handlers.SetAddressLocationHandler(override))
		mux.HandleFunc("GET /api/geocode", handlers.GeocodeHandler(client))
		mux.HandleFunc("GET /api/directions", handlers.DirectionsHandler(client, c, session))
	} else {
		mux.HandleFunc("POST /api/location/address", providerUnavailable)
		mux.HandleFunc("GET /api/geocode", providerUnavailable)
		mux.HandleFunc("GET /api/directions", providerUnavailable)
	}

	protect := newProtector(mux)
	protect("POST /api/restaurants", handlers.AddRestaurantHandler(c))
	protect("PUT /api/restaurants/{id}", handlers.UpdateRestaurantHandler(c))
	protect("POST /api/restaurants/refresh", handlers.RefreshHandler(c, session))
	if client != nil {
		protect("POST /api/restaurants/import", handlers.ImportHandler(c, store, func() ([]models.Restaurant, error) {
			return places.Import(client, places.DefaultImportOptions())
		}))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:5174"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		AllowCredentials: true,
	}).Handler(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3003"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, corsHandler); err != nil {
		log.Fatal("Server failed:", err)
	}
}

// newCatalog builds the session catalog: persisted user entries first, then
// the provider sweep, then the built-in list when the provider is absent.
func newCatalog(client *places.Client, store catalog.Store) *catalog.Catalog {
	var provider catalog.SearchProvider
	if client != nil {
		provider = client
	}
	c := catalog.New(provider, store)
	if err := c.LoadPersisted(); err != nil {
		log.Println("Loading persisted restaurants:", err)
	}
	if client == nil {
		c.Seed(catalog.SeedRestaurants)
	}
	return c
}

// newProtector registers mutating routes behind token auth when a signing key
// is configured, or open with a warning for local development.
func newProtector(mux *http.ServeMux) func(pattern string, h http.HandlerFunc) {
	service, err := auth.NewFromEnv()
	if err != nil {
		log.Println("Auth disabled:", err)
		return func(pattern string, h http.HandlerFunc) {
			mux.HandleFunc(pattern, h)
		}
	}

	mux.HandleFunc("POST /api/token", service.TokenHandler)
	return func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, service.Middleware(h))
	}
}

func providerUnavailable(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Maps provider not configured", http.StatusServiceUnavailable)
}

func refreshInterval() time.Duration {
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid REFRESH_INTERVAL %q, using default", v)
	}
	return worker.DefaultInterval
}
