package catalog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"akipe/models"
	"akipe/places"
)

var limaCenter = models.Coordinate{Latitude: -12.0464, Longitude: -77.0428}

func venue(id, name, district, cuisine string, lat, lng float64) models.Restaurant {
	return models.Restaurant{
		ID:          id,
		Name:        name,
		District:    district,
		CuisineType: cuisine,
		Category:    models.CategoryLocal,
		Coordinates: models.Coordinate{Latitude: lat, Longitude: lng},
		PriceRange:  models.PriceRange{Min: 20, Max: 50, Currency: "S/"},
		GroupFriendly: models.GroupFriendly{
			Solo: true, Couple: true, Family: true, LargeGroup: true,
		},
	}
}

// nearby is ~1km from Lima center, barranco ~11km.
var (
	nearby     = venue("r-near", "Sabor Criollo", "Lima", "Criolla", -12.0554, -77.0428)
	downtown   = venue("r-center", "El Cordano", "Lima", "Criolla", -12.0453, -77.0311)
	barrancoR  = venue("r-far", "Central", "Barranco", "Alta Cocina Peruana", -12.1456, -77.0208)
	cafeMirafl = venue("r-cafe", "Café Haiti", "Miraflores", "Café", -12.1196, -77.0286)
)

func seeded() *Catalog {
	c := New(nil, nil)
	c.Seed([]models.Restaurant{nearby, downtown, barrancoR, cafeMirafl})
	return c
}

type staticProvider struct {
	mu      sync.Mutex
	results []models.Restaurant
	err     error
	calls   int
}

func (p *staticProvider) TextSearch(query string, origin models.Coordinate, radiusMeters float64) ([]models.Restaurant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

type memStore struct {
	mu    sync.Mutex
	saved map[string]models.Restaurant
	err   error
}

func newMemStore() *memStore { return &memStore{saved: map[string]models.Restaurant{}} }

func (s *memStore) Upsert(r models.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved[r.ID] = r
	return nil
}

func (s *memStore) List() ([]models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Restaurant, 0, len(s.saved))
	for _, r := range s.saved {
		out = append(out, r)
	}
	return out, nil
}

func TestApplyFilters(t *testing.T) {
	t.Run("empty filters without origin preserve catalog order", func(t *testing.T) {
		c := seeded()
		got := c.ApplyFilters(models.SearchFilters{}, nil)
		require.Len(t, got, 4)
		require.Equal(t, "r-near", got[0].ID)
		require.Equal(t, "r-cafe", got[3].ID)
	})

	t.Run("empty filters with origin sort nearest first", func(t *testing.T) {
		c := seeded()
		got := c.ApplyFilters(models.SearchFilters{}, &limaCenter)
		require.Len(t, got, 4)
		require.Equal(t, "r-near", got[0].ID)
		require.Equal(t, "r-far", got[3].ID)
	})

	t.Run("5km radius excludes barranco 11km away", func(t *testing.T) {
		c := seeded()
		got := c.ApplyFilters(models.SearchFilters{RadiusMeters: 5000}, &limaCenter)
		for _, r := range got {
			require.NotEqual(t, "r-far", r.ID)
		}
		require.Len(t, got, 2)
	})

	t.Run("no radius includes near and far, ordered nearest first", func(t *testing.T) {
		c := New(nil, nil)
		c.Seed([]models.Restaurant{barrancoR, nearby})
		got := c.ApplyFilters(models.SearchFilters{}, &limaCenter)
		require.Equal(t, []string{"r-near", "r-far"}, []string{got[0].ID, got[1].ID})
	})

	t.Run("radius without origin is ignored", func(t *testing.T) {
		c := seeded()
		got := c.ApplyFilters(models.SearchFilters{RadiusMeters: 5000}, nil)
		require.Len(t, got, 4)
	})

	t.Run("text matches name, district or cuisine, any field", func(t *testing.T) {
		c := seeded()
		require.Len(t, c.ApplyFilters(models.SearchFilters{Text: "central"}, nil), 1)
		require.Len(t, c.ApplyFilters(models.SearchFilters{Text: "BARRANCO"}, nil), 1)
		require.Len(t, c.ApplyFilters(models.SearchFilters{Text: "criolla"}, nil), 2)
		require.Empty(t, c.ApplyFilters(models.SearchFilters{Text: "sushi"}, nil))
	})

	t.Run("group type keeps only friendly venues", func(t *testing.T) {
		solitary := venue("r-solo", "Barra Solo", "Lince", "Tapas", -12.09, -77.03)
		solitary.GroupFriendly = models.GroupFriendly{Solo: true}
		c := New(nil, nil)
		c.Seed([]models.Restaurant{nearby, solitary})

		got := c.ApplyFilters(models.SearchFilters{GroupType: "large_group"}, nil)
		require.Len(t, got, 1)
		require.Equal(t, "r-near", got[0].ID)

		require.Len(t, c.ApplyFilters(models.SearchFilters{GroupType: "solo"}, nil), 2)
	})

	t.Run("price filter keeps ranges fully inside the requested one", func(t *testing.T) {
		c := New(nil, nil)
		expensive := barrancoR
		expensive.PriceRange = models.PriceRange{Min: 280, Max: 450, Currency: "S/"}
		c.Seed([]models.Restaurant{nearby, expensive})

		got := c.ApplyFilters(models.SearchFilters{PriceRange: &models.PriceRange{Min: 10, Max: 100}}, nil)
		require.Len(t, got, 1)
		require.Equal(t, "r-near", got[0].ID)

		// partially overlapping is not inside
		got = c.ApplyFilters(models.SearchFilters{PriceRange: &models.PriceRange{Min: 30, Max: 100}}, nil)
		require.Empty(t, got)
	})
}

func TestSuggest(t *testing.T) {
	t.Run("caps at limit and every suggestion matches", func(t *testing.T) {
		c := New(nil, nil)
		var many []models.Restaurant
		for i := 0; i < 12; i++ {
			many = append(many, venue("r", "Cevichería Norte", "Callao", "Mariscos", -12.0+float64(i)*0.01, -77.1))
		}
		c.Seed(many)

		got := c.Suggest("cevich", &limaCenter, 8)
		require.Len(t, got, 8)
		for _, s := range got {
			require.Contains(t, s.Restaurant.Name, "Cevichería")
		}
	})

	t.Run("ranked nearest first with distance annotation", func(t *testing.T) {
		c := seeded()
		got := c.Suggest("criolla", &limaCenter, 0)
		require.Len(t, got, 2)
		require.Equal(t, "r-near", got[0].Restaurant.ID)
		require.Greater(t, got[1].DistanceKm, got[0].DistanceKm)
		require.InDelta(t, 1.0, got[0].DistanceKm, 0.2)
	})

	t.Run("no origin keeps catalog order and zero distances", func(t *testing.T) {
		c := seeded()
		got := c.Suggest("criolla", nil, 0)
		require.Len(t, got, 2)
		require.Zero(t, got[0].DistanceKm)
	})

	t.Run("empty query yields nothing", func(t *testing.T) {
		require.Empty(t, seeded().Suggest("", &limaCenter, 8))
	})
}

func TestAdd(t *testing.T) {
	draft := models.RestaurantDraft{
		Name:        "Anticuchería Doña Pocha",
		District:    "Surquillo",
		CuisineType: "Anticuchos",
		Category:    models.CategoryStreetFood,
		Coordinates: models.Coordinate{Latitude: -12.11, Longitude: -77.02},
		PriceRange:  models.PriceRange{Min: 10, Max: 25, Currency: "S/"},
	}

	t.Run("assigns local ids and persists", func(t *testing.T) {
		store := newMemStore()
		c := New(nil, store)

		first, err := c.Add(draft)
		require.NoError(t, err)
		second, err := c.Add(draft)
		require.NoError(t, err)

		require.Equal(t, "local-1", first.ID)
		require.Equal(t, "local-2", second.ID)
		require.True(t, first.UserAdded)
		require.False(t, first.DateAdded.IsZero())
		require.Contains(t, store.saved, "local-1")

		got, found := c.GetByID("local-1")
		require.True(t, found)
		require.Equal(t, first.Name, got.Name)
	})

	t.Run("rejects inverted price range", func(t *testing.T) {
		bad := draft
		bad.PriceRange = models.PriceRange{Min: 50, Max: 10}
		_, err := New(nil, nil).Add(bad)
		require.Error(t, err)
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		bad := draft
		bad.Coordinates = models.Coordinate{Latitude: -95, Longitude: -77}
		_, err := New(nil, nil).Add(bad)
		require.Error(t, err)
	})

	t.Run("user added entries survive refresh", func(t *testing.T) {
		provider := &staticProvider{results: []models.Restaurant{nearby}}
		c := New(provider, nil)

		added, err := c.Add(draft)
		require.NoError(t, err)
		require.NoError(t, c.Refresh(limaCenter, 0))

		_, found := c.GetByID(added.ID)
		require.True(t, found)
		require.Len(t, c.Restaurants(), 2)
	})
}

func TestUpdate(t *testing.T) {
	store := newMemStore()
	c := New(nil, store)
	added, err := c.Add(models.RestaurantDraft{
		Name:        "La Esquina",
		Coordinates: models.Coordinate{Latitude: -12.1, Longitude: -77.0},
		PriceRange:  models.PriceRange{Min: 10, Max: 20, Currency: "S/"},
	})
	require.NoError(t, err)

	t.Run("full replace by id", func(t *testing.T) {
		updated, err := c.Update(added.ID, models.RestaurantDraft{
			Name:        "La Esquina del Sabor",
			Coordinates: added.Coordinates,
			PriceRange:  models.PriceRange{Min: 15, Max: 30, Currency: "S/"},
		})
		require.NoError(t, err)
		require.Equal(t, added.ID, updated.ID)
		require.Equal(t, "La Esquina del Sabor", updated.Name)
		require.Equal(t, added.DateAdded, updated.DateAdded)
		require.Equal(t, "La Esquina del Sabor", store.saved[added.ID].Name)
	})

	t.Run("provider entries are not editable", func(t *testing.T) {
		c.Seed([]models.Restaurant{nearby})
		_, err := c.Update(nearby.ID, models.RestaurantDraft{
			Coordinates: nearby.Coordinates,
		})
		require.Error(t, err)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("replaces provider entries on success", func(t *testing.T) {
		provider := &staticProvider{results: []models.Restaurant{nearby, barrancoR}}
		c := New(provider, nil)
		c.Seed([]models.Restaurant{downtown})

		require.NoError(t, c.Refresh(limaCenter, 0))
		require.Len(t, c.Restaurants(), 2)
		require.NoError(t, c.Err())
	})

	t.Run("provider error preserves the previous catalog", func(t *testing.T) {
		provider := &staticProvider{err: places.ErrQuotaExceeded}
		c := New(provider, nil)
		c.Seed([]models.Restaurant{downtown})

		err := c.Refresh(limaCenter, 0)
		require.ErrorIs(t, err, places.ErrQuotaExceeded)
		require.ErrorIs(t, c.Err(), places.ErrQuotaExceeded)

		got := c.Restaurants()
		require.Len(t, got, 1)
		require.Equal(t, "r-center", got[0].ID)
	})

	t.Run("a later refresh supersedes a stale in-flight one", func(t *testing.T) {
		entered := make(chan int, 2)
		release := []chan []models.Restaurant{
			make(chan []models.Restaurant),
			make(chan []models.Restaurant),
		}
		provider := &gatedProvider{entered: entered, release: release}
		c := New(provider, nil)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Refresh(limaCenter, 0)
		}()
		<-entered // first refresh is in flight

		go func() {
			defer wg.Done()
			_ = c.Refresh(limaCenter, 0)
		}()
		<-entered

		// the newer call returns first, then the stale one arrives late
		release[1] <- []models.Restaurant{barrancoR}
		release[0] <- []models.Restaurant{downtown}
		wg.Wait()

		got := c.Restaurants()
		require.Len(t, got, 1)
		require.Equal(t, "r-far", got[0].ID, "stale refresh result must be discarded")
	})
}

type gatedProvider struct {
	mu      sync.Mutex
	n       int
	entered chan int
	release []chan []models.Restaurant
}

func (p *gatedProvider) TextSearch(query string, origin models.Coordinate, radiusMeters float64) ([]models.Restaurant, error) {
	p.mu.Lock()
	i := p.n
	p.n++
	p.mu.Unlock()
	p.entered <- i
	return <-p.release[i], nil
}

func TestLoadPersisted(t *testing.T) {
	store := newMemStore()
	store.saved["local-7"] = models.Restaurant{ID: "local-7", Name: "Guarida", UserAdded: true}

	c := New(nil, store)
	require.NoError(t, c.LoadPersisted())

	_, found := c.GetByID("local-7")
	require.True(t, found)

	// new ids continue past persisted ones
	added, err := c.Add(models.RestaurantDraft{
		Name:        "Nueva",
		Coordinates: models.Coordinate{Latitude: -12.0, Longitude: -77.0},
		PriceRange:  models.PriceRange{Min: 1, Max: 2, Currency: "S/"},
	})
	require.NoError(t, err)
	require.Equal(t, "local-8", added.ID)
}

func TestDebouncer(t *testing.T) {
	t.Run("only the last call fires", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		defer d.Stop()

		var mu sync.Mutex
		var fired []int
		for i := 0; i < 5; i++ {
			i := i
			d.Do(func() {
				mu.Lock()
				fired = append(fired, i)
				mu.Unlock()
			})
		}

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(fired) == 1 && fired[0] == 4
		}, time.Second, 5*time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, fired, 1)
	})

	t.Run("stop cancels the pending call", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		fired := make(chan struct{}, 1)
		d.Do(func() { fired <- struct{}{} })
		d.Stop()

		select {
		case <-fired:
			t.Fatal("debounced call ran after Stop")
		case <-time.After(60 * time.Millisecond):
		}
	})
}
