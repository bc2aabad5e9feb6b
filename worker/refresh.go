package worker

import (
	"log"
	"sync"
	"time"

	"akipe/catalog"
	"akipe/models"
)

const (
	PersistPoolSize = 8
	DefaultInterval = 15 * time.Minute
)

// ImportFunc runs one provider sweep and returns the merged restaurant list.
type ImportFunc func() ([]models.Restaurant, error)

// Refresher keeps the session catalog in sync with the places provider in the
// background: every interval it re-runs the district sweep, swaps the
// provider-sourced subset and persists the result so the store can seed the
// catalog next time the provider is unreachable.
type Refresher struct {
	catalog  *catalog.Catalog
	store    catalog.Store
	importFn ImportFunc
	interval time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

// NewRefresher builds a refresher. An interval of 0 or less falls back to
// DefaultInterval. store may be nil for ephemeral runs.
func NewRefresher(c *catalog.Catalog, store catalog.Store, importFn ImportFunc, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		catalog:  c,
		store:    store,
		importFn: importFn,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start kicks off the background routine: one immediate sweep, then one per
// interval until Stop is called.
func (r *Refresher) Start() {
	log.Printf("Starting catalog refresher (Interval: %v, Concurrency: %d)", r.interval, PersistPoolSize)
	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		r.runOnce()
		for {
			select {
			case <-ticker.C:
				r.runOnce()
			case <-r.done:
				return
			}
		}
	}()
}

// Stop halts the background routine. Safe to call more than once.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *Refresher) runOnce() {
	imported, err := r.importFn()
	if err != nil {
		log.Println("Refresher sweep error:", err)
		return
	}

	r.catalog.Seed(imported)
	log.Printf("Refresher: catalog updated with %d provider restaurants", len(imported))

	if r.store == nil {
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, PersistPoolSize)

	for _, restaurant := range imported {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(restaurant models.Restaurant) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := r.store.Upsert(restaurant); err != nil {
				log.Printf("Refresher: failed to persist %s (%s): %v", restaurant.Name, restaurant.ID, err)
			}
		}(restaurant)
	}

	wg.Wait()
}
