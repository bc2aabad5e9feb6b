package location

import (
	"log"
	"sync"
	"time"

	"akipe/geo"
	"akipe/models"
)

// MovementThresholdDeg is the coordinate delta below which a new GPS fix is
// treated as jitter and discarded (~100 meters).
const MovementThresholdDeg = 0.001

// RequestOptions configure a platform position request.
type RequestOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	// MaximumAge is how old a cached fix the platform may return.
	MaximumAge time.Duration
}

// PositionProvider is the platform geolocation capability. CurrentPosition
// blocks until a fix or failure; WatchPosition delivers continuous updates to
// onUpdate until the returned stop function is called.
type PositionProvider interface {
	CurrentPosition(opts RequestOptions) (models.Coordinate, error)
	WatchPosition(opts RequestOptions, onUpdate func(models.Coordinate, error)) (stop func())
}

// TrackerState is the acquisition lifecycle: Idle, Acquiring, Active, Failed.
// Failed is terminal per request; a new RequestOnce retries.
type TrackerState int

const (
	TrackerIdle TrackerState = iota
	TrackerAcquiring
	TrackerActive
	TrackerFailed
)

var (
	highAccuracyOpts = RequestOptions{EnableHighAccuracy: true, Timeout: 15 * time.Second}
	// Fallback after a timeout: reduced accuracy, accept fixes up to five
	// minutes old, shorter patience.
	fallbackOpts = RequestOptions{EnableHighAccuracy: false, Timeout: 10 * time.Second, MaximumAge: 5 * time.Minute}
)

// Tracker manages continuous acquisition of the device position and feeds
// fixes into the session, suppressing jitter and respecting manual overrides.
type Tracker struct {
	mu        sync.Mutex
	provider  PositionProvider
	session   *Session
	state     TrackerState
	lastFix   *models.Coordinate
	stopWatch func()
}

// NewTracker wires a tracker to its platform provider and session.
func NewTracker(provider PositionProvider, session *Session) *Tracker {
	return &Tracker{provider: provider, session: session}
}

// State returns the tracker's lifecycle state.
func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// RequestOnce issues a single high-accuracy fix request. On a timeout it
// automatically retries exactly once with reduced accuracy before surfacing
// the failure; other failure classes surface immediately.
func (t *Tracker) RequestOnce() *ErrorDescriptor {
	t.mu.Lock()
	t.state = TrackerAcquiring
	t.mu.Unlock()

	coord, err := t.provider.CurrentPosition(highAccuracyOpts)
	if err == nil {
		t.acceptFix(coord)
		return nil
	}

	desc := Classify(err)
	if desc.Class == ClassTimeout {
		log.Println("GPS timeout, retrying with reduced accuracy")
		coord, err = t.provider.CurrentPosition(fallbackOpts)
		if err == nil {
			t.acceptFix(coord)
			return nil
		}
		desc = Classify(err)
		// The surfaced class stays Timeout when the fallback times out too;
		// other fallback failures report their own class.
	}

	t.mu.Lock()
	t.state = TrackerFailed
	t.mu.Unlock()
	t.session.SetError(desc)
	return desc
}

func (t *Tracker) acceptFix(coord models.Coordinate) {
	t.mu.Lock()
	t.state = TrackerActive
	t.lastFix = &coord
	t.mu.Unlock()
	t.session.ApplyGPSFix(coord)
}

// StartWatching begins continuous position updates. Fixes closer than
// MovementThresholdDeg to the previous one are discarded as jitter; all
// updates are suppressed from shared state while a fixed override is active.
// Watch errors are logged and never surfaced — the watch retries on its own.
func (t *Tracker) StartWatching() {
	t.mu.Lock()
	if t.stopWatch != nil {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	stop := t.provider.WatchPosition(highAccuracyOpts, func(coord models.Coordinate, err error) {
		if err != nil {
			desc := Classify(err)
			log.Printf("watch position error: %s", desc.Class)
			return
		}

		t.mu.Lock()
		moved := t.lastFix == nil ||
			geo.DegreeDelta(*t.lastFix, coord) > MovementThresholdDeg
		t.lastFix = &coord
		t.mu.Unlock()

		if moved {
			t.session.ApplyGPSFix(coord)
		}
	})

	t.mu.Lock()
	t.stopWatch = stop
	t.mu.Unlock()
}

// StopWatching cancels the continuous subscription. It must be called on
// teardown so the platform location resources are released.
func (t *Tracker) StopWatching() {
	t.mu.Lock()
	stop := t.stopWatch
	t.stopWatch = nil
	t.mu.Unlock()
	if stop != nil {
		stop()
	}
}
