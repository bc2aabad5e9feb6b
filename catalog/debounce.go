package catalog

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the recommended debounce for keystroke-driven
// suggestion calls.
const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer coalesces rapid calls into one: each Do resets the pending timer,
// so only the last function runs once the delay elapses quietly.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer; a non-positive delay uses the default.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn after the delay, cancelling any previously pending call.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call. Must be called on teardown.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
