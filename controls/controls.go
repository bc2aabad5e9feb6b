// Package controls holds the timer-driven state machine that shows and hides
// the floating map chrome based on gesture activity and idle timeouts.
package controls

import (
	"sync"
	"time"
)

// Timings configure the visibility state machine. They are injectable so
// tests do not sleep for seconds.
type Timings struct {
	// InteractionStop is how long without gesture events before the user
	// counts as no longer interacting.
	InteractionStop time.Duration
	// HideAfterEnd is the quiet window after a map-interaction-end signal
	// before the controls hide.
	HideAfterEnd time.Duration
	// IdleTimeout hides the controls after total inactivity.
	IdleTimeout time.Duration
}

// DefaultTimings match the production behavior: 500ms stop detection, 3s
// post-gesture hide, 10s idle hide.
func DefaultTimings() Timings {
	return Timings{
		InteractionStop: 500 * time.Millisecond,
		HideAfterEnd:    3 * time.Second,
		IdleTimeout:     10 * time.Second,
	}
}

// Visibility is the Visible/Hidden state machine. Controls start visible,
// reappear on any qualifying event, and hide after the configured quiet
// windows. Stop must be called on teardown so no timer fires after disposal.
type Visibility struct {
	mu       sync.Mutex
	timings  Timings
	onChange func(visible bool)

	visible       bool
	interacting   bool
	hasInteracted bool
	stopped       bool

	hideTimer        *time.Timer
	idleTimer        *time.Timer
	interactionTimer *time.Timer
}

// New creates the state machine in the Visible state with the idle timer
// armed. onChange, if non-nil, is called on every visibility transition.
func New(timings Timings, onChange func(visible bool)) *Visibility {
	v := &Visibility{timings: timings, onChange: onChange, visible: true}
	v.mu.Lock()
	v.resetIdleTimer()
	v.mu.Unlock()
	return v
}

// Visible reports the current state.
func (v *Visibility) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// HasInteracted reports whether the user has interacted at all this session,
// used to decide whether a tap-to-reveal affordance is offered while hidden.
func (v *Visibility) HasInteracted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasInteracted
}

// MapInteractionStart handles a map gesture starting: controls show, the
// pending hide is cancelled, and stop detection restarts.
func (v *Visibility) MapInteractionStart() {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.interacting = true
	v.hasInteracted = true
	stopTimer(&v.hideTimer)
	stopTimer(&v.interactionTimer)
	v.interactionTimer = time.AfterFunc(v.timings.InteractionStop, func() {
		v.mu.Lock()
		if !v.stopped {
			v.interacting = false
		}
		v.mu.Unlock()
	})
	v.resetIdleTimer()
	notify := v.setVisibleLocked(true)
	v.mu.Unlock()
	notify()
}

// MapInteractionEnd arms the post-gesture hide window.
func (v *Visibility) MapInteractionEnd() {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	stopTimer(&v.hideTimer)
	v.hideTimer = time.AfterFunc(v.timings.HideAfterEnd, func() {
		v.mu.Lock()
		notify := func() {}
		if !v.stopped {
			notify = v.setVisibleLocked(false)
		}
		v.mu.Unlock()
		notify()
	})
	v.mu.Unlock()
}

// Activity handles generic input (click, touch, scroll, key): controls show
// and the idle clock restarts.
func (v *Visibility) Activity() {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.resetIdleTimer()
	notify := v.setVisibleLocked(true)
	v.mu.Unlock()
	notify()
}

// Show is the explicit show-controls action. It forces Visible and records
// the session interaction mark.
func (v *Visibility) Show() {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.hasInteracted = true
	v.interacting = false
	v.resetIdleTimer()
	notify := v.setVisibleLocked(true)
	v.mu.Unlock()
	notify()
}

// Stop cancels all timers. The machine accepts no further events.
func (v *Visibility) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
	stopTimer(&v.hideTimer)
	stopTimer(&v.idleTimer)
	stopTimer(&v.interactionTimer)
}

// resetIdleTimer rearms the total-inactivity hide. Caller must hold v.mu.
func (v *Visibility) resetIdleTimer() {
	stopTimer(&v.idleTimer)
	v.idleTimer = time.AfterFunc(v.timings.IdleTimeout, func() {
		v.mu.Lock()
		notify := func() {}
		// an active gesture keeps the controls up past the idle window
		if !v.stopped && (!v.hasInteracted || !v.interacting) {
			notify = v.setVisibleLocked(false)
		}
		v.mu.Unlock()
		notify()
	})
}

// setVisibleLocked updates the state and returns the change notification to
// run after the lock is released. Caller must hold v.mu.
func (v *Visibility) setVisibleLocked(visible bool) func() {
	if v.visible == visible || v.onChange == nil {
		v.visible = visible
		return func() {}
	}
	v.visible = visible
	cb := v.onChange
	return func() { cb(visible) }
}

func stopTimer(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
