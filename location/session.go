package location

import (
	"sync"

	"akipe/models"
)

// Source tags where the current location came from.
type Source string

const (
	SourceGPS     Source = "gps"
	SourceManual  Source = "manual"
	SourceAddress Source = "address"
	SourceNone    Source = "none"
)

// State is the session's location snapshot: the best-known position, its
// provenance, the pinned override when one is active, and the last
// unresolved acquisition failure.
type State struct {
	Current *models.Coordinate `json:"current"`
	Source  Source             `json:"source"`
	Fixed   *models.Coordinate `json:"fixed"`
	Err     *ErrorDescriptor   `json:"-"`
}

// Session owns the single mutable LocationState for an active session.
// All mutation goes through its methods; GPS fixes are suppressed while a
// fixed override is set, so a late-arriving watch update never overwrites a
// more recent manual pin.
type Session struct {
	mu    sync.Mutex
	state State
}

// NewSession creates an empty session (no position, source none).
func NewSession() *Session {
	return &Session{state: State{Source: SourceNone}}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Current != nil {
		c := *st.Current
		st.Current = &c
	}
	if st.Fixed != nil {
		f := *st.Fixed
		st.Fixed = &f
	}
	return st
}

// ApplyGPSFix records a GPS position. It reports false without mutating
// anything while a fixed override is active.
func (s *Session) ApplyGPSFix(c models.Coordinate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Fixed != nil {
		return false
	}
	s.state.Current = &c
	s.state.Source = SourceGPS
	s.state.Err = nil
	return true
}

// SetFixed pins the session to a manual or address-resolved coordinate.
func (s *Session) SetFixed(c models.Coordinate, source Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Current = &c
	s.state.Fixed = &c
	s.state.Source = source
	s.state.Err = nil
}

// ClearFixed removes the pinned override so GPS fixes apply again.
func (s *Session) ClearFixed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Fixed = nil
	s.state.Source = SourceNone
}

// SetError records the last unresolved acquisition failure.
func (s *Session) SetError(desc *ErrorDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = desc
}

// restore reinstates a previously captured state, used by the drag-to-relocate
// revert path.
func (s *Session) restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}
