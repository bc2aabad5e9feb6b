package location

import (
	"sync"

	"akipe/models"
)

// Geocoder resolves a free-text address to a coordinate. Implemented by the
// external geocoding provider.
type Geocoder interface {
	Geocode(address string) (models.Coordinate, error)
}

// Override pins a fixed location that supersedes live GPS until cleared.
// It also backs the drag-to-relocate flow: a dragged marker proposes a
// coordinate that the UI later commits or reverts.
type Override struct {
	mu       sync.Mutex
	session  *Session
	tracker  *Tracker
	geocoder Geocoder
	prior    *State // set while a proposal is pending
}

// NewOverride wires the override to the session it pins, the tracker it
// resumes on clear, and the geocoding collaborator.
func NewOverride(session *Session, tracker *Tracker, geocoder Geocoder) *Override {
	return &Override{session: session, tracker: tracker, geocoder: geocoder}
}

// SetCoordinate pins the session to c. GPS watch updates stop mutating the
// session until Clear.
func (o *Override) SetCoordinate(c models.Coordinate) {
	o.session.SetFixed(c, SourceManual)
}

// SetFromAddressText resolves text through the geocoding collaborator and
// pins the result with address provenance. Provider failures come back as
// their classified errors, each carrying its own user message.
func (o *Override) SetFromAddressText(text string) (models.Coordinate, error) {
	coord, err := o.geocoder.Geocode(text)
	if err != nil {
		return models.Coordinate{}, err
	}
	o.session.SetFixed(coord, SourceAddress)
	return coord, nil
}

// Clear removes the pinned location and resumes GPS-driven tracking. The
// fresh fix request runs in the background; the watch resumes immediately.
func (o *Override) Clear() {
	o.session.ClearFixed()
	if o.tracker != nil {
		go o.tracker.RequestOnce()
		o.tracker.StartWatching()
	}
}

// ProposeCoordinate applies c as a manual pin while remembering the prior
// state, so the UI can show the moved marker and then confirm or cancel.
// A second proposal before Commit/Revert keeps the original prior state.
func (o *Override) ProposeCoordinate(c models.Coordinate) {
	o.mu.Lock()
	if o.prior == nil {
		st := o.session.Snapshot()
		o.prior = &st
	}
	o.mu.Unlock()
	o.session.SetFixed(c, SourceManual)
}

// Commit finalizes the pending proposal.
func (o *Override) Commit() {
	o.mu.Lock()
	o.prior = nil
	o.mu.Unlock()
}

// Revert restores the state captured when the proposal was made. It is a
// no-op when nothing is pending.
func (o *Override) Revert() {
	o.mu.Lock()
	prior := o.prior
	o.prior = nil
	o.mu.Unlock()
	if prior != nil {
		o.session.restore(*prior)
	}
}
