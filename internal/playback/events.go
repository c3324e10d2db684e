package playback

import "github.com/llehouerou/wavecast/internal/catalog"

// TrackView is the snapshot handed to the presentation layer each time the
// active track changes.
type TrackView struct {
	Name            string
	DurationSeconds int
	HasPrevious     bool
	HasNext         bool
}

// TrackChange is emitted once a track finished loading and became current.
//
// Emitted by:
//   - SetCatalog: for the first track of the new catalog
//   - Next/Previous: for the track moved to
//
// A load superseded by a newer one never emits.
type TrackChange struct {
	Track catalog.Track
	View  TrackView
	Index int
}

// StateChange is emitted when the playing flag flips.
type StateChange struct {
	Playing bool
}

// PositionChange is emitted by the progress poller while playing. Index is
// the playlist index of the track the position belongs to.
type PositionChange struct {
	Index           int
	Seconds         int
	DurationSeconds int
}

// ErrorEvent is emitted when the player rejects an operation or a track
// fails to load. The coordinator state is left unchanged.
type ErrorEvent struct {
	Operation string // e.g., "load", "toggle", "seek"
	URL       string // track URL if applicable
	Err       error
}
