package player

// State represents the state machine of a loaded track.
//
//	┌──────────┐     Start      ┌──────────┐
//	│  Stopped │ ──────────────▶│  Playing │
//	└──────────┘                └──────────┘
//	                              │      ▲
//	                        Pause │      │ Start
//	                              ▼      │
//	                            ┌──────────┐
//	                            │  Paused  │
//	                            └──────────┘
//
// A freshly opened handle is Stopped. Reaching the end of the stream moves a
// Playing handle back to Stopped; a later Start replays from the beginning.
//
// Invalid transitions return ErrInvalidState:
//   - Stopped → Paused
//   - Paused  → Paused
//
// Every call on a closed handle returns ErrReleased.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}
