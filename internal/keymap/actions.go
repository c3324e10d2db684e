// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionNone Action = ""

	ActionQuit Action = "quit"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionNextTrack   Action = "next_track"
	ActionPrevTrack   Action = "prev_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	ActionSeekTo      Action = "seek_to"

	// Download actions
	ActionDownload     Action = "download"
	ActionClearHistory Action = "clear_history"
)
