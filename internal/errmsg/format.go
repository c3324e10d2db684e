// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackLoad    Op = "load track"
	OpPlaybackToggle  Op = "toggle playback"
	OpPlaybackSkip    Op = "skip track"
	OpPlaybackSeek    Op = "seek"
	OpPlaybackGeneric Op = "control playback"

	// Download operations
	OpDownloadStart   Op = "start download"
	OpDownloadFinish  Op = "download track"
	OpDownloadHistory Op = "load download history"
	OpDownloadClear   Op = "clear finished downloads"

	// Initialization
	OpInitialize Op = "initialize application"
	OpAudioInit  Op = "initialize audio output"
)

// ForPlayback maps the operation name carried by a playback error event to
// an Op.
func ForPlayback(operation string) Op {
	switch operation {
	case "load":
		return OpPlaybackLoad
	case "toggle":
		return OpPlaybackToggle
	case "next", "previous":
		return OpPlaybackSkip
	case "seek":
		return OpPlaybackSeek
	default:
		return OpPlaybackGeneric
	}
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
