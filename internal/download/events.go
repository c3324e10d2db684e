// Package download fetches remote tracks to a local directory, reporting
// progress as it goes.
package download

import (
	"errors"
	"strings"
)

// TerminalPercent is the percent value carried by completed and failed
// events. Progress events never exceed 100.
const TerminalPercent = 101

// Human-readable status strings of the terminal events.
const (
	StatusCompleted = "Download completed"
	StatusFailed    = "Download failed"
)

// EventType identifies the kind of a download event.
type EventType int

const (
	EventStarted EventType = iota
	EventProgress
	EventCompleted
	EventFailed
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events follow this one.
func (t EventType) Terminal() bool {
	return t == EventCompleted || t == EventFailed
}

// Request describes a single download.
type Request struct {
	URL      string
	Filename string
	Title    string // optional display name, used for tagging
}

// Validate rejects requests that cannot be executed. Filenames must be a
// plain name without any directory component.
func (r Request) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return errors.New("empty url")
	}
	if strings.TrimSpace(r.Filename) == "" {
		return errors.New("empty filename")
	}
	if r.Filename == "." || r.Filename == ".." || strings.ContainsAny(r.Filename, `/\`) {
		return errors.New("filename must not contain a path")
	}
	return nil
}

// Event reports the progress of a download.
//
// Started is emitted before any I/O. Progress carries a percentage in
// [0,100] and is only emitted when the content length is known and the
// percentage changed. Completed and Failed carry TerminalPercent and a
// status string.
type Event struct {
	JobID   string
	Type    EventType
	Request Request
	Percent int
	Bytes   int64
	Total   int64 // -1 when unknown
	Status  string
	Path    string // destination, set on completion
	Err     error  // set on failure
}

// Indeterminate reports whether the event has no meaningful percentage.
func (e Event) Indeterminate() bool {
	return e.Type == EventStarted
}

// Reporter receives download events. Implementations must not block for
// long since they run on the download goroutine.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// Outcome is the terminal result of a download.
type Outcome struct {
	Success bool
	Path    string
	Bytes   int64
	Err     error
}
