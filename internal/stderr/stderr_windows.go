//go:build windows

// Package stderr is a no-op on Windows, whose audio backend does not write
// to the console.
package stderr

import "os"

// Capture is a no-op capture.
type Capture struct{}

// Start does nothing on Windows.
func Start(func(string)) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (*Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Restore does nothing on Windows.
func (*Capture) Restore() {}
