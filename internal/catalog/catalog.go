// Package catalog holds the ordered, immutable list of remote tracks the
// player cycles through.
package catalog

import (
	"net/url"
	"path"
	"strings"

	"github.com/gosimple/slug"
)

const defaultExt = ".mp3"

// Track describes a remotely hosted track.
type Track struct {
	Name string
	URL  string
}

// Filename returns the name used when saving the track locally: a slug of
// the track name plus the extension found in the URL path (".mp3" if none).
func (t Track) Filename() string {
	base := slug.Make(t.Name)
	if base == "" {
		base = "track"
	}
	return base + t.Ext()
}

// Ext returns the lowercased file extension of the track URL.
func (t Track) Ext() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return defaultExt
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		return defaultExt
	}
	return ext
}

// Catalog is an ordered list of tracks. The zero value is an empty catalog.
type Catalog struct {
	tracks []Track
}

// Source supplies the tracks of a catalog once at startup.
type Source interface {
	Tracks() []Track
}

// New creates a catalog from the given tracks. The slice is copied.
func New(tracks ...Track) Catalog {
	c := Catalog{tracks: make([]Track, len(tracks))}
	copy(c.tracks, tracks)
	return c
}

// FromSource builds a catalog from a one-shot source.
func FromSource(src Source) Catalog {
	if src == nil {
		return Catalog{}
	}
	return New(src.Tracks()...)
}

// Len returns the number of tracks.
func (c Catalog) Len() int { return len(c.tracks) }

// IsEmpty reports whether the catalog has no tracks.
func (c Catalog) IsEmpty() bool { return len(c.tracks) == 0 }

// At returns the track at index i.
func (c Catalog) At(i int) (Track, bool) {
	if i < 0 || i >= len(c.tracks) {
		return Track{}, false
	}
	return c.tracks[i], true
}

// Tracks returns a copy of all tracks.
func (c Catalog) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}
