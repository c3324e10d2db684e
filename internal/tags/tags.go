// Package tags reads and writes the metadata embedded in downloaded tracks.
package tags

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// Tag holds the fields wavecast reads and writes.
type Tag struct {
	Title  string
	Artist string
	Album  string
	Source string // URL the file was downloaded from
}

// Read reads tags from any format dhowden/tag understands. A file without
// tags yields an empty Tag.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return &Tag{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	return &Tag{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}, nil
}
