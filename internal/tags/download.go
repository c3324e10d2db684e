package tags

import (
	"path/filepath"
	"strings"

	"github.com/llehouerou/wavecast/internal/download"
)

// Downloads tags finished MP3 downloads with their catalog name and source
// URL. Other formats pass through untouched.
type Downloads struct{}

// Tag implements download.Tagger. An existing title is kept.
func (Downloads) Tag(path string, req download.Request) error {
	if !strings.EqualFold(filepath.Ext(req.Filename), ".mp3") {
		return nil
	}

	t := Tag{Source: req.URL}
	existing, err := Read(path)
	if err != nil || existing.Title == "" {
		t.Title = req.Title
	}
	return WriteMP3(path, t)
}

var _ download.Tagger = Downloads{}
