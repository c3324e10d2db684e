// internal/app/interfaces.go
package app

import (
	"context"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/download"
	"github.com/llehouerou/wavecast/internal/downloads"
)

// Downloader starts background downloads of catalog tracks.
type Downloader interface {
	StartDownload(track catalog.Track) (string, error)
}

// History lists and prunes recorded downloads.
type History interface {
	List(ctx context.Context) ([]downloads.Record, error)
	DeleteFinished(ctx context.Context) (int64, error)
}

var (
	_ Downloader = (*download.Manager)(nil)
	_ History    = (*downloads.Store)(nil)
)
