package catalog

const soundHelixBase = "https://www.soundhelix.com/examples/mp3/"

// Default returns the built-in demo playlist.
func Default() Catalog {
	return New(
		Track{Name: "Blue Skies", URL: soundHelixBase + "SoundHelix-Song-1.mp3"},
		Track{Name: "Upbeat and Positive", URL: soundHelixBase + "SoundHelix-Song-2.mp3"},
		Track{Name: "Corporate Background", URL: soundHelixBase + "SoundHelix-Song-5.mp3"},
		Track{Name: "Relaxing Guitar", URL: soundHelixBase + "SoundHelix-Song-7.mp3"},
		Track{Name: "Ambient Chill", URL: soundHelixBase + "SoundHelix-Song-8.mp3"},
	)
}

// StaticSource is a Source backed by a fixed slice.
type StaticSource []Track

// Tracks returns the tracks of the source.
func (s StaticSource) Tracks() []Track { return s }

// OrDefault returns a catalog built from tracks, or Default if tracks is empty.
func OrDefault(tracks []Track) Catalog {
	if len(tracks) == 0 {
		return Default()
	}
	return FromSource(StaticSource(tracks))
}
