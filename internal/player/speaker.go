package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const resampleQuality = 4

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
	speakerInit bool
)

// ensureSpeaker initialises the audio device on first use with the sample
// rate of the first track, and returns the device rate.
func ensureSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInit {
		return speakerRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	speakerRate = rate
	speakerInit = true
	return speakerRate, nil
}

// adapt resamples s to the device rate when needed.
func adapt(s beep.Streamer, from, to beep.SampleRate) beep.Streamer {
	if from == to {
		return s
	}
	return beep.Resample(resampleQuality, from, to, s)
}
