package player

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(44100)

// fakeStream is a silent in-memory beep.StreamSeekCloser.
type fakeStream struct {
	pos    int
	length int
	closes int
}

func (s *fakeStream) Stream(samples [][2]float64) (int, bool) {
	n := min(len(samples), s.length-s.pos)
	if n <= 0 {
		return 0, false
	}
	for i := range n {
		samples[i] = [2]float64{}
	}
	s.pos += n
	return n, true
}

func (s *fakeStream) Err() error    { return nil }
func (s *fakeStream) Len() int      { return s.length }
func (s *fakeStream) Position() int { return s.pos }

func (s *fakeStream) Seek(p int) error {
	s.pos = max(0, min(p, s.length))
	return nil
}

func (s *fakeStream) Close() error {
	s.closes++
	return nil
}

func newFakeTrack(length int) (*Track, *fakeStream) {
	s := &fakeStream{length: length}
	return newTrack("https://tracks.test/a.mp3", s, beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}), s
}

func TestTrack_NewTrackIsStopped(t *testing.T) {
	track, _ := newFakeTrack(int(testRate) * 3)

	assert.Equal(t, Stopped, track.State())
	assert.False(t, track.IsPlaying())
	assert.Equal(t, "https://tracks.test/a.mp3", track.URL())
}

func TestTrack_PauseWhenStopped(t *testing.T) {
	track, _ := newFakeTrack(int(testRate))

	assert.ErrorIs(t, track.Pause(), ErrInvalidState)
	assert.Equal(t, Stopped, track.State())
}

func TestTrack_DurationFromSampleCount(t *testing.T) {
	track, s := newFakeTrack(int(testRate)*90 + int(testRate)/2)

	assert.Equal(t, 90500*time.Millisecond, track.Duration())

	// The length is read once when the track is built.
	s.length = 0
	assert.Equal(t, 90500*time.Millisecond, track.Duration())
}

func TestTrack_SeekAndPosition(t *testing.T) {
	track, s := newFakeTrack(int(testRate) * 60)

	require.NoError(t, track.SeekTo(12*time.Second))
	assert.Equal(t, int(testRate)*12, s.pos)
	assert.Equal(t, 12*time.Second, track.Position())
}

func TestTrack_CallsAfterClose(t *testing.T) {
	track, s := newFakeTrack(int(testRate) * 10)

	require.NoError(t, track.Close())
	assert.Equal(t, 1, s.closes)

	assert.ErrorIs(t, track.Start(), ErrReleased)
	assert.ErrorIs(t, track.Pause(), ErrReleased)
	assert.ErrorIs(t, track.SeekTo(time.Second), ErrReleased)
	assert.Zero(t, track.Position())
	assert.Zero(t, track.Duration())
	assert.Equal(t, Stopped, track.State())

	require.NoError(t, track.Close())
	assert.Equal(t, 1, s.closes, "second Close must not close the decoder again")
}

func TestTrack_RewindIfFinished(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		want int
	}{
		{"at end rewinds", 1000, 0},
		{"seeked after finish keeps position", 400, 400},
		{"at start", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, s := newFakeTrack(1000)
			s.pos = tt.pos

			require.NoError(t, track.rewindIfFinishedLocked())
			assert.Equal(t, tt.want, s.pos)
		})
	}
}

// silentMP3 builds frames of MPEG-1 Layer III, 128 kbit/s, 44.1 kHz stereo
// with zeroed side info and main data, which decode to silence.
func silentMP3(frames int) []byte {
	const frameSize = 417 // 144 * 128000 / 44100, no padding
	var buf bytes.Buffer
	for range frames {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x04})
		buf.Write(frame)
	}
	return buf.Bytes()
}

func TestDecodeMP3(t *testing.T) {
	stream, format, err := decodeMP3(readSeekNopCloser{bytes.NewReader(silentMP3(20))})
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, testRate, format.SampleRate)
	assert.Equal(t, 2, format.NumChannels)
	assert.Positive(t, stream.Len())

	samples := make([][2]float64, 512)
	n, ok := stream.Stream(samples)
	require.True(t, ok)
	assert.Positive(t, n)
	for _, s := range samples[:n] {
		assert.Equal(t, [2]float64{}, s)
	}
}

func TestMP3Stream_SeekClampsToBounds(t *testing.T) {
	stream, _, err := decodeMP3(readSeekNopCloser{bytes.NewReader(silentMP3(20))})
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.Seek(-500))
	assert.Equal(t, 0, stream.Position())

	require.NoError(t, stream.Seek(stream.Len()+100000))
	assert.LessOrEqual(t, stream.Position(), stream.Len())
}

func TestDecodeMP3_Garbage(t *testing.T) {
	_, _, err := decodeMP3(io.NopCloser(bytes.NewReader([]byte("not an mp3 file"))))
	assert.Error(t, err)
}
