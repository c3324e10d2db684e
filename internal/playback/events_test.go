package playback

import "testing"

func TestTrackView_Comparable(t *testing.T) {
	a := TrackView{Name: "B", DurationSeconds: 45, HasPrevious: true}
	b := TrackView{Name: "B", DurationSeconds: 45, HasPrevious: true}
	if a != b {
		t.Errorf("%+v != %+v", a, b)
	}
	b.HasNext = true
	if a == b {
		t.Error("views with different HasNext compare equal")
	}
}
