package playback

// eventBufferSize is the per-channel backlog a subscriber may fall behind by.
const eventBufferSize = 16

// Subscription delivers coordinator events to one reader. Any number of
// subscriptions may exist; a reader that falls behind loses events instead of
// stalling playback. Done is closed when the coordinator shuts down.
type Subscription struct {
	TrackChanged    <-chan TrackChange
	StateChanged    <-chan StateChange
	PositionChanged <-chan PositionChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	track    chan TrackChange
	state    chan StateChange
	position chan PositionChange
	errs     chan ErrorEvent
	done     chan struct{}
}

func newSubscription() *Subscription {
	track := make(chan TrackChange, eventBufferSize)
	state := make(chan StateChange, eventBufferSize)
	position := make(chan PositionChange, eventBufferSize)
	errs := make(chan ErrorEvent, eventBufferSize)
	done := make(chan struct{})

	return &Subscription{
		TrackChanged:    track,
		StateChanged:    state,
		PositionChanged: position,
		Error:           errs,
		Done:            done,

		track:    track,
		state:    state,
		position: position,
		errs:     errs,
		done:     done,
	}
}

func (s *Subscription) close() { close(s.done) }

func (s *Subscription) sendTrack(e TrackChange)       { offer(s.track, e) }
func (s *Subscription) sendState(e StateChange)       { offer(s.state, e) }
func (s *Subscription) sendPosition(e PositionChange) { offer(s.position, e) }
func (s *Subscription) sendError(e ErrorEvent)        { offer(s.errs, e) }

// offer sends v unless ch is full, in which case v is dropped.
func offer[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}
