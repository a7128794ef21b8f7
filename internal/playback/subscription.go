package playback

import "sync"

const eventBufferSize = 16

// Subscription delivers events over a buffered channel for consumers that
// run on their own goroutine. Events are dropped when the buffer is full.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	eventCh chan Event
	doneCh  chan struct{}
	once    sync.Once
	cancel  func()
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventCh: make(chan Event, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.Events = s.eventCh
	s.Done = s.doneCh
	return s
}

// send delivers an event (non-blocking).
func (s *Subscription) send(e Event) {
	select {
	case s.eventCh <- e:
	default:
		// Drop if buffer full
	}
}

// Close stops delivery and signals Done. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		close(s.doneCh)
	})
}
