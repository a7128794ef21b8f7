// Package clock abstracts timers so periodic work can be driven
// deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer had
	// already been stopped or, for one-shot timers, already fired.
	Stop() bool
}

// Clock schedules callbacks and reports the current time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) Every(d time.Duration, f func()) Timer {
	t := &ticker{stop: make(chan struct{})}
	go t.run(d, f)
	return t
}

type ticker struct {
	once sync.Once
	stop chan struct{}
}

func (t *ticker) run(d time.Duration, f func()) {
	tk := time.NewTicker(d)
	defer tk.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			// Stop may race with a pending tick
			select {
			case <-t.stop:
				return
			default:
			}
			f()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		close(t.stop)
		stopped = true
	})
	return stopped
}
