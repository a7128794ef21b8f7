package journal

import (
	"context"
	"sync"

	"github.com/llehouerou/mediacore/internal/errmsg"
	"github.com/llehouerou/mediacore/internal/playback"
)

// Recorder feeds a Player's events into the journal. Each
// initialiseMedia opens a new session; status events are not recorded.
type Recorder struct {
	j *Journal
	p *playback.Player

	mu      sync.Mutex
	session string
}

// Attach starts recording p's events until ctx is done.
func (j *Journal) Attach(ctx context.Context, p *playback.Player) *Recorder {
	r := &Recorder{j: j, p: p}
	p.AddEventCallback(ctx, r.handle)
	return r
}

// SessionID returns the current session, or "" before any media.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

func (r *Recorder) handle(e playback.Event) {
	if e.Type == playback.EventSeekAttempted {
		id, err := r.j.StartSession(string(r.p.MediaType()), e.URL)
		if err != nil {
			r.j.log.WithError(err).Warn(errmsg.FormatWith(errmsg.OpJournalRecord, e.URL, err))
		}
		r.mu.Lock()
		r.session = id
		r.mu.Unlock()
	}

	if e.Type == playback.EventStatus {
		return
	}

	session := r.SessionID()
	if session == "" {
		return
	}
	r.j.Record(session, e)
}
