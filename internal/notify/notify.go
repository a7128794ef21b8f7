// Package notify raises desktop notifications when playback fails.
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mediacore/internal/mpris"
	"github.com/llehouerou/mediacore/internal/playback"
)

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const (
	alertTimeout = 5000 // ms
	queueSize    = 8
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// discard is the Notifier used when no notification server is reachable.
type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }
func (discard) Close(uint32) error                  { return nil }

// Alert builds the notification for a playback event. It returns false
// for events that do not warrant one.
func Alert(e playback.Event) (Notification, bool) {
	n := Notification{
		Icon:    mpris.FindArt(e.URL),
		Timeout: alertTimeout,
	}
	title := mpris.Title(e.URL)
	subject := title
	if subject == "" {
		subject = "Media"
	}

	switch e.Type {
	case playback.EventError:
		n.Title = "Playback error"
		n.Body = e.ErrorMessage
		if title != "" {
			n.Body = title + "\n" + e.ErrorMessage
		}
		n.Urgency = UrgencyCritical
	case playback.EventSentinelPauseFailure:
		n.Title = "Player ignored pause"
		n.Body = subject + " kept playing after repeated pause attempts"
		n.Urgency = UrgencyNormal
	case playback.EventSentinelSeekFailure:
		n.Title = "Player ignored seek"
		n.Body = subject + " did not reach the requested position"
		n.Urgency = UrgencyNormal
	default:
		return Notification{}, false
	}
	if n.Icon == "" {
		n.Icon = "dialog-warning"
	}
	return n, true
}

// Watcher forwards playback failures to a Notifier. Each new alert
// replaces the previous one so failures do not pile up on the desktop.
type Watcher struct {
	n   Notifier
	log logrus.FieldLogger
	ch  chan Notification

	mu     sync.Mutex
	lastID uint32
	done   chan struct{}
}

// Watch subscribes to p and notifies n of failures until ctx is done.
// Notifications are sent from a dedicated goroutine.
func Watch(ctx context.Context, p *playback.Player, n Notifier, log logrus.FieldLogger) *Watcher {
	w := &Watcher{
		n:    n,
		log:  log,
		ch:   make(chan Notification, queueSize),
		done: make(chan struct{}),
	}
	p.AddEventCallback(ctx, func(e playback.Event) {
		if notif, ok := Alert(e); ok {
			select {
			case w.ch <- notif:
			default:
				// Drop if the notification server is not keeping up
			}
		}
	})
	go w.loop(ctx)
	return w
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case notif := <-w.ch:
			w.send(notif)
		}
	}
}

func (w *Watcher) send(notif Notification) {
	w.mu.Lock()
	notif.ReplacesID = w.lastID
	w.mu.Unlock()

	id, err := w.n.Notify(notif)
	if err != nil {
		w.log.WithError(err).Debug("desktop notification failed")
		return
	}

	w.mu.Lock()
	w.lastID = id
	w.mu.Unlock()
}
