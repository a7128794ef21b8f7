package playback

import (
	"github.com/samber/mo"

	"github.com/llehouerou/mediacore/internal/player"
)

// EventType identifies an event. Values are stable wire identifiers.
type EventType string

const (
	EventStopped   EventType = "stopped"
	EventBuffering EventType = "buffering"
	EventPlaying   EventType = "playing"
	EventPaused    EventType = "paused"
	EventComplete  EventType = "complete"
	EventError     EventType = "error"
	EventStatus    EventType = "status"

	EventSentinelEnterBuffering EventType = "sentinel-enter-buffering"
	EventSentinelExitBuffering  EventType = "sentinel-exit-buffering"
	EventSentinelPause          EventType = "sentinel-pause"
	EventSentinelPauseFailure   EventType = "sentinel-pause-failure"
	EventSentinelSeek           EventType = "sentinel-seek"
	EventSentinelSeekFailure    EventType = "sentinel-seek-failure"
	EventSentinelComplete       EventType = "sentinel-complete"

	EventSeekAttempted EventType = "seek-attempted"
	EventSeekFinished  EventType = "seek-finished"
)

// IsSentinel returns true for events raised by the sentinel watchdog.
func (t EventType) IsSentinel() bool {
	switch t {
	case EventSentinelEnterBuffering, EventSentinelExitBuffering,
		EventSentinelPause, EventSentinelPauseFailure,
		EventSentinelSeek, EventSentinelSeekFailure,
		EventSentinelComplete:
		return true
	}
	return false
}

// IsFailure returns true for sentinel give-up events.
func (t EventType) IsFailure() bool {
	return t == EventSentinelPauseFailure || t == EventSentinelSeekFailure
}

// Event is a snapshot of the Player taken when the event was raised.
type Event struct {
	Type          EventType
	CurrentTime   mo.Option[float64]
	SeekableRange mo.Option[player.Range]
	Duration      mo.Option[float64]
	URL           string
	MIMEType      string
	State         State

	// Set on EventError only.
	ErrorCode    int
	ErrorMessage string
}
