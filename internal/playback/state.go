// internal/playback/state.go
package playback

// State is the canonical playback state owned by the Player.
//
//	         initialiseMedia              beginPlayback(From)
//	EMPTY ─────────────────▶ STOPPED ─────────────────────▶ BUFFERING
//	  ▲                       │  ▲                          │  ▲
//	  │ reset                 │  │ stop          device ready│  │ waiting / stall
//	  │                       │  │                           ▼  │
//	  └──── ERROR ◀── any invalid op ──────────────── PLAYING ◀──▶ PAUSED
//	                                                        │ pause/resume
//	                                                ended   ▼
//	                                                     COMPLETE
//
// Valid operations per state (anything else moves to ERROR):
//   - EMPTY:     initialiseMedia, reset (no-op)
//   - STOPPED:   beginPlayback, beginPlaybackFrom, reset, stop (no-op)
//   - BUFFERING: playFrom, pause, resume (all deferred), stop
//   - PLAYING:   pause, playFrom, resume (no-op), stop
//   - PAUSED:    resume, playFrom, pause (no-op), stop
//   - COMPLETE:  playFrom, stop
//   - ERROR:     reset
type State int

const (
	StateEmpty State = iota
	StateStopped
	StateBuffering
	StatePlaying
	StatePaused
	StateComplete
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateStopped:
		return "STOPPED"
	case StateBuffering:
		return "BUFFERING"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateComplete:
		return "COMPLETE"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsActive returns true while media is loaded and in flight
// (buffering, playing or paused). The sentinel only runs in these states.
func (s State) IsActive() bool {
	return s == StateBuffering || s == StatePlaying || s == StatePaused
}

// HasMedia returns true when a device is attached and reporting time.
func (s State) HasMedia() bool {
	return s.IsActive() || s == StateComplete
}
