// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionStop            Action = "stop"
	ActionRestart         Action = "restart" // play from zero
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionReload          Action = "reload" // reset and re-initialise the media

	// Diagnostics
	ActionToggleJournal Action = "toggle_journal"
	ActionClearEvents   Action = "clear_events"
)

// SeekSeconds returns the relative seek for a seek action, or 0.
func (a Action) SeekSeconds() float64 {
	switch a {
	case ActionSeekForward:
		return 10
	case ActionSeekBack:
		return -10
	case ActionSeekForwardLong:
		return 60
	case ActionSeekBackLong:
		return -60
	}
	return 0
}
