// Package app contains the TUI model driving a playback.Player.
package app

import (
	"time"

	"github.com/llehouerou/mediacore/internal/journal"
	"github.com/llehouerou/mediacore/internal/playback"
)

// TickMsg is sent periodically to refresh the position and progress bar.
type TickMsg time.Time

// PlayerEventMsg carries one event from the Player subscription.
type PlayerEventMsg struct {
	Event playback.Event
	At    time.Time
}

// SubscriptionClosedMsg is sent when the Player subscription ends.
type SubscriptionClosedMsg struct{}

// FailuresLoadedMsg carries the journal entries shown in the journal panel.
type FailuresLoadedMsg struct {
	Entries []journal.Entry
	Err     error
}

// CommandErrorMsg reports a Player command rejected in the current state.
type CommandErrorMsg struct {
	Err error
}
