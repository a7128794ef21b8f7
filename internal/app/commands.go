package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	tickInterval   = 500 * time.Millisecond
	journalEntries = 8
)

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEvents returns a command that waits for the next Player event.
// It must be re-issued after each PlayerEventMsg.
func (m Model) WatchEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	now := m.now
	return func() tea.Msg {
		select {
		case e := <-sub.Events:
			return PlayerEventMsg{Event: e, At: now()}
		case <-sub.Done:
			return SubscriptionClosedMsg{}
		}
	}
}

// LoadFailuresCmd reads the sentinel give-ups and errors recorded for the
// current session, falling back to the most recent entries when no session
// is active.
func (m Model) LoadFailuresCmd() tea.Cmd {
	if m.Journal == nil {
		return nil
	}
	j := m.Journal
	sessionID := ""
	if m.Recorder != nil {
		sessionID = m.Recorder.SessionID()
	}
	return func() tea.Msg {
		if sessionID == "" {
			entries, err := j.Recent(journalEntries)
			return FailuresLoadedMsg{Entries: entries, Err: err}
		}
		entries, err := j.Failures(sessionID)
		if len(entries) > journalEntries {
			entries = entries[len(entries)-journalEntries:]
		}
		return FailuresLoadedMsg{Entries: entries, Err: err}
	}
}

func errCmd(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg { return CommandErrorMsg{Err: err} }
}
