package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/mediacore/internal/playback"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg.String())
		return m, cmd

	case TickMsg:
		return m, TickCmd()

	case PlayerEventMsg:
		return m.handlePlayerEvent(msg)

	case SubscriptionClosedMsg:
		m.sub = nil
		return m, nil

	case FailuresLoadedMsg:
		if msg.Err != nil {
			m.log.WithError(msg.Err).Warn("load journal entries")
			return m, nil
		}
		m.failures = msg.Entries
		return m, nil

	case CommandErrorMsg:
		m.lastErr = msg.Err.Error()
		m.log.WithError(msg.Err).Debug("command rejected")
		return m, nil
	}
	return m, nil
}

func (m Model) handlePlayerEvent(msg PlayerEventMsg) (tea.Model, tea.Cmd) {
	e := msg.Event
	cmds := []tea.Cmd{m.WatchEvents()}

	// STATUS fires every sentinel tick; the progress bar already reflects it.
	if e.Type == playback.EventStatus {
		return m, tea.Batch(cmds...)
	}

	line := EventLine{
		At:       msg.At,
		Type:     e.Type,
		State:    e.State,
		Position: e.CurrentTime,
	}
	if e.Type == playback.EventError {
		line.Message = e.ErrorMessage
		m.lastErr = e.ErrorMessage
	}
	m.events = append(m.events, line)
	if len(m.events) > maxEventLines {
		m.events = m.events[len(m.events)-maxEventLines:]
	}

	if m.showJournal && (e.Type == playback.EventError || e.Type.IsFailure() || e.Type == playback.EventSeekAttempted) {
		cmds = append(cmds, m.LoadFailuresCmd())
	}
	return m, tea.Batch(cmds...)
}
