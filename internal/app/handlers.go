package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/mediacore/internal/app/handler"
	"github.com/llehouerou/mediacore/internal/keymap"
	"github.com/llehouerou/mediacore/internal/playback"
)

// handleKey routes a key press through the handler chain.
func (m *Model) handleKey(key string) tea.Cmd {
	r := handler.Chain(m.Keys.Resolve(key),
		m.handleGlobalKeys,
		m.handlePlaybackKeys,
		m.handleDiagnosticsKeys,
	)
	if r.Err != nil {
		return errCmd(r.Err)
	}
	return r.Cmd
}

func (m *Model) handleGlobalKeys(action keymap.Action) handler.Result {
	switch action { //nolint:exhaustive // only handling global actions
	case keymap.ActionQuit:
		if m.Player.State().HasMedia() {
			_ = m.Player.Stop()
		}
		return handler.Handled(tea.Quit)
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		return handler.Done
	}
	return handler.NotHandled
}

func (m *Model) handlePlaybackKeys(action keymap.Action) handler.Result {
	switch action { //nolint:exhaustive // only handling playback actions
	case keymap.ActionPlayPause:
		return m.playPause()
	case keymap.ActionStop:
		return handler.Failed(m.Player.Stop())
	case keymap.ActionRestart:
		return handler.Failed(m.playFrom(0))
	case keymap.ActionReload:
		m.lastErr = ""
		return handler.Handled(m.reload())
	case keymap.ActionSeekForward, keymap.ActionSeekBack,
		keymap.ActionSeekForwardLong, keymap.ActionSeekBackLong:
		return m.seekBy(action.SeekSeconds())
	}
	return handler.NotHandled
}

func (m *Model) handleDiagnosticsKeys(action keymap.Action) handler.Result {
	switch action { //nolint:exhaustive // only handling diagnostics actions
	case keymap.ActionToggleJournal:
		if m.Journal == nil {
			return handler.Done
		}
		m.showJournal = !m.showJournal
		if m.showJournal {
			return handler.Handled(m.LoadFailuresCmd())
		}
		return handler.Done
	case keymap.ActionClearEvents:
		m.events = nil
		m.lastErr = ""
		return handler.Done
	}
	return handler.NotHandled
}

// playPause maps the single play/pause key onto the state machine.
func (m *Model) playPause() handler.Result {
	switch m.Player.State() {
	case playback.StateStopped:
		return handler.Failed(m.Player.BeginPlayback())
	case playback.StatePlaying, playback.StateBuffering:
		return handler.Failed(m.Player.Pause())
	case playback.StatePaused:
		return handler.Failed(m.Player.Resume())
	case playback.StateComplete:
		return handler.Failed(m.Player.PlayFrom(0))
	case playback.StateEmpty, playback.StateError:
		m.lastErr = ""
		return handler.Handled(m.reload())
	}
	return handler.Done
}

func (m *Model) playFrom(seconds float64) error {
	if m.Player.State() == playback.StateStopped {
		return m.Player.BeginPlaybackFrom(seconds)
	}
	return m.Player.PlayFrom(seconds)
}

// seekBy seeks relative to the current position, never before zero.
func (m *Model) seekBy(delta float64) handler.Result {
	if !m.Player.State().HasMedia() && m.Player.State() != playback.StateStopped {
		return handler.Done
	}
	target := max(m.Player.CurrentTime().OrElse(0)+delta, 0)
	return handler.Failed(m.playFrom(target))
}
