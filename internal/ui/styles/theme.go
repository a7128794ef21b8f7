package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/mediacore/internal/playback"
)

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	Primary   lipgloss.Color // Purple - active states, progress
	Secondary lipgloss.Color // Gold/orange - buffering

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	Border lipgloss.Color

	Success lipgloss.Color // Green - playing
	Error   lipgloss.Color // Red - errors, sentinel give-ups
	Warning lipgloss.Color // Yellow/orange - sentinel interventions

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Panel   lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Border: lipgloss.Color("#585858"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}

// StateStyle returns the style used to render a player state label.
func (t *Theme) StateStyle(s playback.State) lipgloss.Style {
	switch s {
	case playback.StatePlaying:
		return t.S().Success.Bold(true)
	case playback.StateBuffering:
		return lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	case playback.StateError:
		return t.S().Error.Bold(true)
	case playback.StatePaused, playback.StateComplete:
		return t.S().Title
	default:
		return t.S().Muted
	}
}

// EventStyle returns the style used for an event line in the event log.
func (t *Theme) EventStyle(e playback.EventType) lipgloss.Style {
	switch {
	case e == playback.EventError || e.IsFailure():
		return t.S().Error
	case e.IsSentinel():
		return t.S().Warning
	case e == playback.EventSeekAttempted || e == playback.EventSeekFinished:
		return lipgloss.NewStyle().Foreground(t.Primary)
	default:
		return t.S().Base
	}
}
