// Package playerbar renders the player status bar.
package playerbar

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/samber/mo"

	"github.com/llehouerou/mediacore/internal/playback"
	"github.com/llehouerou/mediacore/internal/player"
	"github.com/llehouerou/mediacore/internal/ui/styles"
)

// Height is the rendered height: top border, two content rows, bottom border.
const Height = 4

const minTitleWidth = 8

// Source is the part of the Player the bar reads from.
type Source interface {
	State() playback.State
	CurrentTime() mo.Option[float64]
	Duration() mo.Option[float64]
	Source() string
	MediaType() player.MediaType
}

// State holds everything needed to render the player bar.
type State struct {
	Player   playback.State
	Title    string
	Type     player.MediaType
	Position float64
	Duration mo.Option[float64]
}

// NewState snapshots a Player for rendering.
func NewState(p Source) State {
	return State{
		Player:   p.State(),
		Title:    title(p.Source()),
		Type:     p.MediaType(),
		Position: p.CurrentTime().OrElse(0),
		Duration: p.Duration(),
	}
}

// Live returns true when the duration is unbounded.
func (s State) Live() bool {
	d, ok := s.Duration.Get()
	return s.Type.IsLive() || (ok && math.IsInf(d, 1))
}

// Ratio returns the played fraction in [0,1], or 0 when unknown.
func (s State) Ratio() float64 {
	d, ok := s.Duration.Get()
	if !ok || d <= 0 || math.IsInf(d, 1) {
		return 0
	}
	return min(max(s.Position/d, 0), 1)
}

// Render draws the bar at the given outer width.
func Render(s State, bar progress.Model, width int) string {
	t := styles.T()
	innerWidth := max(width-4, 0) // border + padding

	status := statusIcon(s.Player) + "  " + t.StateStyle(s.Player).Render(s.Player.String())
	kind := t.S().Muted.Render(string(s.Type))
	gap := max(innerWidth-lipgloss.Width(status)-lipgloss.Width(kind), 1)
	top := status + strings.Repeat(" ", gap) + kind

	// Title gets at most half the row; the rest belongs to the progress bar.
	title := t.S().Title.Render(runewidth.Truncate(s.Title, max(innerWidth/2, minTitleWidth), "..."))
	bottom := title + "  " + RenderProgress(s, bar, innerWidth-lipgloss.Width(title)-2)

	return t.S().Panel.Width(max(width-2, 0)).Render(top + "\n" + bottom)
}

// RenderProgress renders "1:23 [bar] 4:56", or a position and LIVE marker for
// unbounded media.
func RenderProgress(s State, bar progress.Model, width int) string {
	pos := FormatSeconds(s.Position)
	if s.Live() {
		return pos + "  " + styles.T().S().Error.Render("● LIVE")
	}

	dur := "--:--"
	if d, ok := s.Duration.Get(); ok {
		dur = FormatSeconds(d)
	}

	fixed := lipgloss.Width(pos) + lipgloss.Width(dur) + 4
	if width-fixed < 3 {
		return pos + " / " + dur
	}
	bar.Width = width - fixed
	return pos + "  " + bar.ViewAs(s.Ratio()) + "  " + dur
}

// FormatSeconds formats seconds as m:ss, or h:mm:ss past an hour.
func FormatSeconds(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, sec := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func statusIcon(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return "▶"
	case playback.StatePaused:
		return "⏸"
	case playback.StateBuffering:
		return "…"
	case playback.StateComplete:
		return "■"
	case playback.StateError:
		return "✖"
	default:
		return "□"
	}
}

func title(source string) string {
	if source == "" {
		return "No media"
	}
	source = strings.TrimPrefix(source, "file://")
	if strings.Contains(source, "://") {
		return source
	}
	return filepath.Base(source)
}
