package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/mediacore/internal/keymap"
	"github.com/llehouerou/mediacore/internal/ui/playerbar"
	"github.com/llehouerou/mediacore/internal/ui/styles"
)

const defaultWidth = 80

// View renders the UI.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	t := styles.T()

	sections := []string{
		playerbar.Render(playerbar.NewState(m.Player), m.bar, width),
		m.renderEvents(width),
	}
	if m.showJournal && m.Journal != nil {
		sections = append(sections, m.renderJournal(width))
	}
	if m.showHelp {
		sections = append(sections, renderHelp(width))
	}
	if m.lastErr != "" {
		sections = append(sections, t.S().Error.Render(" "+m.lastErr))
	}
	footer := fmt.Sprintf(" %s help  %s quit", m.Keys.Label(keymap.ActionHelp), m.Keys.Label(keymap.ActionQuit))
	sections = append(sections, t.S().Subtle.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderEvents(width int) string {
	t := styles.T()
	lines := []string{t.S().Title.Render("Events")}
	if len(m.events) == 0 {
		lines = append(lines, t.S().Muted.Render("no events yet"))
	}
	for _, e := range m.events {
		pos := "     -"
		if p, ok := e.Position.Get(); ok {
			pos = fmt.Sprintf("%6s", playerbar.FormatSeconds(p))
		}
		row := fmt.Sprintf("%s %s  %-26s %s",
			e.At.Format("15:04:05"), pos, e.Type, e.State)
		if e.Message != "" {
			row += "  " + e.Message
		}
		lines = append(lines, ansi.Truncate(t.EventStyle(e.Type).Render(row), max(width-4, 0), "…"))
	}
	return t.S().Panel.Width(max(width-2, 0)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderJournal(width int) string {
	t := styles.T()
	title := "Failures"
	if m.Recorder == nil || m.Recorder.SessionID() == "" {
		title = "Journal"
	}
	lines := []string{t.S().Title.Render(title)}
	if len(m.failures) == 0 {
		lines = append(lines, t.S().Muted.Render("nothing recorded"))
	}
	now := m.now()
	for _, e := range m.failures {
		row := fmt.Sprintf("%-14s %-26s", humanize.RelTime(e.At, now, "ago", "from now"), e.Type)
		if p, ok := e.Position.Get(); ok {
			row += " at " + playerbar.FormatSeconds(p)
		}
		if e.Message != "" {
			row += "  " + e.Message
		}
		lines = append(lines, t.EventStyle(e.Type).Render(row))
	}
	return t.S().Panel.Width(max(width-2, 0)).Render(strings.Join(lines, "\n"))
}

func renderHelp(width int) string {
	t := styles.T()
	var lines []string
	for _, ctx := range keymap.Contexts {
		lines = append(lines, t.S().Title.Render(ctx))
		for _, l := range keymap.HelpLines(ctx) {
			lines = append(lines, "  "+l)
		}
	}
	return t.S().Panel.Width(max(width-2, 0)).Render(strings.Join(lines, "\n"))
}
