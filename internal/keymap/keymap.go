package keymap

import "fmt"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "diagnostics"
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},

	// Playback
	{ActionPlayPause, []string{" ", "p"}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionRestart, []string{"0", "home"}, "Play from start", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -10s", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +10s", "playback"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek -1m", "playback"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek +1m", "playback"},
	{ActionReload, []string{"r"}, "Reload media", "playback"},

	// Diagnostics
	{ActionToggleJournal, []string{"j"}, "Toggle journal panel", "diagnostics"},
	{ActionClearEvents, []string{"c"}, "Clear event log", "diagnostics"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Contexts lists binding contexts in display order.
var Contexts = []string{"global", "playback", "diagnostics"}

// HelpLines formats the bindings of a context as "keys  description" rows.
func HelpLines(context string) []string {
	var lines []string
	for _, b := range ByContext(context) {
		lines = append(lines, fmt.Sprintf("%-18s %s", displayKeys(b.Keys), b.Description))
	}
	return lines
}
