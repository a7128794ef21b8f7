// Package handler routes a resolved key action through an ordered set of
// handlers.
package handler

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/mediacore/internal/keymap"
)

// Result is what a handler did with an action.
type Result struct {
	Handled bool
	Cmd     tea.Cmd
	// Err is a Player command the handler issued and the Player rejected.
	Err error
}

// NotHandled is returned when a handler doesn't own the action.
var NotHandled = Result{}

// Done marks the action handled with nothing further to run.
var Done = Result{Handled: true}

// Handled marks the action handled and schedules cmd.
func Handled(cmd tea.Cmd) Result {
	return Result{Handled: true, Cmd: cmd}
}

// Failed marks the action handled with the outcome of a Player command.
// A nil err is the same as Done.
func Failed(err error) Result {
	return Result{Handled: true, Err: err}
}

// Handler attempts to handle an action.
type Handler func(keymap.Action) Result

// Chain offers action to each handler in turn and returns the first
// result that handled it, or NotHandled.
func Chain(action keymap.Action, handlers ...Handler) Result {
	if action == "" {
		return NotHandled
	}
	for _, h := range handlers {
		if r := h(action); r.Handled {
			return r
		}
	}
	return NotHandled
}
