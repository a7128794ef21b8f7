package handler

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/mediacore/internal/keymap"
)

func TestNotHandled(t *testing.T) {
	if NotHandled.Handled || NotHandled.Cmd != nil || NotHandled.Err != nil {
		t.Errorf("NotHandled = %+v, want zero value", NotHandled)
	}
}

func TestDone(t *testing.T) {
	if !Done.Handled {
		t.Error("Done.Handled should be true")
	}
	if Done.Cmd != nil || Done.Err != nil {
		t.Error("Done should carry no command or error")
	}
}

func TestHandled(t *testing.T) {
	t.Run("nil command", func(t *testing.T) {
		r := Handled(nil)
		if !r.Handled || r.Cmd != nil {
			t.Errorf("Handled(nil) = %+v", r)
		}
	})

	t.Run("with command", func(t *testing.T) {
		r := Handled(func() tea.Msg { return "test" })
		if !r.Handled || r.Cmd == nil {
			t.Errorf("Handled(cmd) = %+v", r)
		}
	})
}

func TestFailed(t *testing.T) {
	if r := Failed(nil); !r.Handled || r.Cmd != nil || r.Err != nil {
		t.Errorf("Failed(nil) = %+v, want Done", r)
	}

	errRejected := errors.New("rejected")
	r := Failed(errRejected)
	if !r.Handled {
		t.Error("Failed(err).Handled should be true")
	}
	if !errors.Is(r.Err, errRejected) {
		t.Errorf("Failed(err).Err = %v, want %v", r.Err, errRejected)
	}
}

func TestChain(t *testing.T) {
	var calls []string
	record := func(name string, owns keymap.Action) Handler {
		return func(a keymap.Action) Result {
			calls = append(calls, name)
			if a == owns {
				return Done
			}
			return NotHandled
		}
	}
	handlers := []Handler{
		record("global", keymap.ActionQuit),
		record("playback", keymap.ActionStop),
		record("diagnostics", keymap.ActionClearEvents),
	}

	tests := []struct {
		name      string
		action    keymap.Action
		wantCalls []string
		handled   bool
	}{
		{"first handler", keymap.ActionQuit, []string{"global"}, true},
		{"stops at owner", keymap.ActionStop, []string{"global", "playback"}, true},
		{"last handler", keymap.ActionClearEvents, []string{"global", "playback", "diagnostics"}, true},
		{"unowned", keymap.ActionHelp, []string{"global", "playback", "diagnostics"}, false},
		{"unbound key", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = nil
			r := Chain(tt.action, handlers...)
			if r.Handled != tt.handled {
				t.Errorf("Handled = %v, want %v", r.Handled, tt.handled)
			}
			if len(calls) != len(tt.wantCalls) {
				t.Fatalf("calls = %v, want %v", calls, tt.wantCalls)
			}
			for i := range calls {
				if calls[i] != tt.wantCalls[i] {
					t.Errorf("calls = %v, want %v", calls, tt.wantCalls)
				}
			}
		})
	}
}

func TestChain_PropagatesError(t *testing.T) {
	errRejected := errors.New("rejected")
	r := Chain(keymap.ActionStop,
		func(keymap.Action) Result { return NotHandled },
		func(keymap.Action) Result { return Failed(errRejected) },
		func(keymap.Action) Result { t.Error("handler after the owner ran"); return Done },
	)
	if !errors.Is(r.Err, errRejected) {
		t.Errorf("Err = %v, want %v", r.Err, errRejected)
	}
}

func TestChain_NoHandlers(t *testing.T) {
	if r := Chain(keymap.ActionQuit); r.Handled {
		t.Error("Chain with no handlers should not handle")
	}
}
