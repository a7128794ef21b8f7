package playback

import (
	"errors"
	"testing"
)

func TestEventType_IsSentinel(t *testing.T) {
	tests := []struct {
		typ  EventType
		want bool
	}{
		{EventStopped, false},
		{EventStatus, false},
		{EventError, false},
		{EventSeekFinished, false},
		{EventSentinelEnterBuffering, true},
		{EventSentinelExitBuffering, true},
		{EventSentinelPause, true},
		{EventSentinelPauseFailure, true},
		{EventSentinelSeek, true},
		{EventSentinelSeekFailure, true},
		{EventSentinelComplete, true},
	}
	for _, tt := range tests {
		if got := tt.typ.IsSentinel(); got != tt.want {
			t.Errorf("%s.IsSentinel() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestEventType_IsFailure(t *testing.T) {
	for _, typ := range []EventType{EventSentinelPauseFailure, EventSentinelSeekFailure} {
		if !typ.IsFailure() {
			t.Errorf("%s.IsFailure() = false, want true", typ)
		}
	}
	for _, typ := range []EventType{EventSentinelPause, EventSentinelSeek, EventError} {
		if typ.IsFailure() {
			t.Errorf("%s.IsFailure() = true, want false", typ)
		}
	}
}

func TestTransitionError(t *testing.T) {
	err := error(&TransitionError{Op: "pause", State: StateStopped})

	if got, want := err.Error(), "cannot pause while in the 'STOPPED' state"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("errors.Is(err, ErrInvalidTransition) = false, want true")
	}
}
