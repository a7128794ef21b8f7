// internal/playback/state_test.go
package playback

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateEmpty, "EMPTY"},
		{StateStopped, "STOPPED"},
		{StateBuffering, "BUFFERING"},
		{StatePlaying, "PLAYING"},
		{StatePaused, "PAUSED"},
		{StateComplete, "COMPLETE"},
		{StateError, "ERROR"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateEmpty, false},
		{StateStopped, false},
		{StateBuffering, true},
		{StatePlaying, true},
		{StatePaused, true},
		{StateComplete, false},
		{StateError, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestState_HasMedia(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateEmpty, false},
		{StateStopped, false},
		{StateBuffering, true},
		{StatePlaying, true},
		{StatePaused, true},
		{StateComplete, true},
		{StateError, false},
	}
	for _, tt := range tests {
		if got := tt.state.HasMedia(); got != tt.want {
			t.Errorf("%v.HasMedia() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
