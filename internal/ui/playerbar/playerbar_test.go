package playerbar

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/samber/mo"

	"github.com/llehouerou/mediacore/internal/playback"
	"github.com/llehouerou/mediacore/internal/player"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{83, "1:23"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-3, "0:00"},
		{math.NaN(), "0:00"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestStateRatio(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  float64
	}{
		{"half", State{Position: 50, Duration: mo.Some(100.0)}, 0.5},
		{"unknown duration", State{Position: 50, Duration: mo.None[float64]()}, 0},
		{"zero duration", State{Position: 50, Duration: mo.Some(0.0)}, 0},
		{"past end", State{Position: 150, Duration: mo.Some(100.0)}, 1},
		{"infinite", State{Position: 50, Duration: mo.Some(math.Inf(1))}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Ratio(); got != tt.want {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateLive(t *testing.T) {
	if !(State{Type: player.MediaLiveAudio}).Live() {
		t.Error("live-audio should be live")
	}
	if !(State{Type: player.MediaAudio, Duration: mo.Some(math.Inf(1))}).Live() {
		t.Error("infinite duration should be live")
	}
	if (State{Type: player.MediaVideo, Duration: mo.Some(60.0)}).Live() {
		t.Error("bounded video should not be live")
	}
}

func TestRenderProgress(t *testing.T) {
	bar := progress.New(progress.WithoutPercentage())

	s := State{Type: player.MediaAudio, Position: 83, Duration: mo.Some(296.0)}
	got := RenderProgress(s, bar, 40)
	if !strings.HasPrefix(got, "1:23") || !strings.HasSuffix(got, "4:56") {
		t.Errorf("RenderProgress = %q, want 1:23 ... 4:56", got)
	}

	narrow := RenderProgress(s, bar, 8)
	if narrow != "1:23 / 4:56" {
		t.Errorf("narrow RenderProgress = %q", narrow)
	}

	unknown := RenderProgress(State{Type: player.MediaAudio, Position: 3}, bar, 8)
	if unknown != "0:03 / --:--" {
		t.Errorf("unknown duration RenderProgress = %q", unknown)
	}

	live := RenderProgress(State{Type: player.MediaLiveAudio, Position: 65}, bar, 40)
	if !strings.HasPrefix(live, "1:05") || !strings.Contains(live, "LIVE") {
		t.Errorf("live RenderProgress = %q", live)
	}
}

func TestNewState(t *testing.T) {
	mock := player.NewMock()
	p := playback.New(mock.Factory(), playback.Options{DisableSentinels: true})

	s := NewState(p)
	if s.Player != playback.StateEmpty || s.Title != "No media" {
		t.Errorf("empty state = %+v", s)
	}

	if err := p.InitialiseMedia(player.MediaAudio, "file:///music/song.mp3", "audio/mpeg", nil, playback.MediaOptions{}); err != nil {
		t.Fatalf("InitialiseMedia: %v", err)
	}
	mock.SetDuration(120)
	mock.SetCurrentTime(30)

	s = NewState(p)
	if s.Player != playback.StateStopped {
		t.Errorf("Player = %v, want STOPPED", s.Player)
	}
	if s.Title != "song.mp3" {
		t.Errorf("Title = %q, want song.mp3", s.Title)
	}
	if s.Type != player.MediaAudio {
		t.Errorf("Type = %q", s.Type)
	}
}

func TestRender(t *testing.T) {
	s := State{Player: playback.StatePlaying, Title: "song.mp3", Type: player.MediaAudio, Position: 10, Duration: mo.Some(100.0)}
	out := Render(s, progress.New(progress.WithoutPercentage()), 60)

	if !strings.Contains(out, "PLAYING") {
		t.Errorf("Render missing state label:\n%s", out)
	}
	if !strings.Contains(out, "song.mp3") {
		t.Errorf("Render missing title:\n%s", out)
	}
}

func TestRender_TruncatesLongTitle(t *testing.T) {
	long := strings.Repeat("a", 200) + ".mp3"
	s := State{Player: playback.StatePaused, Title: long, Type: player.MediaAudio, Duration: mo.Some(100.0)}
	out := Render(s, progress.New(progress.WithoutPercentage()), 60)

	if strings.Contains(out, long) {
		t.Error("Render kept the full title, want it truncated")
	}
	if !strings.Contains(out, "...") {
		t.Errorf("Render missing truncation tail:\n%s", out)
	}
}
