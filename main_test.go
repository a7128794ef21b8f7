package main

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/llehouerou/mediacore/internal/clock"
	"github.com/llehouerou/mediacore/internal/journal"
	"github.com/llehouerou/mediacore/internal/playback"
	"github.com/llehouerou/mediacore/internal/player"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(rootCmd.Flags())
	// Flags are shared with rootCmd; restore defaults between tests.
	t.Cleanup(func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestMediaFromFlags_Detected(t *testing.T) {
	cmd := newFlagCmd(t)

	media, err := mediaFromFlags(cmd, "/music/song.flac")
	if err != nil {
		t.Fatalf("mediaFromFlags: %v", err)
	}
	if media.Type != player.MediaAudio {
		t.Errorf("Type = %q, want audio", media.Type)
	}
	if media.MIMEType != "audio/flac" {
		t.Errorf("MIMEType = %q, want audio/flac", media.MIMEType)
	}
	if !media.Autoplay {
		t.Error("Autoplay should default to true")
	}
	if media.From.IsPresent() {
		t.Error("From should be unset")
	}
}

func TestMediaFromFlags_Overrides(t *testing.T) {
	cmd := newFlagCmd(t, "--type", "live-video", "--mime", "application/x-mpegurl", "--from", "42", "--paused")

	media, err := mediaFromFlags(cmd, "https://example.test/live")
	if err != nil {
		t.Fatalf("mediaFromFlags: %v", err)
	}
	if media.Type != player.MediaLiveVideo {
		t.Errorf("Type = %q, want live-video", media.Type)
	}
	if media.MIMEType != "application/x-mpegurl" {
		t.Errorf("MIMEType = %q", media.MIMEType)
	}
	if media.From != mo.Some(42.0) {
		t.Errorf("From = %v, want 42", media.From)
	}
	if media.Autoplay {
		t.Error("--paused should disable autoplay")
	}
}

func TestMediaFromFlags_InvalidType(t *testing.T) {
	cmd := newFlagCmd(t, "--type", "podcast")

	if _, err := mediaFromFlags(cmd, "/music/song.mp3"); err == nil {
		t.Error("expected error for unknown media type")
	}
}

func TestShutdown(t *testing.T) {
	mock := player.NewMock()
	p := playback.New(mock.Factory(), playback.Options{DisableSentinels: true, Clock: clock.NewFake(time.Unix(0, 0))})

	if err := shutdown(p); err != nil {
		t.Fatalf("shutdown from EMPTY: %v", err)
	}

	if err := p.InitialiseMedia(player.MediaAudio, "/music/song.mp3", "audio/mpeg", nil, playback.MediaOptions{}); err != nil {
		t.Fatalf("InitialiseMedia: %v", err)
	}
	if err := p.BeginPlayback(); err != nil {
		t.Fatalf("BeginPlayback: %v", err)
	}
	mock.SimulateFinishedBuffering()

	if err := shutdown(p); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if p.State() != playback.StateEmpty {
		t.Errorf("State = %v, want EMPTY", p.State())
	}
	if !mock.Closed() {
		t.Error("device should be closed")
	}
}

func TestFormatEntry(t *testing.T) {
	e := journal.Entry{
		Type:     playback.EventSentinelSeekFailure,
		State:    "PLAYING",
		Position: mo.Some(12.34),
		Message:  "gave up",
	}
	got := formatEntry(e)
	want := "sentinel-seek-failure      PLAYING   at 12.3s  gave up"
	if got != want {
		t.Errorf("formatEntry = %q, want %q", got, want)
	}
}
