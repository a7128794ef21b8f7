package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mediacore/internal/player"
)

func TestSentinel_OneTimerPerState(t *testing.T) {
	h := newHarness(t, Options{})
	h.init(player.MediaVideo)
	assert.Equal(t, 0, h.clk.Pending(), "no watchdog while stopped")

	h.dev.SimulateMetadata()
	require.NoError(t, h.p.BeginPlayback())
	assert.Equal(t, 1, h.clk.Pending())

	h.dev.SimulateFinishedBuffering()
	assert.Equal(t, 1, h.clk.Pending())

	require.NoError(t, h.p.Pause())
	assert.Equal(t, 1, h.clk.Pending())

	require.NoError(t, h.p.Stop())
	assert.Equal(t, 0, h.clk.Pending())
}

func TestSentinel_Disabled(t *testing.T) {
	t.Run("player option", func(t *testing.T) {
		h := newHarness(t, Options{DisableSentinels: true})
		h.playingAt(10)
		assert.Equal(t, 0, h.clk.Pending())

		h.tick()
		h.tick()
		assert.Empty(t, h.events)
	})

	t.Run("media option", func(t *testing.T) {
		h := newHarness(t, Options{})
		require.NoError(t, h.p.InitialiseMedia(player.MediaVideo, testURL, testMIME, nil,
			MediaOptions{DisableSentinels: true}))
		require.NoError(t, h.p.BeginPlayback())
		assert.Equal(t, 0, h.clk.Pending())
	})
}

func TestSentinel_ExitBufferingWhenTimeAdvances(t *testing.T) {
	h := newHarness(t, Options{})
	h.init(player.MediaVideo)
	require.NoError(t, h.p.BeginPlayback())
	h.clearEvents()

	h.dev.SetCurrentTime(1)
	h.tick()

	assert.Equal(t, StatePlaying, h.p.State())
	assert.Equal(t, []EventType{EventSentinelExitBuffering, EventPlaying}, h.types())
}

func TestSentinel_ExitBufferingWhenReadyAndDevicePaused(t *testing.T) {
	h := newHarness(t, Options{})
	h.init(player.MediaVideo)
	h.dev.SimulateMetadata()
	require.NoError(t, h.p.BeginPlayback())
	require.NoError(t, h.p.Pause())
	h.clearEvents()

	h.tick()
	assert.Equal(t, StatePaused, h.p.State())
	assert.Equal(t, []EventType{EventSentinelExitBuffering, EventPaused}, h.types())
}

func TestSentinel_StatusBeforeChecks(t *testing.T) {
	h := newHarness(t, Options{})
	h.playingAt(10)

	h.dev.AdvanceTime(1.1)
	h.tick()
	assert.Equal(t, []EventType{EventStatus}, h.types())
	assert.InDelta(t, 11.1, h.events[0].CurrentTime.OrEmpty(), 1e-9)
}

func TestSentinel_EnterBufferingAfterTwoStalledTicks(t *testing.T) {
	h := newHarness(t, Options{})
	h.playingAt(10)

	h.tick()
	assert.Equal(t, StatePlaying, h.p.State(), "one stalled tick is tolerated")
	assert.Zero(t, h.count(EventSentinelEnterBuffering))

	h.tick()
	assert.Equal(t, StateBuffering, h.p.State())
	assert.Equal(t, 1, h.count(EventSentinelEnterBuffering))
	tail := h.types()[len(h.types())-2:]
	assert.Equal(t, []EventType{EventSentinelEnterBuffering, EventBuffering}, tail)
}

func TestSentinel_SingleStallIsForgiven(t *testing.T) {
	h := newHarness(t, Options{})
	h.playingAt(10)

	h.tick()
	h.dev.AdvanceTime(1.1)
	h.tick()
	h.tick()

	assert.Equal(t, StatePlaying, h.p.State())
	assert.Zero(t, h.count(EventSentinelEnterBuffering))
}

func TestSentinel_ZeroTimeOnlyTrustedAfterFreshStart(t *testing.T) {
	t.Run("trusted from start", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.playingAt(0)

		h.tick()
		h.tick()
		assert.Equal(t, StateBuffering, h.p.State())
	})

	t.Run("ignored once the device moved", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.playingAt(5)

		h.tick()
		h.dev.SetCurrentTime(0)
		h.tick()
		h.tick()
		h.tick()
		assert.Equal(t, StatePlaying, h.p.State())
		assert.False(t, h.p.intent.TrustZeroes)
	})
}

func TestSentinel_EndOfMedia(t *testing.T) {
	h := newHarness(t, Options{})
	h.playingAt(99.5)

	h.tick()
	assert.Equal(t, StateComplete, h.p.State())
	assert.Equal(t, []EventType{EventStatus, EventSentinelComplete, EventComplete}, h.types())
	assert.Equal(t, 0, h.clk.Pending())
}

func TestSentinel_PauseGivesUpAfterTwoAttempts(t *testing.T) {
	h := newHarness(t, Options{})
	h.playingAt(10)
	h.dev.SetIgnorePause(true)

	require.NoError(t, h.p.Pause())
	h.dev.ResetCalls()

	for range 2 {
		h.dev.AdvanceTime(1)
		h.tick()
	}
	assert.Equal(t, 2, h.dev.CallCount("pause"))
	assert.Equal(t, 2, h.count(EventSentinelPause))
	assert.Zero(t, h.count(EventSentinelPauseFailure))

	h.dev.AdvanceTime(1)
	h.tick()
	assert.Equal(t, 2, h.dev.CallCount("pause"), "no pause on the third tick")
	assert.Equal(t, 1, h.count(EventSentinelPauseFailure))

	h.dev.AdvanceTime(1)
	h.tick()
	assert.Equal(t, 1, h.count(EventSentinelPauseFailure), "failure is raised once")
	assert.Equal(t, StatePaused, h.p.State())
}

func TestSentinel_PauseBudgetResetsOnExplicitPause(t *testing.T) {
	h := newHarness(t, Options{})
	h.playingAt(10)
	h.dev.SetIgnorePause(true)
	require.NoError(t, h.p.Pause())

	for range 3 {
		h.dev.AdvanceTime(1)
		h.tick()
	}
	require.Equal(t, 1, h.count(EventSentinelPauseFailure))

	require.NoError(t, h.p.Resume())
	require.NoError(t, h.p.Pause())
	h.clearEvents()

	h.dev.AdvanceTime(1)
	h.tick()
	assert.Equal(t, 1, h.count(EventSentinelPause))
}

func TestSentinel_SeekTolerance(t *testing.T) {
	tests := []struct {
		name     string
		media    player.MediaType
		target   float64
		drift    float64
		wantSeek bool
	}{
		{"live within tolerance", player.MediaLiveVideo, 1000, 29.9, false},
		{"live beyond tolerance", player.MediaLiveVideo, 1000, 30.1, true},
		{"on-demand within tolerance", player.MediaVideo, 50, 14.9, false},
		{"on-demand beyond tolerance", player.MediaVideo, 50, 15.1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			h.init(tt.media)
			h.dev.SetDuration(100)
			h.dev.SetSeekableRange(player.Range{Start: 0, End: 3600})
			require.NoError(t, h.p.BeginPlaybackFrom(tt.target))
			h.dev.SimulateMetadata()
			h.dev.SimulateFinishedBuffering()
			require.Equal(t, StatePlaying, h.p.State())
			h.dev.ResetCalls()
			h.clearEvents()

			h.dev.SetCurrentTime(tt.target - tt.drift)
			h.tick()

			if tt.wantSeek {
				assert.Equal(t, []float64{tt.target}, h.dev.SeekCalls())
				assert.Equal(t, 1, h.count(EventSentinelSeek))
			} else {
				assert.Empty(t, h.dev.SeekCalls())
				assert.Zero(t, h.count(EventSentinelSeek))
				assert.InDelta(t, tt.target-tt.drift, h.p.intent.SentinelSeek.OrEmpty(), 1e-9,
					"an early reading within tolerance is adopted")
			}
		})
	}
}

func TestSentinel_SeekTargetForgottenAfterSettling(t *testing.T) {
	h := newHarness(t, Options{})
	h.init(player.MediaVideo)
	h.dev.SetDuration(100)
	require.NoError(t, h.p.BeginPlaybackFrom(50))
	h.dev.SimulateMetadata()
	h.dev.SimulateFinishedBuffering()

	for range 3 {
		h.dev.AdvanceTime(1.1)
		h.tick()
	}
	assert.False(t, h.p.intent.SentinelSeek.IsPresent())
	assert.Zero(t, h.count(EventSentinelSeek))
}

func TestSentinel_SeekGivesUpAfterTwoAttempts(t *testing.T) {
	h := newHarness(t, Options{})
	h.init(player.MediaVideo)
	h.dev.SetDuration(100)
	require.NoError(t, h.p.BeginPlaybackFrom(50))
	h.dev.SimulateMetadata()
	h.dev.SimulateFinishedBuffering()
	require.Equal(t, StatePlaying, h.p.State())

	h.dev.SetIgnoreSeek(true)
	h.dev.ResetCalls()
	h.dev.SetCurrentTime(10)

	for range 3 {
		h.tick()
	}
	assert.Equal(t, []float64{50, 50}, h.dev.SeekCalls())
	assert.Equal(t, 2, h.count(EventSentinelSeek))
	assert.Equal(t, 1, h.count(EventSentinelSeekFailure))
	assert.Equal(t, StatePlaying, h.p.State())
}

func TestSentinel_SeekSentinelDisabled(t *testing.T) {
	h := newHarness(t, Options{DisableSeekSentinel: true})
	h.init(player.MediaVideo)
	h.dev.SetDuration(100)
	require.NoError(t, h.p.BeginPlaybackFrom(50))
	h.dev.SimulateMetadata()
	h.dev.SimulateFinishedBuffering()
	h.dev.ResetCalls()

	h.dev.SetCurrentTime(10)
	h.tick()
	assert.Empty(t, h.dev.SeekCalls())
}

func TestSentinel_StaleTickIgnored(t *testing.T) {
	h := newHarness(t, Options{})
	h.playingAt(10)
	epoch := h.p.sentinel.epoch

	require.NoError(t, h.p.Stop())
	h.clearEvents()
	h.p.onSentinelTick(epoch)
	assert.Empty(t, h.events)
}

func TestSeekFinished(t *testing.T) {
	h := newHarness(t, Options{})
	h.init(player.MediaVideo)
	h.dev.SetDuration(100)
	require.NoError(t, h.p.BeginPlaybackFrom(20))
	h.dev.SimulateMetadata()
	h.dev.SimulateFinishedBuffering()

	for range 4 {
		h.dev.SimulateProgress()
	}
	assert.Zero(t, h.count(EventSeekFinished))

	h.dev.SimulateProgress()
	assert.Equal(t, 1, h.count(EventSeekFinished))

	for range 10 {
		h.dev.SimulateProgress()
	}
	assert.Equal(t, 1, h.count(EventSeekFinished), "reported once per media")
}

func TestSeekFinished_AwayFromStartResetsCount(t *testing.T) {
	h := newHarness(t, Options{})
	h.init(player.MediaVideo)
	h.dev.SetDuration(100)
	require.NoError(t, h.p.BeginPlaybackFrom(20))
	h.dev.SimulateMetadata()
	h.dev.SimulateFinishedBuffering()

	for range 3 {
		h.dev.SimulateProgress()
	}
	h.dev.SetCurrentTime(80)
	h.dev.SimulateProgress()
	h.dev.SetCurrentTime(21)
	for range 4 {
		h.dev.SimulateProgress()
	}
	assert.Zero(t, h.count(EventSeekFinished))

	h.dev.SimulateProgress()
	assert.Equal(t, 1, h.count(EventSeekFinished))
}

func TestSeekFinished_WaitsForRestartTimeout(t *testing.T) {
	h := newHarness(t, Options{DisableSentinels: true, RestartTimeout: 5 * time.Second})
	h.init(player.MediaVideo)
	h.dev.SetDuration(100)
	require.NoError(t, h.p.BeginPlaybackFrom(20))
	h.dev.SimulateMetadata()
	h.dev.SimulateFinishedBuffering()

	for range 6 {
		h.dev.SimulateProgress()
	}
	assert.Zero(t, h.count(EventSeekFinished))

	h.clk.Advance(5 * time.Second)
	h.dev.SimulateProgress()
	assert.Equal(t, 1, h.count(EventSeekFinished))
}

func TestSeekFinished_ResetClearsTimer(t *testing.T) {
	h := newHarness(t, Options{RestartTimeout: 5 * time.Second})
	h.init(player.MediaVideo)
	assert.Equal(t, 1, h.clk.Pending())

	require.NoError(t, h.p.Reset())
	assert.Equal(t, 0, h.clk.Pending())
	assert.False(t, h.p.seek.attempted)
}
