package playback

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mediacore/internal/clock"
)

const (
	// DefaultSentinelInterval is the watchdog tick period.
	DefaultSentinelInterval = 1100 * time.Millisecond
	// DefaultClampOffset keeps seeks this many seconds before the end
	// of the seekable range.
	DefaultClampOffset = 1.1

	seekToleranceOnDemand = 15.0
	seekToleranceLive     = 30.0
	timeAdvanceTolerance  = 0.2
	nearEndWindow         = 1.0
	currentTimeTolerance  = 1.0

	maxSentinelAttempts     = 2
	seekFinishedStatusTicks = 5
	// The seek sentinel adopts the device position while the tick
	// number is below this.
	seekSettleTicks = 3
)

// Options configures a Player. The zero value is usable.
type Options struct {
	// DisableSentinels suppresses the whole watchdog.
	DisableSentinels bool
	// DisableSeekSentinel suppresses only seek reconciliation.
	DisableSeekSentinel bool
	// RestartTimeout delays seek-finished eligibility after initialiseMedia.
	RestartTimeout time.Duration
	// SentinelInterval overrides DefaultSentinelInterval when positive.
	SentinelInterval time.Duration
	// ClampOffset overrides DefaultClampOffset when positive.
	ClampOffset float64

	Clock  clock.Clock
	Logger logrus.FieldLogger
}

// MediaOptions are per-media overrides given to InitialiseMedia.
// They can only disable sentinels, never re-enable ones Options disabled.
type MediaOptions struct {
	DisableSentinels    bool
	DisableSeekSentinel bool
}

func (o Options) withDefaults() Options {
	if o.SentinelInterval <= 0 {
		o.SentinelInterval = DefaultSentinelInterval
	}
	if o.ClampOffset <= 0 {
		o.ClampOffset = DefaultClampOffset
	}
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}
