package playback

import (
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mediacore/internal/clock"
)

type sentinelKind int

const (
	sentinelExitBuffering sentinelKind = iota
	sentinelEndOfMedia
	sentinelShouldBeSeeked
	sentinelEnterBuffering
	sentinelShouldBePaused
)

func (k sentinelKind) String() string {
	switch k {
	case sentinelExitBuffering:
		return "exit-buffering"
	case sentinelEndOfMedia:
		return "end-of-media"
	case sentinelShouldBeSeeked:
		return "should-be-seeked"
	case sentinelEnterBuffering:
		return "enter-buffering"
	case sentinelShouldBePaused:
		return "should-be-paused"
	default:
		return "unknown"
	}
}

// attemptCounter bounds how often one corrective action is retried.
// Installing a new check set does not reset it; only the API call that
// asks for the condition does.
type attemptCounter struct {
	attempts int
	max      int
	success  EventType
	failure  EventType
}

func (c *attemptCounter) reset() {
	c.attempts = 0
}

// sentinel is the watchdog comparing the device against the Player's
// intent on every tick.
type sentinel struct {
	timer clock.Timer
	// epoch invalidates ticks from a timer that has been replaced.
	epoch  uint64
	checks []sentinelKind

	tick         int
	lastTime     float64
	timeAdvanced bool
	nearEnd      bool
	stalledTicks int

	pause attemptCounter
	seek  attemptCounter
}

func newSentinel() sentinel {
	return sentinel{
		pause: attemptCounter{
			max:     maxSentinelAttempts,
			success: EventSentinelPause,
			failure: EventSentinelPauseFailure,
		},
		seek: attemptCounter{
			max:     maxSentinelAttempts,
			success: EventSentinelSeek,
			failure: EventSentinelSeekFailure,
		},
	}
}

func (p *Player) setSentinels(checks ...sentinelKind) {
	p.clearSentinels()
	if p.disableSentinels || p.device == nil || len(checks) == 0 {
		return
	}
	s := &p.sentinel
	s.checks = checks
	s.tick = 0
	s.lastTime = p.device.CurrentTime()
	epoch := s.epoch
	s.timer = p.clock.Every(p.opts.SentinelInterval, func() {
		p.onSentinelTick(epoch)
	})
}

func (p *Player) clearSentinels() {
	s := &p.sentinel
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.epoch++
	s.checks = nil
	s.stalledTicks = 0
}

func (p *Player) sentinelsRunning() bool {
	return p.sentinel.timer != nil
}

func (p *Player) onSentinelTick(epoch uint64) {
	p.lock()
	defer p.unlock()

	s := &p.sentinel
	if s.epoch != epoch || p.device == nil {
		return
	}

	s.tick++
	tick := s.tick
	newTime := p.device.CurrentTime()
	s.timeAdvanced = timeHasAdvanced(newTime, s.lastTime)
	// A zero reading says nothing about the end; judge from the last one.
	ref := newTime
	if ref == 0 {
		ref = s.lastTime
	}
	s.nearEnd = false
	if d, ok := p.durationLocked().Get(); ok {
		s.nearEnd = isNearEnd(d, ref)
	}
	s.lastTime = newTime

	if p.state == StatePlaying {
		p.emitStatus()
	}

	checks := s.checks
	for _, kind := range checks {
		acted := p.runSentinel(kind)
		if p.device != nil && p.device.CurrentTime() > 0 {
			p.intent.TrustZeroes = false
		}
		if acted {
			p.log.WithFields(logrus.Fields{
				"sentinel": kind,
				"tick":     tick,
				"time":     newTime,
			}).Info("sentinel fired")
			break
		}
	}
}

func (p *Player) runSentinel(kind sentinelKind) bool {
	switch kind {
	case sentinelExitBuffering:
		return p.exitBufferingSentinel()
	case sentinelEndOfMedia:
		return p.endOfMediaSentinel()
	case sentinelShouldBeSeeked:
		return p.shouldBeSeekedSentinel()
	case sentinelEnterBuffering:
		return p.enterBufferingSentinel()
	case sentinelShouldBePaused:
		return p.shouldBePausedSentinel()
	default:
		return false
	}
}

func (p *Player) exitBufferingSentinel() bool {
	if (p.readyToPlayFrom && p.device.IsPaused()) || p.sentinel.timeAdvanced {
		p.emit(EventSentinelExitBuffering)
		p.exitBuffering()
		return true
	}
	return false
}

func (p *Player) endOfMediaSentinel() bool {
	if !p.sentinel.timeAdvanced && p.sentinel.nearEnd {
		p.emit(EventSentinelComplete)
		p.toComplete()
		return true
	}
	return false
}

func (p *Player) shouldBeSeekedSentinel() bool {
	if p.disableSeekSentinel {
		return false
	}
	target, ok := p.intent.SentinelSeek.Get()
	if !ok {
		return false
	}
	current := p.device.CurrentTime()
	if !withinTolerance(current, target, p.seekTolerance()) {
		return p.attempt(&p.sentinel.seek, func() { p.seekTo(target) })
	}
	if p.sentinel.tick < seekSettleTicks {
		// Close enough early on: follow the device instead of fighting it.
		p.intent.SentinelSeek = mo.Some(current)
	} else {
		p.intent.SentinelSeek = mo.None[float64]()
	}
	return false
}

func (p *Player) enterBufferingSentinel() bool {
	s := &p.sentinel
	stalled := !s.timeAdvanced && !s.nearEnd
	if p.device.CurrentTime() == 0 {
		stalled = stalled && p.intent.TrustZeroes
	}
	if stalled {
		s.stalledTicks++
	} else {
		s.stalledTicks = 0
	}
	// One stalled tick is not enough.
	if !stalled || s.stalledTicks == 1 {
		return false
	}
	p.emit(EventSentinelEnterBuffering)
	p.toBuffering()
	s.stalledTicks = 0
	return true
}

func (p *Player) shouldBePausedSentinel() bool {
	if !p.sentinel.timeAdvanced {
		return false
	}
	return p.attempt(&p.sentinel.pause, p.pauseDevice)
}

// attempt runs action while the counter has budget left. The failure
// event is raised once, on the first attempt past the budget.
func (p *Player) attempt(c *attemptCounter, action func()) bool {
	c.attempts++
	if c.attempts == c.max+1 {
		p.log.WithFields(logrus.Fields{
			"event":    c.failure,
			"attempts": c.max,
		}).Warn("sentinel giving up")
		p.emit(c.failure)
	}
	if c.attempts <= c.max {
		action()
		p.emit(c.success)
		return true
	}
	return false
}
