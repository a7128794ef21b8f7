// internal/playback/machine.go
package playback

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mediacore/internal/clock"
	"github.com/llehouerou/mediacore/internal/errmsg"
	"github.com/llehouerou/mediacore/internal/player"
)

// Player drives one playback device through the lifecycle described on
// State. API calls, device callbacks and watchdog ticks are serialized by
// a single mutex. Events raised while it is held are queued and delivered
// in order once it is released, so callbacks may call back into the
// Player.
type Player struct {
	mu sync.Mutex

	opts    Options
	factory player.Factory
	clock   clock.Clock
	log     logrus.FieldLogger
	bus     Bus

	state  State
	media  player.Media
	device player.Device
	// gen changes whenever the device is replaced or discarded, so
	// callbacks and timers tied to an older device are ignored.
	gen uint64

	readyToPlayFrom     bool
	disableSentinels    bool
	disableSeekSentinel bool

	intent   Intent
	sentinel sentinel
	seek     seekWatch

	queue    []Event
	flushing bool
	// closing holds discarded devices. They are closed once the mutex is
	// released, since a device may wait on a goroutine that is calling
	// back into the Player.
	closing []player.Device
}

// New creates a Player in StateEmpty. factory builds the device for each
// InitialiseMedia call.
func New(factory player.Factory, opts Options) *Player {
	opts = opts.withDefaults()
	return &Player{
		opts:     opts,
		factory:  factory,
		clock:    opts.Clock,
		log:      opts.Logger,
		state:    StateEmpty,
		intent:   newIntent(),
		sentinel: newSentinel(),
	}
}

func (p *Player) lock() {
	p.mu.Lock()
}

// unlock releases the mutex, delivers queued events and closes discarded
// devices. Only the outermost caller drains; nested calls from callbacks
// leave the work to it.
func (p *Player) unlock() {
	if p.flushing {
		p.mu.Unlock()
		return
	}
	p.flushing = true
	for len(p.queue) > 0 {
		e := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()
		p.bus.Publish(e)
		p.mu.Lock()
	}
	p.queue = nil
	closing := p.closing
	p.closing = nil
	p.flushing = false
	p.mu.Unlock()

	for _, d := range closing {
		if err := d.Close(); err != nil {
			p.log.WithError(err).Warn(string(errmsg.OpDeviceClose))
		}
	}
}

// InitialiseMedia builds a device for the media and moves to StateStopped.
// It is only valid from StateEmpty.
func (p *Player) InitialiseMedia(
	mediaType player.MediaType,
	url, mimeType string,
	container any,
	opts MediaOptions,
) error {
	p.lock()
	defer p.unlock()

	if p.state != StateEmpty {
		return p.invalid("initialiseMedia")
	}
	if !mediaType.Valid() {
		err := fmt.Errorf("unknown media type %q", mediaType)
		p.toError(errmsg.FormatWith(errmsg.OpDeviceCreate, url, err))
		return err
	}

	p.media = player.Media{Type: mediaType, URL: url, MIMEType: mimeType, Container: container}
	p.disableSentinels = p.opts.DisableSentinels || opts.DisableSentinels
	p.disableSeekSentinel = p.opts.DisableSeekSentinel || opts.DisableSeekSentinel
	p.intent = newIntent()
	p.readyToPlayFrom = false
	p.gen++

	dev, err := p.factory(p.media, &deviceListener{p: p, gen: p.gen})
	if err != nil {
		p.toError(errmsg.FormatWith(errmsg.OpDeviceCreate, url, err))
		return fmt.Errorf("create device: %w", err)
	}
	p.device = dev

	p.log.WithFields(logrus.Fields{
		"type": mediaType,
		"url":  url,
		"mime": mimeType,
	}).Info("media initialised")

	p.startSeekWatch()
	p.toStopped()
	return nil
}

// BeginPlayback starts playback from the device's natural start point.
func (p *Player) BeginPlayback() error {
	p.lock()
	defer p.unlock()

	if p.state != StateStopped {
		return p.invalid("beginPlayback")
	}
	p.intent.PostBuffering = StatePlaying
	p.intent.SentinelSeek = mo.None[float64]()
	p.intent.TrustZeroes = true
	p.toBuffering()
	p.devicePlay()
	return nil
}

// BeginPlaybackFrom starts playback at seconds. The seek is deferred
// until the device has loaded metadata.
func (p *Player) BeginPlaybackFrom(seconds float64) error {
	p.lock()
	defer p.unlock()

	if p.state != StateStopped {
		return p.invalid("beginPlaybackFrom")
	}
	p.requestPlayFrom(seconds)
	p.intent.TrustZeroes = true
	p.toBuffering()
	p.playFromIfReady()
	return nil
}

// PlayFrom seeks to seconds and plays.
func (p *Player) PlayFrom(seconds float64) error {
	p.lock()
	defer p.unlock()

	switch p.state {
	case StatePaused, StateComplete:
		p.requestPlayFrom(seconds)
		p.intent.TrustZeroes = true
		p.toBuffering()
		p.playFromIfReady()

	case StateBuffering:
		p.requestPlayFrom(seconds)
		p.playFromIfReady()

	case StatePlaying:
		p.intent.PostBuffering = StatePlaying
		p.intent.TrustZeroes = true
		target := p.clampForPlayFrom(seconds)
		if withinTolerance(p.device.CurrentTime(), target, currentTimeTolerance) {
			// Already there; the device is not asked to seek.
			p.intent.SeekTarget = mo.None[float64]()
			p.toBuffering()
			p.toPlaying()
			return nil
		}
		p.sentinel.seek.reset()
		p.intent.SeekTarget = mo.Some(target)
		p.toBuffering()
		p.playFromIfReady()

	default:
		return p.invalid("playFrom")
	}
	return nil
}

// Pause pauses playback. Pausing while buffering takes effect once
// buffering ends.
func (p *Player) Pause() error {
	p.lock()
	defer p.unlock()

	switch p.state {
	case StatePaused:
	case StateBuffering:
		p.intent.PostBuffering = StatePaused
		p.sentinel.pause.reset()
		if p.readyToPlayFrom {
			p.pauseDevice()
		}
	case StatePlaying:
		p.intent.PostBuffering = StatePaused
		p.sentinel.pause.reset()
		p.pauseDevice()
		p.toPaused()
	default:
		return p.invalid("pause")
	}
	return nil
}

// Resume continues paused playback.
func (p *Player) Resume() error {
	p.lock()
	defer p.unlock()

	switch p.state {
	case StatePlaying:
	case StateBuffering:
		p.intent.PostBuffering = StatePlaying
		if p.readyToPlayFrom {
			p.devicePlay()
		}
	case StatePaused:
		p.intent.PostBuffering = StatePlaying
		p.devicePlay()
		p.toPlaying()
	default:
		return p.invalid("resume")
	}
	return nil
}

// Stop halts the device and returns to StateStopped.
func (p *Player) Stop() error {
	p.lock()
	defer p.unlock()

	switch p.state {
	case StateStopped:
	case StateBuffering, StatePlaying, StatePaused, StateComplete:
		p.deviceStop()
		p.toStopped()
	default:
		return p.invalid("stop")
	}
	return nil
}

// Reset discards the device and returns to StateEmpty.
func (p *Player) Reset() error {
	p.lock()
	defer p.unlock()

	switch p.state {
	case StateEmpty:
	case StateStopped, StateError:
		p.toEmpty()
	default:
		return p.invalid("reset")
	}
	return nil
}

// State returns the current state.
func (p *Player) State() State {
	p.lock()
	defer p.unlock()
	return p.state
}

// CurrentTime returns the device position in seconds while media is
// loaded and playback has begun.
func (p *Player) CurrentTime() mo.Option[float64] {
	p.lock()
	defer p.unlock()
	return p.currentTimeLocked()
}

// Duration returns the media duration. Live media reports +Inf.
func (p *Player) Duration() mo.Option[float64] {
	p.lock()
	defer p.unlock()
	return p.durationLocked()
}

// SeekableRange returns the range the device can seek within.
func (p *Player) SeekableRange() mo.Option[player.Range] {
	p.lock()
	defer p.unlock()
	return p.seekableRangeLocked()
}

// Source returns the URL of the initialised media.
func (p *Player) Source() string {
	p.lock()
	defer p.unlock()
	return p.media.URL
}

// MIMEType returns the MIME type of the initialised media.
func (p *Player) MIMEType() string {
	p.lock()
	defer p.unlock()
	return p.media.MIMEType
}

// MediaType returns the type of the initialised media.
func (p *Player) MediaType() player.MediaType {
	p.lock()
	defer p.unlock()
	return p.media.Type
}

// PlayerElement returns the underlying device, or nil when none exists.
func (p *Player) PlayerElement() player.Device {
	p.lock()
	defer p.unlock()
	return p.device
}

// AddEventCallback registers cb until ctx is done or the token is removed.
func (p *Player) AddEventCallback(ctx context.Context, cb Callback) Token {
	return p.bus.SubscribeContext(ctx, cb)
}

// RemoveEventCallback unregisters a callback.
func (p *Player) RemoveEventCallback(tok Token) bool {
	return p.bus.Unsubscribe(tok)
}

// RemoveAllEventCallbacks unregisters every callback.
func (p *Player) RemoveAllEventCallbacks() {
	p.bus.Clear()
}

// Subscribe returns a channel-based subscription. Close it when done.
func (p *Player) Subscribe() *Subscription {
	sub := newSubscription()
	tok := p.bus.Subscribe(sub.send)
	sub.cancel = func() { p.bus.Unsubscribe(tok) }
	return sub
}

func (p *Player) currentTimeLocked() mo.Option[float64] {
	if !p.state.HasMedia() || p.device == nil {
		return mo.None[float64]()
	}
	return mo.Some(p.device.CurrentTime())
}

func (p *Player) durationLocked() mo.Option[float64] {
	if !p.state.HasMedia() || p.device == nil {
		return mo.None[float64]()
	}
	if p.media.Type.IsLive() {
		return mo.Some(math.Inf(1))
	}
	if !p.readyToPlayFrom {
		return mo.None[float64]()
	}
	if d, ok := p.device.Duration(); ok {
		return mo.Some(d)
	}
	return mo.None[float64]()
}

func (p *Player) seekableRangeLocked() mo.Option[player.Range] {
	if !p.state.HasMedia() {
		return mo.None[player.Range]()
	}
	return p.deviceRange()
}

// deviceRange prefers the device's seekable range and falls back to
// [0, duration].
func (p *Player) deviceRange() mo.Option[player.Range] {
	if p.device == nil {
		return mo.None[player.Range]()
	}
	if p.readyToPlayFrom {
		if r, ok := p.device.SeekableRange(); ok {
			return mo.Some(r)
		}
	}
	if d, ok := p.device.Duration(); ok {
		return mo.Some(player.Range{Start: 0, End: d})
	}
	return mo.None[player.Range]()
}

func (p *Player) clampForPlayFrom(seconds float64) float64 {
	r, ok := p.deviceRange().Get()
	if !ok {
		return seconds
	}
	clamped := clampTime(seconds, r, p.opts.ClampOffset)
	if clamped != seconds {
		p.log.WithFields(logrus.Fields{
			"requested": seconds,
			"clamped":   clamped,
			"start":     r.Start,
			"end":       r.End,
		}).Debug("play-from target clamped to seekable range")
	}
	return clamped
}

func (p *Player) seekTolerance() float64 {
	return seekTolerance(p.media.Type)
}

// requestPlayFrom records a new play-from target. The seek retry budget
// starts over for every fresh request.
func (p *Player) requestPlayFrom(seconds float64) {
	p.intent.PostBuffering = StatePlaying
	p.intent.SeekTarget = mo.Some(seconds)
	p.sentinel.seek.reset()
}

func (p *Player) playFromIfReady() {
	if p.readyToPlayFrom && p.intent.SeekTarget.IsPresent() {
		p.deferredPlayFrom()
	}
}

func (p *Player) deferredPlayFrom() {
	target, _ := p.intent.SeekTarget.Get()
	p.intent.StartPoint = mo.Some(p.seekTo(target))
	p.devicePlay()
	if p.intent.PostBuffering == StatePaused {
		p.pauseDevice()
	}
	p.intent.SeekTarget = mo.None[float64]()
}

func (p *Player) metadataLoaded() {
	p.readyToPlayFrom = true
	if p.intent.SeekTarget.IsPresent() {
		p.deferredPlayFrom()
	}
}

func (p *Player) exitBuffering() {
	p.metadataLoaded()
	if p.state != StateBuffering {
		return
	}
	if p.intent.PostBuffering == StatePaused {
		p.toPaused()
	} else {
		p.toPlaying()
	}
}

// Device commands. Failures are reported as error events; the state is
// left for the watchdog and later callbacks to reconcile.

func (p *Player) seekTo(seconds float64) float64 {
	clamped := p.clampForPlayFrom(seconds)
	if err := p.device.Seek(clamped); err != nil {
		p.reportError(0, errmsg.Format(errmsg.OpDeviceSeek, err))
	}
	p.intent.SentinelSeek = mo.Some(clamped)
	return clamped
}

func (p *Player) devicePlay() {
	if err := p.device.Play(); err != nil {
		p.reportError(0, errmsg.Format(errmsg.OpDevicePlay, err))
	}
}

func (p *Player) pauseDevice() {
	p.intent.IgnoreNextPause = true
	if err := p.device.Pause(); err != nil {
		p.reportError(0, errmsg.Format(errmsg.OpDevicePause, err))
	}
}

func (p *Player) deviceStop() {
	p.intent.IgnoreNextPause = true
	if err := p.device.Stop(); err != nil {
		p.reportError(0, errmsg.Format(errmsg.OpDeviceStop, err))
	}
}

func (p *Player) reportError(code int, message string) {
	p.logError(code, message)
	p.emitEvent(Event{Type: EventError, ErrorCode: code, ErrorMessage: message})
}

func (p *Player) logError(code int, message string) {
	p.log.WithFields(logrus.Fields{
		"code":  code,
		"state": p.state,
	}).Error(message)
}

func (p *Player) emit(t EventType) {
	p.emitEvent(Event{Type: t})
}

func (p *Player) emitEvent(e Event) {
	e.CurrentTime = p.currentTimeLocked()
	e.SeekableRange = p.seekableRangeLocked()
	e.Duration = p.durationLocked()
	if e.URL == "" {
		e.URL = p.media.URL
		e.MIMEType = p.media.MIMEType
	}
	e.State = p.state
	p.queue = append(p.queue, e)
}

// emitStatus raises a status event and feeds the seek-finished tracker.
func (p *Player) emitStatus() {
	p.emit(EventStatus)
	p.checkSeekFinished()
}
