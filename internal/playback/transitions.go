package playback

import (
	"github.com/samber/mo"

	"github.com/llehouerou/mediacore/internal/player"
)

// invalid moves to StateError and returns the error for op.
func (p *Player) invalid(op string) error {
	err := &TransitionError{Op: op, State: p.state}
	p.toError(err.Error())
	return err
}

func (p *Player) toStopped() {
	p.state = StateStopped
	p.intent.SeekTarget = mo.None[float64]()
	p.intent.SentinelSeek = mo.None[float64]()
	p.emit(EventStopped)
	p.clearSentinels()
}

func (p *Player) toBuffering() {
	p.state = StateBuffering
	p.emit(EventBuffering)
	p.setSentinels(sentinelExitBuffering)
}

func (p *Player) toPlaying() {
	p.state = StatePlaying
	p.emit(EventPlaying)
	p.setSentinels(sentinelEndOfMedia, sentinelShouldBeSeeked, sentinelEnterBuffering)
}

func (p *Player) toPaused() {
	p.state = StatePaused
	p.emit(EventPaused)
	p.setSentinels(sentinelShouldBePaused, sentinelShouldBeSeeked)
}

func (p *Player) toComplete() {
	p.state = StateComplete
	p.emit(EventComplete)
	p.clearSentinels()
}

func (p *Player) toEmpty() {
	p.wipe()
	p.state = StateEmpty
}

// toError discards the device and reports message. The error event still
// names the media that failed.
func (p *Player) toError(message string) {
	url, mimeType := p.media.URL, p.media.MIMEType
	p.wipe()
	p.state = StateError
	p.logError(0, message)
	p.emitEvent(Event{Type: EventError, ErrorMessage: message, URL: url, MIMEType: mimeType})
}

// wipe discards the device and everything learned about it.
func (p *Player) wipe() {
	p.clearSentinels()
	p.stopSeekWatch()
	if p.device != nil {
		p.closing = append(p.closing, p.device)
	}
	p.device = nil
	p.gen++
	p.media = player.Media{}
	p.intent = newIntent()
	p.readyToPlayFrom = false
	p.disableSentinels = false
	p.disableSeekSentinel = false
}
