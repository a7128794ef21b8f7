package playback

import "github.com/llehouerou/mediacore/internal/errmsg"

// deviceListener forwards native device notifications into the Player.
// Each device gets its own listener; notifications from a device that
// has since been replaced are dropped.
type deviceListener struct {
	p   *Player
	gen uint64
}

func (l *deviceListener) with(fn func(p *Player)) {
	p := l.p
	p.lock()
	defer p.unlock()
	if p.gen != l.gen || p.device == nil {
		return
	}
	fn(p)
}

func (l *deviceListener) FinishedBuffering() {
	l.with(func(p *Player) { p.exitBuffering() })
}

func (l *deviceListener) Waiting() {
	l.with(func(p *Player) {
		if p.state == StatePlaying {
			p.toBuffering()
		}
	})
}

func (l *deviceListener) LoadedMetadata() {
	l.with(func(p *Player) { p.metadataLoaded() })
}

func (l *deviceListener) Ended() {
	l.with(func(p *Player) {
		if p.state.IsActive() {
			p.toComplete()
		}
	})
}

func (l *deviceListener) Progress() {
	l.with(func(p *Player) {
		if p.state == StatePlaying {
			p.emitStatus()
		}
	})
}

func (l *deviceListener) DevicePaused() {
	l.with(func(p *Player) {
		if p.intent.IgnoreNextPause {
			p.intent.IgnoreNextPause = false
			return
		}
		if p.state == StatePlaying || p.state == StateBuffering {
			p.toPaused()
		}
	})
}

func (l *deviceListener) Error(code int, message string) {
	l.with(func(p *Player) {
		p.reportError(code, errmsg.DeviceError(code, message))
	})
}
