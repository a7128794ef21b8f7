package playback

import "github.com/llehouerou/mediacore/internal/clock"

// seekWatch confirms that playback actually started where it was asked
// to. It arms on InitialiseMedia and reports at most once per media.
type seekWatch struct {
	attempted      bool
	timeoutElapsed bool
	consecutive    int
	timer          clock.Timer
}

func (p *Player) startSeekWatch() {
	p.stopSeekWatch()
	p.seek.attempted = true
	p.emit(EventSeekAttempted)

	if p.opts.RestartTimeout <= 0 {
		p.seek.timeoutElapsed = true
		return
	}
	gen := p.gen
	p.seek.timer = p.clock.AfterFunc(p.opts.RestartTimeout, func() {
		p.lock()
		defer p.unlock()
		if p.gen == gen {
			p.seek.timeoutElapsed = true
		}
	})
}

func (p *Player) stopSeekWatch() {
	if p.seek.timer != nil {
		p.seek.timer.Stop()
	}
	p.seek = seekWatch{}
}

func (p *Player) checkSeekFinished() {
	w := &p.seek
	if !w.attempted {
		return
	}
	if p.state != StatePlaying || !p.atStartPoint() {
		w.consecutive = 0
		return
	}
	w.consecutive++
	if w.consecutive >= seekFinishedStatusTicks && w.timeoutElapsed {
		w.attempted = false
		p.emit(EventSeekFinished)
	}
}

func (p *Player) atStartPoint() bool {
	start, ok := p.intent.StartPoint.Get()
	if !ok {
		return true
	}
	return withinTolerance(p.device.CurrentTime(), start, p.seekTolerance())
}
