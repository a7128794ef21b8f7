//go:build libmpv

package player

import (
	"errors"
	"fmt"
	"math"
	"sync"

	mpv "github.com/gen2brain/go-mpv"
)

const (
	mpvPauseProperty    = "pause"
	mpvPositionProperty = "time-pos"
	mpvDurationProperty = "duration"
	mpvCacheProperty    = "paused-for-cache"
	mpvSeekableStart    = "seekable-ranges/0/start"
	mpvSeekableEnd      = "seekable-ranges/0/end"
)

// observed property reply IDs
const (
	observePosition uint64 = iota + 1
	observePause
	observeCache
)

type mpvDevice struct {
	mu       sync.Mutex
	client   *mpv.Mpv
	listener Listener
	paused   bool

	notifyCh    chan func(Listener)
	done        chan struct{}
	closeOnce   sync.Once
	eventLoopWG sync.WaitGroup
}

// MPVFactory creates a libmpv-backed device and starts loading media.URL.
func MPVFactory(media Media, l Listener) (Device, error) {
	client := mpv.New()
	if client == nil {
		return nil, errors.New("create libmpv instance")
	}

	setOptionString(client, "terminal", "no")
	setOptionString(client, "keep-open", "yes")
	setOptionString(client, "idle", "yes")
	if media.Type == MediaAudio || media.Type == MediaLiveAudio {
		setOptionString(client, "video", "no")
		setOptionString(client, "audio-display", "no")
	}

	if err := client.Initialize(); err != nil {
		client.TerminateDestroy()
		return nil, fmt.Errorf("initialize libmpv: %w", err)
	}

	d := &mpvDevice{
		client:   client,
		listener: l,
		paused:   true,
		notifyCh: make(chan func(Listener), notifyBufferSize),
		done:     make(chan struct{}),
	}

	_ = client.RequestEvent(mpv.EventEnd, true)
	_ = client.ObserveProperty(observePosition, mpvPositionProperty, mpv.FormatDouble)
	_ = client.ObserveProperty(observePause, mpvPauseProperty, mpv.FormatFlag)
	_ = client.ObserveProperty(observeCache, mpvCacheProperty, mpv.FormatFlag)

	if err := client.SetPropertyString(mpvPauseProperty, "yes"); err != nil {
		client.TerminateDestroy()
		return nil, fmt.Errorf("set pause before load: %w", err)
	}
	if err := client.Command([]string{"loadfile", media.URL, "replace"}); err != nil {
		client.TerminateDestroy()
		return nil, fmt.Errorf("load file %q: %w", media.URL, err)
	}

	d.eventLoopWG.Add(1)
	go d.eventLoop()
	go d.dispatchLoop()

	return d, nil
}

func (d *mpvDevice) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.client.SetPropertyString(mpvPauseProperty, "no"); err != nil {
		return fmt.Errorf("resume playback: %w", err)
	}
	return nil
}

func (d *mpvDevice) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.client.SetPropertyString(mpvPauseProperty, "yes"); err != nil {
		return fmt.Errorf("pause playback: %w", err)
	}
	return nil
}

func (d *mpvDevice) Seek(seconds float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.client.SetProperty(mpvPositionProperty, mpv.FormatDouble, seconds); err != nil {
		return fmt.Errorf("seek playback: %w", err)
	}
	return nil
}

// Stop pauses without unloading so playback can begin again.
func (d *mpvDevice) Stop() error {
	return d.Pause()
}

func (d *mpvDevice) CurrentTime() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	seconds, _ := d.readSecondsLocked(mpvPositionProperty)
	return seconds
}

func (d *mpvDevice) Duration() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readSecondsLocked(mpvDurationProperty)
}

func (d *mpvDevice) SeekableRange() (Range, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	start, ok := d.readSecondsLocked(mpvSeekableStart)
	if !ok {
		return Range{}, false
	}
	end, ok := d.readSecondsLocked(mpvSeekableEnd)
	if !ok {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

func (d *mpvDevice) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Close stops the event loop and destroys the client. It never waits on
// the dispatcher, so it may be called from inside a listener callback.
func (d *mpvDevice) Close() error {
	d.closeOnce.Do(func() {
		close(d.done)
		d.client.Wakeup()
		d.eventLoopWG.Wait()
		d.client.TerminateDestroy()
	})
	return nil
}

// notify queues a listener callback for the dispatcher.
func (d *mpvDevice) notify(fn func(Listener)) {
	select {
	case d.notifyCh <- fn:
	default:
		// Drop if the listener is not keeping up
	}
}

func (d *mpvDevice) dispatchLoop() {
	for {
		select {
		case <-d.done:
			return
		case fn := <-d.notifyCh:
			fn(d.listener)
		}
	}
}

func (d *mpvDevice) eventLoop() {
	defer d.eventLoopWG.Done()

	for {
		select {
		case <-d.done:
			return
		default:
		}

		event := d.client.WaitEvent(0.5)
		if event == nil {
			continue
		}

		switch event.EventID {
		case mpv.EventShutdown:
			return
		case mpv.EventFileLoaded:
			d.notify(func(l Listener) { l.LoadedMetadata() })
		case mpv.EventPlaybackRestart:
			d.notify(func(l Listener) { l.FinishedBuffering() })
		case mpv.EventPropertyChange:
			d.handleProperty(event.Property())
		case mpv.EventEnd:
			end := event.EndFile()
			switch end.Reason {
			case mpv.EndFileEOF:
				d.notify(func(l Listener) { l.Ended() })
			case mpv.EndFileError:
				msg := "playback failed"
				if end.Error != nil {
					msg = end.Error.Error()
				}
				d.notify(func(l Listener) { l.Error(0, msg) })
			}
		}
	}
}

func (d *mpvDevice) handleProperty(p mpv.EventProperty) {
	switch p.Name {
	case mpvPositionProperty:
		d.notify(func(l Listener) { l.Progress() })
	case mpvPauseProperty:
		paused, _ := asBool(p.Data)
		d.mu.Lock()
		d.paused = paused
		d.mu.Unlock()
		if paused {
			d.notify(func(l Listener) { l.DevicePaused() })
		}
	case mpvCacheProperty:
		if waiting, _ := asBool(p.Data); waiting {
			d.notify(func(l Listener) { l.Waiting() })
		}
	}
}

func (d *mpvDevice) readSecondsLocked(property string) (float64, bool) {
	value, err := d.client.GetProperty(property, mpv.FormatDouble)
	if err != nil {
		return 0, false
	}
	seconds, ok := asFloat64(value)
	if !ok || math.IsNaN(seconds) || seconds < 0 {
		return 0, false
	}
	return seconds, true
}

func asFloat64(value any) (float64, bool) {
	switch cast := value.(type) {
	case float64:
		return cast, true
	case float32:
		return float64(cast), true
	case int:
		return float64(cast), true
	case int64:
		return float64(cast), true
	default:
		return 0, false
	}
}

func asBool(value any) (bool, bool) {
	switch cast := value.(type) {
	case bool:
		return cast, true
	case int:
		return cast != 0, true
	case int64:
		return cast != 0, true
	default:
		return false, false
	}
}

func setOptionString(client *mpv.Mpv, name string, value string) {
	_ = client.SetOptionString(name, value)
}
