package player

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"

	monitorInterval  = 500 * time.Millisecond
	notifyBufferSize = 16
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Local plays local audio files through the default audio output.
type Local struct {
	mu       sync.Mutex
	listener Listener

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	started  bool
	closed   bool

	notifyCh  chan func(Listener)
	done      chan struct{}
	closeOnce sync.Once
}

// LocalFactory opens media.URL (a path or file:// URL) for playback.
func LocalFactory(media Media, l Listener) (Device, error) {
	path := strings.TrimPrefix(media.URL, "file://")

	ext := strings.ToLower(filepath.Ext(path))
	if ext != extMP3 && ext != extFLAC && ext != extWAV {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case extMP3:
		streamer, format, err = decodeGoMP3(f)
	case extFLAC:
		// Some taggers prepend ID3v2 to FLAC files
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, err
		}
		streamer, format, err = flac.Decode(f)
	case extWAV:
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		f.Close()
		return nil, err
	}

	var out beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		out = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	d := &Local{
		listener: l,
		file:     f,
		streamer: streamer,
		format:   format,
		notifyCh: make(chan func(Listener), notifyBufferSize),
		done:     make(chan struct{}),
	}
	d.ctrl = &beep.Ctrl{Streamer: out, Paused: true}
	d.volume = &effects.Volume{Streamer: d.ctrl, Base: 2}

	go d.dispatchLoop()
	go d.monitorLoop()

	d.notify(func(l Listener) { l.LoadedMetadata() })
	return d, nil
}

func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

// Play resumes output, handing the stream to the speaker on first use.
func (d *Local) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}

	if !d.started {
		d.started = true
		speaker.Play(beep.Seq(d.volume, beep.Callback(func() {
			d.notify(func(l Listener) { l.Ended() })
		})))
	}

	speaker.Lock()
	d.ctrl.Paused = false
	speaker.Unlock()

	d.notify(func(l Listener) { l.FinishedBuffering() })
	return nil
}

func (d *Local) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}
	speaker.Lock()
	d.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Seek moves to an absolute position. Positions past the end are
// clamped to the last sample.
func (d *Local) Seek(seconds float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}

	pos := d.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	pos = max(pos, 0)
	pos = min(pos, d.streamer.Len())

	// Mute while seeking to avoid audio artifacts
	speaker.Lock()
	d.volume.Silent = true
	err := d.streamer.Seek(pos)
	d.volume.Silent = false
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek playback: %w", err)
	}

	d.notify(func(l Listener) { l.FinishedBuffering() })
	return nil
}

// Stop halts output but keeps the stream loaded so playback can begin again.
func (d *Local) Stop() error {
	return d.Pause()
}

func (d *Local) CurrentTime() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0
	}
	speaker.Lock()
	pos := d.streamer.Position()
	speaker.Unlock()
	return d.format.SampleRate.D(pos).Seconds()
}

func (d *Local) Duration() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, false
	}
	return d.format.SampleRate.D(d.streamer.Len()).Seconds(), true
}

func (d *Local) SeekableRange() (Range, bool) {
	duration, ok := d.Duration()
	if !ok {
		return Range{}, false
	}
	return Range{Start: 0, End: duration}, true
}

func (d *Local) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return true
	}
	speaker.Lock()
	defer speaker.Unlock()
	return d.ctrl.Paused
}

// Close releases the stream and file. Safe to call more than once.
func (d *Local) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		if d.started {
			speaker.Clear()
		}
		close(d.done)
		if cerr := d.streamer.Close(); cerr != nil {
			err = cerr
		}
		d.file.Close()
		d.mu.Unlock()
	})
	return err
}

// notify queues a listener callback. Callbacks are delivered in order from
// a dedicated goroutine, never from inside a Device method.
func (d *Local) notify(fn func(Listener)) {
	select {
	case d.notifyCh <- fn:
	default:
		// Drop if the listener is not keeping up
	}
}

func (d *Local) dispatchLoop() {
	for {
		select {
		case <-d.done:
			return
		case fn := <-d.notifyCh:
			fn(d.listener)
		}
	}
}

// monitorLoop reports progress while audio is flowing.
func (d *Local) monitorLoop() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			if !d.IsPaused() {
				d.notify(func(l Listener) { l.Progress() })
			}
		}
	}
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Size is a syncsafe integer: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

// Verify Local implements Device at compile time.
var _ Device = (*Local)(nil)
