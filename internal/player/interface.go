// internal/player/interface.go
package player

import "errors"

// MediaType identifies the kind of media a device is asked to play.
type MediaType string

const (
	MediaVideo     MediaType = "video"
	MediaAudio     MediaType = "audio"
	MediaLiveVideo MediaType = "live-video"
	MediaLiveAudio MediaType = "live-audio"
)

// IsLive returns true for live streams.
func (t MediaType) IsLive() bool {
	return t == MediaLiveVideo || t == MediaLiveAudio
}

// Valid returns true for a known media type.
func (t MediaType) Valid() bool {
	switch t {
	case MediaVideo, MediaAudio, MediaLiveVideo, MediaLiveAudio:
		return true
	}
	return false
}

// Range is a seekable interval in seconds.
type Range struct {
	Start float64
	End   float64
}

// Media describes the source handed to a device factory.
type Media struct {
	Type     MediaType
	URL      string
	MIMEType string
	// Container is where the backend attaches its output. Opaque to the
	// playback core.
	Container any
}

// Device defines the backend primitives a native player must expose.
//
// Commands are fire-and-forget from the caller's point of view: a nil
// error means the command was handed to the backend, not that it took
// effect. Devices are allowed to silently ignore pause and seek commands.
type Device interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	Stop() error
	CurrentTime() float64
	// Duration returns false until the media metadata is known.
	Duration() (float64, bool)
	// SeekableRange returns false when the backend cannot report one.
	SeekableRange() (Range, bool)
	IsPaused() bool
	Close() error
}

// Listener receives the discrete callbacks a device raises.
// Implementations must not block. Devices must not invoke the listener
// synchronously from inside one of their own methods.
type Listener interface {
	// FinishedBuffering is raised when the device can play (canplay, playing).
	FinishedBuffering()
	// Waiting is raised when the device stalls for data.
	Waiting()
	LoadedMetadata()
	Ended()
	// Progress is raised whenever the device reports a new playback position.
	Progress()
	// DevicePaused is raised when the device reports it has paused.
	DevicePaused()
	// Error reports a native decode/network failure. Code 0 means unknown.
	Error(code int, message string)
}

// Factory creates a device for the given media, wired to l.
type Factory func(media Media, l Listener) (Device, error)

// errClosed is returned by commands issued to a closed device.
var errClosed = errors.New("device closed")
