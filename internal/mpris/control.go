package mpris

import (
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/mo"

	"github.com/llehouerou/mediacore/internal/playback"
)

// Controls is the part of the Player driven from the desktop.
type Controls interface {
	State() playback.State
	BeginPlayback() error
	PlayFrom(seconds float64) error
	Pause() error
	Resume() error
	Stop() error
	CurrentTime() mo.Option[float64]
	Duration() mo.Option[float64]
	Source() string
}

// Playback status strings as defined by MPRIS.
const (
	statusPlaying = "Playing"
	statusPaused  = "Paused"
	statusStopped = "Stopped"
)

func statusFor(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return statusPlaying
	case playback.StatePaused, playback.StateBuffering:
		return statusPaused
	default:
		return statusStopped
	}
}

// Desktop commands never ask for a transition the current state rejects;
// an unsuitable command is ignored instead of failing the player.

func play(c Controls) error {
	switch c.State() {
	case playback.StateStopped:
		return c.BeginPlayback()
	case playback.StatePaused, playback.StateBuffering:
		return c.Resume()
	case playback.StateComplete:
		return c.PlayFrom(0)
	}
	return nil
}

func pause(c Controls) error {
	switch c.State() {
	case playback.StatePlaying, playback.StateBuffering:
		return c.Pause()
	}
	return nil
}

func playPause(c Controls) error {
	if c.State() == playback.StatePlaying {
		return c.Pause()
	}
	return play(c)
}

func stop(c Controls) error {
	if c.State().HasMedia() {
		return c.Stop()
	}
	return nil
}

// seekBy moves relative to the current position, never before zero.
func seekBy(c Controls, offset float64) error {
	cur, ok := c.CurrentTime().Get()
	if !ok {
		return nil
	}
	return c.PlayFrom(max(cur+offset, 0))
}

func setPosition(c Controls, seconds float64) error {
	if !c.State().HasMedia() {
		return nil
	}
	return c.PlayFrom(max(seconds, 0))
}

func positionMicros(c Controls) int64 {
	return toMicros(c.CurrentTime().OrEmpty())
}

// lengthMicros returns 0 for unknown and live durations.
func lengthMicros(c Controls) int64 {
	d, ok := c.Duration().Get()
	if !ok || math.IsInf(d, 0) {
		return 0
	}
	return toMicros(d)
}

func toMicros(seconds float64) int64 {
	return int64(seconds * 1e6)
}

func fromMicros(us int64) float64 {
	return float64(us) / 1e6
}

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// localPath returns the filesystem path of a local source, or "" for
// network URLs.
func localPath(source string) string {
	if source == "" {
		return ""
	}
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil {
			return ""
		}
		return u.Path
	}
	if strings.Contains(source, "://") {
		return ""
	}
	return source
}

// FindArt looks for artwork next to a local media source.
// Returns the path to the art file, or empty string if not found.
func FindArt(source string) string {
	path := localPath(source)
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	for _, name := range coverNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Title derives a display title from the media source.
func Title(source string) string {
	if path := localPath(source); path != "" {
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if u, err := url.Parse(source); err == nil && u.Path != "" && u.Path != "/" {
		return filepath.Base(u.Path)
	}
	return source
}
