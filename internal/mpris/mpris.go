//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/sirupsen/logrus"
)

// Adapter exposes a Player to the desktop over MPRIS (D-Bus).
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(c Controls, log logrus.FieldLogger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("mediacore", &rootAdapter{}, &playerAdapter{c: c}),
	}

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			log.WithError(err).Warn("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "mediacore", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "video/mp4"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	c Controls
}

func (p *playerAdapter) Next() error {
	return nil // Single media, no queue
}

func (p *playerAdapter) Previous() error {
	return p.c.PlayFrom(0)
}

func (p *playerAdapter) Pause() error {
	return pause(p.c)
}

func (p *playerAdapter) PlayPause() error {
	return playPause(p.c)
}

func (p *playerAdapter) Stop() error {
	return stop(p.c)
}

func (p *playerAdapter) Play() error {
	return play(p.c)
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return seekBy(p.c, fromMicros(int64(offset)))
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return setPosition(p.c, fromMicros(int64(position)))
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch statusFor(p.c.State()) {
	case statusPlaying:
		return types.PlaybackStatusPlaying, nil
	case statusPaused:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	source := p.c.Source()
	if source == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(source)),
		Length:  types.Microseconds(lengthMicros(p.c)),
		Title:   Title(source),
	}

	if artPath := FindArt(source); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return positionMicros(p.c), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.c.State().HasMedia(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.c.Source() != "", nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.c.State().HasMedia(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(source string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
