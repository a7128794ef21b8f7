package app

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mediacore/internal/journal"
	"github.com/llehouerou/mediacore/internal/keymap"
	"github.com/llehouerou/mediacore/internal/playback"
	"github.com/llehouerou/mediacore/internal/player"
)

const maxEventLines = 10

// Media is what the model loads into the Player and reloads on request.
type Media struct {
	Type     player.MediaType
	URL      string
	MIMEType string
	// From makes Autoplay start at this position instead of the natural start.
	From mo.Option[float64]
	// Autoplay begins playback right after loading.
	Autoplay bool
}

// EventLine is one row of the event log.
type EventLine struct {
	At       time.Time
	Type     playback.EventType
	State    playback.State
	Position mo.Option[float64]
	Message  string
}

// Options configures a Model.
type Options struct {
	Player  *playback.Player
	Media   Media
	Journal *journal.Journal // nil disables the journal panel
	Logger  logrus.FieldLogger
	Now     func() time.Time
}

// Model is the bubbletea model of the player UI.
type Model struct {
	Player   *playback.Player
	Keys     *keymap.Resolver
	Journal  *journal.Journal
	Recorder *journal.Recorder
	Media    Media

	log    logrus.FieldLogger
	now    func() time.Time
	cancel context.CancelFunc
	sub    *playback.Subscription
	bar    progress.Model

	events      []EventLine
	failures    []journal.Entry
	lastErr     string
	showHelp    bool
	showJournal bool
	width       int
	height      int
}

// New creates a Model wired to opts.Player. The Player is subscribed to
// immediately so no event raised while loading is lost.
func New(opts Options) (Model, error) {
	if opts.Player == nil {
		return Model{}, errors.New("app: nil player")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		opts.Logger = l
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		Player:      opts.Player,
		Keys:        keymap.NewResolver(keymap.Bindings),
		Journal:     opts.Journal,
		Media:       opts.Media,
		log:         opts.Logger,
		now:         opts.Now,
		cancel:      cancel,
		sub:         opts.Player.Subscribe(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		showJournal: opts.Journal != nil,
	}
	for _, key := range m.Keys.Conflicts() {
		m.log.WithField("key", key).Warn("key bound to several actions, keeping the first")
	}
	if opts.Journal != nil {
		m.Recorder = opts.Journal.Attach(ctx, opts.Player)
	}
	return m, nil
}

// Init loads the media and starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.WatchEvents(), TickCmd())
}

// Close detaches the model from the Player.
func (m Model) Close() {
	if m.sub != nil {
		m.sub.Close()
	}
	if m.cancel != nil {
		m.cancel()
	}
}

// load initialises the configured media and optionally starts it.
func (m Model) load() tea.Cmd {
	if m.Media.URL == "" {
		return nil
	}
	err := m.Player.InitialiseMedia(m.Media.Type, m.Media.URL, m.Media.MIMEType, nil, playback.MediaOptions{})
	if err != nil {
		m.log.WithError(err).WithField("url", m.Media.URL).Error("initialise media")
		return errCmd(err)
	}
	if !m.Media.Autoplay {
		return nil
	}
	if from, ok := m.Media.From.Get(); ok {
		return errCmd(m.Player.BeginPlaybackFrom(from))
	}
	return errCmd(m.Player.BeginPlayback())
}

// reload discards the current device and initialises the media again.
func (m Model) reload() tea.Cmd {
	switch m.Player.State() {
	case playback.StateBuffering, playback.StatePlaying, playback.StatePaused, playback.StateComplete:
		if err := m.Player.Stop(); err != nil {
			return errCmd(err)
		}
	}
	if err := m.Player.Reset(); err != nil {
		return errCmd(err)
	}
	return m.load()
}
