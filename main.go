package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mediacore/internal/app"
	"github.com/llehouerou/mediacore/internal/config"
	"github.com/llehouerou/mediacore/internal/errmsg"
	"github.com/llehouerou/mediacore/internal/journal"
	"github.com/llehouerou/mediacore/internal/logging"
	"github.com/llehouerou/mediacore/internal/mpris"
	"github.com/llehouerou/mediacore/internal/notify"
	"github.com/llehouerou/mediacore/internal/playback"
	"github.com/llehouerou/mediacore/internal/player"
	"github.com/llehouerou/mediacore/internal/stderr"
)

func init() {
	rootCmd.Flags().StringP("type", "t", "", "Media type: audio, video, live-audio or live-video (default: from extension)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{
			string(player.MediaAudio), string(player.MediaVideo),
			string(player.MediaLiveAudio), string(player.MediaLiveVideo),
		}, cobra.ShellCompDirectiveNoFileComp
	}))
	rootCmd.Flags().String("mime", "", "MIME type handed to the device (default: from extension)")
	rootCmd.Flags().Float64P("from", "f", -1, "Start playback at this position in seconds")
	rootCmd.Flags().BoolP("paused", "p", false, "Load the media without starting playback")
	rootCmd.Flags().StringP("backend", "b", "", "Device backend: local or mpv (overrides config)")
	rootCmd.Flags().Bool("no-journal", false, "Do not record events to the journal")
}

var rootCmd = &cobra.Command{
	Use:           "mediacore <file-or-url>",
	Short:         "Play media through the playback state machine and watchdog",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if backend := lo.Must(cmd.Flags().GetString("backend")); backend != "" {
		cfg.Playback.Backend = strings.ToLower(backend)
	}
	if lo.Must(cmd.Flags().GetBool("no-journal")) {
		cfg.Journal.Enabled = lo.ToPtr(false)
	}

	log, closeLog, err := logging.Setup(logging.Settings{
		Write: cfg.Logs.Write,
		Level: cfg.LogLevel(),
		JSON:  cfg.Logs.JSON,
	})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogSetup, err))
	}
	defer closeLog()

	// Audio libraries write to fd 2 directly; keep that out of the TUI.
	if stop, err := stderr.Capture(log); err != nil {
		log.WithError(err).Debug("stderr capture unavailable")
	} else {
		defer stop()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	media, err := mediaFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	factory, err := player.FactoryFor(cfg.BackendName())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	opts := cfg.PlaybackOptions()
	opts.Logger = log
	p := playback.New(factory, opts)

	var j *journal.Journal
	if cfg.JournalEnabled() {
		j, err = journal.Open(cfg.Journal.Path, journal.Options{Logger: log})
		if err != nil {
			// The player works without a journal.
			log.WithError(err).Warn(errmsg.Format(errmsg.OpJournalOpen, err))
			j = nil
		} else {
			defer j.Close()
		}
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(p, log)
		if err != nil {
			log.WithError(err).Warn(errmsg.Format(errmsg.OpMPRISStart, err))
		} else {
			defer adapter.Close()
		}
	}

	if cfg.NotificationsEnabled() {
		n, err := notify.New()
		if err != nil {
			log.WithError(err).Debug("desktop notifications unavailable")
		} else {
			notify.Watch(ctx, p, n, log)
		}
	}

	m, err := app.New(app.Options{Player: p, Media: media, Journal: j, Logger: log})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer m.Close()

	log.WithFields(logrus.Fields{
		"url":     media.URL,
		"type":    media.Type,
		"backend": cfg.BackendName(),
	}).Info("starting")

	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return err
	}
	return shutdown(p)
}

func mediaFromFlags(cmd *cobra.Command, source string) (app.Media, error) {
	mediaType, mimeType := player.Detect(source)
	if t := lo.Must(cmd.Flags().GetString("type")); t != "" {
		mediaType = player.MediaType(t)
		if !mediaType.Valid() {
			return app.Media{}, fmt.Errorf("unknown media type %q", t)
		}
	}
	if m := lo.Must(cmd.Flags().GetString("mime")); m != "" {
		mimeType = m
	}

	media := app.Media{
		Type:     mediaType,
		URL:      source,
		MIMEType: mimeType,
		Autoplay: !lo.Must(cmd.Flags().GetBool("paused")),
	}
	if from := lo.Must(cmd.Flags().GetFloat64("from")); from >= 0 {
		media.From = mo.Some(from)
	}
	return media, nil
}

// shutdown stops and discards the device so the backend releases its output.
func shutdown(p *playback.Player) error {
	if p.State().HasMedia() {
		if err := p.Stop(); err != nil {
			return err
		}
	}
	if p.State() == playback.StateEmpty {
		return nil
	}
	return p.Reset()
}
