package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mediacore/internal/config"
	"github.com/llehouerou/mediacore/internal/errmsg"
	"github.com/llehouerou/mediacore/internal/journal"
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntP("limit", "n", 5, "Number of sessions to show")
	journalCmd.Flags().Bool("all", false, "Show every recorded event instead of failures only")
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent playback sessions and their failures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
		}

		j, err := journal.Open(cfg.Journal.Path, journal.Options{})
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpJournalOpen, err))
		}
		defer j.Close()

		limit := lo.Must(cmd.Flags().GetInt("limit"))
		if lo.Must(cmd.Flags().GetBool("all")) {
			return printRecent(cmd, j, limit*10)
		}
		return printSessions(cmd, j, limit)
	},
}

func printSessions(cmd *cobra.Command, j *journal.Journal, limit int) error {
	sessions, err := j.Sessions(limit)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpJournalLoad, err))
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions recorded.")
		return nil
	}

	now := time.Now()
	for _, s := range sessions {
		cmd.Printf("%s  %-10s %s\n", humanize.RelTime(s.StartedAt, now, "ago", "from now"), s.MediaType, s.URL)

		failures, err := j.Failures(s.ID)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpJournalLoad, s.ID, err))
		}
		for _, e := range failures {
			cmd.Println("    " + formatEntry(e))
		}
	}
	return nil
}

func printRecent(cmd *cobra.Command, j *journal.Journal, limit int) error {
	entries, err := j.Recent(limit)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpJournalLoad, err))
	}
	// Recent is newest first; print chronologically.
	for i := len(entries) - 1; i >= 0; i-- {
		cmd.Println(entries[i].At.Format(time.DateTime) + "  " + formatEntry(entries[i]))
	}
	return nil
}

func formatEntry(e journal.Entry) string {
	line := fmt.Sprintf("%-26s %-9s", e.Type, e.State)
	if p, ok := e.Position.Get(); ok {
		line += fmt.Sprintf(" at %.1fs", p)
	}
	if e.Message != "" {
		line += "  " + e.Message
	}
	return line
}
