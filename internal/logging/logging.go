// Package logging sets up the structured logger shared by the playback
// core and its integrations.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

const appName = "mediacore"

// Settings selects where and how log entries are written.
type Settings struct {
	Write bool
	Level logrus.Level
	JSON  bool
	// Dir overrides the XDG state directory.
	Dir string
}

// Setup returns a logger writing to a daily file under the log directory.
// When writing is disabled, entries are discarded. The returned closer
// releases the file.
func Setup(s Settings) (logrus.FieldLogger, func() error, error) {
	l := logrus.New()
	if !s.Write {
		l.SetOutput(io.Discard)
		return l, func() error { return nil }, nil
	}

	dir := s.Dir
	if dir == "" {
		dir = Dir()
	}
	if dir == "" {
		return nil, nil, errors.New("log directory path is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, FileName(time.Now()))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)

	if s.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	l.SetLevel(s.Level)

	return l.WithField("app", appName), f.Close, nil
}

// Dir returns the default log directory.
func Dir() string {
	return filepath.Join(xdg.StateHome, appName, "logs")
}

// FileName returns the log file name for the given day.
func FileName(t time.Time) string {
	return fmt.Sprintf("%s.log", t.Format("2006-01-02"))
}
