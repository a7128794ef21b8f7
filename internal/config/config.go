package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mediacore/internal/playback"
	"github.com/llehouerou/mediacore/internal/player"
)

type Config struct {
	// Playback core tuning
	Playback PlaybackConfig `koanf:"playback"`

	// Log file settings (disabled unless write = true)
	Logs LogsConfig `koanf:"logs"`

	// Event journal (SQLite)
	Journal JournalConfig `koanf:"journal"`

	// MPRIS desktop integration (Linux only)
	MPRIS MPRISConfig `koanf:"mpris"`

	// Desktop notifications on playback failures
	Notifications NotificationsConfig `koanf:"notifications"`
}

// PlaybackConfig holds the state machine and watchdog settings.
type PlaybackConfig struct {
	Backend             string  `koanf:"backend"`               // "local" or "mpv" (default: "local")
	DisableSentinels    bool    `koanf:"disable_sentinels"`     // turn the watchdog off entirely
	DisableSeekSentinel bool    `koanf:"disable_seek_sentinel"` // keep the watchdog but never re-seek
	RestartTimeoutMs    int     `koanf:"restart_timeout_ms"`    // delay before seek-finished may fire (default: 0)
	SentinelIntervalMs  int     `koanf:"sentinel_interval_ms"`  // watchdog period (default: 1100)
	ClampOffset         float64 `koanf:"clamp_offset"`          // seconds kept clear of the end on seek (default: 1.1)
}

// LogsConfig holds logging configuration.
type LogsConfig struct {
	Write bool   `koanf:"write"`
	Level string `koanf:"level"` // logrus level name (default: "info")
	JSON  bool   `koanf:"json"`
}

// JournalConfig holds event journal configuration.
type JournalConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Path    string `koanf:"path"`    // default: $XDG_DATA_HOME/mediacore/journal.db
}

// NotificationsConfig holds desktop notification configuration.
type NotificationsConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// MPRISConfig holds MPRIS configuration.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in journal path
	if cfg.Journal.Path != "" {
		cfg.Journal.Path = expandPath(cfg.Journal.Path)
	}

	cfg.Playback.Backend = strings.ToLower(strings.TrimSpace(cfg.Playback.Backend))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/mediacore/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mediacore", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// PlaybackOptions converts the [playback] section into Player options.
// Non-positive values fall back to the Player defaults.
func (c *Config) PlaybackOptions() playback.Options {
	p := c.Playback
	opts := playback.Options{
		DisableSentinels:    p.DisableSentinels,
		DisableSeekSentinel: p.DisableSeekSentinel,
	}
	if p.RestartTimeoutMs > 0 {
		opts.RestartTimeout = time.Duration(p.RestartTimeoutMs) * time.Millisecond
	}
	if p.SentinelIntervalMs > 0 {
		opts.SentinelInterval = time.Duration(p.SentinelIntervalMs) * time.Millisecond
	}
	if p.ClampOffset > 0 {
		opts.ClampOffset = p.ClampOffset
	}
	return opts
}

// BackendName returns the configured device backend with the default applied.
func (c *Config) BackendName() string {
	if c.Playback.Backend == "" {
		return player.BackendLocal
	}
	return c.Playback.Backend
}

// LogLevel returns the configured log level, or info when unset or invalid.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Logs.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// JournalEnabled returns true unless the journal was explicitly disabled.
func (c *Config) JournalEnabled() bool {
	return c.Journal.Enabled == nil || *c.Journal.Enabled
}

// MPRISEnabled returns true unless MPRIS was explicitly disabled.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// NotificationsEnabled returns true unless notifications were explicitly disabled.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}
