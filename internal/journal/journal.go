// Package journal persists playback sessions and the events the player
// raised during them, for diagnosing sentinel interventions after the fact.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mediacore/internal/clock"
	dbutil "github.com/llehouerou/mediacore/internal/db"
	"github.com/llehouerou/mediacore/internal/errmsg"
	"github.com/llehouerou/mediacore/internal/playback"
)

const (
	appName       = "mediacore"
	dbFileName    = "journal.db"
	flushDebounce = 500 * time.Millisecond
)

// Session is one initialised media.
type Session struct {
	ID        string
	URL       string
	MediaType string
	StartedAt time.Time
}

// Entry is one recorded event.
type Entry struct {
	ID        int64
	SessionID string
	At        time.Time
	Type      playback.EventType
	State     string
	Position  mo.Option[float64]
	ErrorCode int
	Message   string
}

// Journal writes sessions immediately and batches event entries.
type Journal struct {
	db    *sql.DB
	clock clock.Clock
	log   logrus.FieldLogger

	mu      sync.Mutex
	timer   clock.Timer
	pending []Entry
	closed  bool
}

// ErrClosed is returned by Flush once the journal is closed.
var ErrClosed = errors.New("journal closed")

// Options configures a Journal. The zero value is usable.
type Options struct {
	Clock  clock.Clock
	Logger logrus.FieldLogger
}

// Open opens (or creates) the journal at path. An empty path selects the
// default location under the XDG data directory.
func Open(path string, opts Options) (*Journal, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Journal{db: db, clock: opts.Clock, log: opts.Logger}, nil
}

// DefaultPath returns the journal location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Close flushes pending entries and closes the database. Later calls
// are no-ops.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	if j.timer != nil {
		j.timer.Stop()
		j.timer = nil
	}

	if err := insertEntries(j.db, j.pending); err != nil {
		j.log.WithError(err).Warn(errmsg.Format(errmsg.OpJournalRecord, err))
	}
	j.pending = nil

	return j.db.Close()
}

// StartSession records a new session and returns its ID.
func (j *Journal) StartSession(mediaType, url string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.Exec(`
		INSERT INTO sessions (id, url, media_type, started_at) VALUES (?, ?, ?, ?)
	`, id, url, mediaType, dbutil.Millis(j.clock.Now()))
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

// Record queues an event for the session. Entries are written in batches
// shortly after the last call, or on Flush and Close.
func (j *Journal) Record(sessionID string, e playback.Event) {
	entry := Entry{
		SessionID: sessionID,
		At:        j.clock.Now(),
		Type:      e.Type,
		State:     e.State.String(),
		Position:  e.CurrentTime,
		ErrorCode: e.ErrorCode,
		Message:   e.ErrorMessage,
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}

	j.pending = append(j.pending, entry)

	if j.timer != nil {
		j.timer.Stop()
	}
	j.timer = j.clock.AfterFunc(flushDebounce, func() {
		if err := j.Flush(); err != nil && !errors.Is(err, ErrClosed) {
			j.log.WithError(err).Warn(errmsg.Format(errmsg.OpJournalRecord, err))
		}
	})
}

// Flush writes queued entries now.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}

	pending := j.pending
	j.pending = nil
	return insertEntries(j.db, pending)
}

// Sessions returns the most recent sessions, newest first.
func (j *Journal) Sessions(limit int) ([]Session, error) {
	rows, err := j.db.Query(`
		SELECT id, url, media_type, started_at
		FROM sessions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAt int64
		if err := rows.Scan(&s.ID, &s.URL, &s.MediaType, &startedAt); err != nil {
			return nil, err
		}
		s.StartedAt = dbutil.FromMillis(startedAt)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Recent returns the latest entries across all sessions, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if err := j.Flush(); err != nil {
		return nil, err
	}
	return queryEntries(j.db, `
		SELECT id, session_id, at, type, state, position, error_code, message
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
}

// Failures returns the error and sentinel give-up entries of a session,
// oldest first.
func (j *Journal) Failures(sessionID string) ([]Entry, error) {
	if err := j.Flush(); err != nil {
		return nil, err
	}
	return queryEntries(j.db, `
		SELECT id, session_id, at, type, state, position, error_code, message
		FROM events
		WHERE session_id = ? AND type IN (?, ?, ?)
		ORDER BY id
	`, sessionID,
		string(playback.EventError),
		string(playback.EventSentinelPauseFailure),
		string(playback.EventSentinelSeekFailure),
	)
}

func insertEntries(db *sql.DB, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO events (session_id, at, type, state, position, error_code, message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			_, err := stmt.Exec(
				e.SessionID,
				dbutil.Millis(e.At),
				string(e.Type),
				e.State,
				dbutil.OptionNullFloat64(e.Position),
				e.ErrorCode,
				dbutil.NullString(e.Message),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func queryEntries(db *sql.DB, query string, args ...any) ([]Entry, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		var typ string
		var position sql.NullFloat64
		var message sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &at, &typ, &e.State, &position, &e.ErrorCode, &message); err != nil {
			return nil, err
		}
		e.At = dbutil.FromMillis(at)
		e.Type = playback.EventType(typ)
		e.Position = dbutil.NullFloat64Option(position)
		e.Message = dbutil.NullStringValue(message)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
