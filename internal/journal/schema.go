package journal

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			media_type TEXT NOT NULL,
			started_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at DESC);

		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			state TEXT NOT NULL,
			position REAL,
			error_code INTEGER NOT NULL DEFAULT 0,
			message TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, id);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
