package db

import (
	"database/sql"
	"time"

	"github.com/samber/mo"
)

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullFloat64Option converts a sql.NullFloat64 to an Option.
func NullFloat64Option(n sql.NullFloat64) mo.Option[float64] {
	if !n.Valid {
		return mo.None[float64]()
	}
	return mo.Some(n.Float64)
}

// OptionNullFloat64 converts an Option to a sql.NullFloat64 for writing.
func OptionNullFloat64(o mo.Option[float64]) sql.NullFloat64 {
	v, ok := o.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// NullString stores the empty string as NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringValue returns the string value or empty string if not valid.
func NullStringValue(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}

// Millis is the storage form of timestamps: Unix milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts a stored timestamp back to local time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
