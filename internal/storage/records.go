package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// FormatTime encodes t for a TEXT column. The offset is kept so the calendar
// day of a stored completion survives a round trip.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatNullTime encodes an optional timestamp, mapping nil to NULL
func FormatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

// ParseTime decodes a TEXT column written by FormatTime
func ParseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// ParseNullTime decodes an optional timestamp, mapping NULL to nil
func ParseNullTime(column string, value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := ParseTime(column, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
