package store

import (
	"database/sql"
	"time"
)

// SetUIState stores a UI checkpoint such as the last open screen.
func (db *DB) SetUIState(key, value string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO ui_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	return err
}

// UIState returns a UI checkpoint, or "" when unset.
func (db *DB) UIState(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM ui_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
