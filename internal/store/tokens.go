package store

import (
	"database/sql"
	"time"
)

// SaveTokens replaces the persisted session.
func (db *DB) SaveTokens(t Tokens) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO session_tokens (id, access_token, refresh_token, subject, expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			subject = excluded.subject,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		t.AccessToken, t.RefreshToken, t.Subject, t.ExpiresAt, now)
	return err
}

// LoadTokens returns the persisted session, or nil when none is stored.
func (db *DB) LoadTokens() (*Tokens, error) {
	var t Tokens
	err := db.QueryRow(`
		SELECT access_token, refresh_token, subject, expires_at
		FROM session_tokens WHERE id = 1`).
		Scan(&t.AccessToken, &t.RefreshToken, &t.Subject, &t.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ClearTokens deletes the persisted session.
func (db *DB) ClearTokens() error {
	_, err := db.Exec(`DELETE FROM session_tokens`)
	return err
}
