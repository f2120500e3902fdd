package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minhdang/planboard/internal/apperr"
	"github.com/minhdang/planboard/internal/models"
)

// CreateAccount inserts an admin account. The password hash is produced by
// the auth layer; the store never sees a plaintext password.
func (db *DB) CreateAccount(username string, passwordHash []byte) (*models.Account, error) {
	a := models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := db.conn.Exec(`
		INSERT INTO accounts (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, a.ID, a.Username, a.PasswordHash, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, fmt.Errorf("store: insert account: %w", err)
	}
	return &a, nil
}

// GetAccountByUsername returns an account for login verification.
func (db *DB) GetAccountByUsername(username string) (*models.Account, error) {
	var a models.Account
	err := db.conn.QueryRow(`
		SELECT id, username, password_hash, created_at
		FROM accounts WHERE username = ?
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, "store: get account")
	}
	return &a, nil
}

// CreateSession stores an issued session token.
func (db *DB) CreateSession(s models.Session) error {
	_, err := db.conn.Exec(`
		INSERT INTO sessions (token, account_id, expires_at)
		VALUES (?, ?, ?)
	`, s.Token, s.AccountID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("store: insert session: %w", err)
	}
	return nil
}

// GetSession returns the session for a token together with its username.
// Expired sessions are reported as not found.
func (db *DB) GetSession(token string) (*models.Session, error) {
	var s models.Session
	err := db.conn.QueryRow(`
		SELECT s.token, s.account_id, a.username, s.expires_at
		FROM sessions s JOIN accounts a ON a.id = s.account_id
		WHERE s.token = ?
	`, token).Scan(&s.Token, &s.AccountID, &s.Username, &s.ExpiresAt)
	if err != nil {
		return nil, notFoundOr(err, "store: get session")
	}
	if time.Now().After(s.ExpiresAt) {
		return nil, apperr.ErrNotFound
	}
	return &s, nil
}

// DeleteExpiredSessions removes sessions past their expiry.
func (db *DB) DeleteExpiredSessions() error {
	_, err := db.conn.Exec(`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: delete expired sessions: %w", err)
	}
	return nil
}
