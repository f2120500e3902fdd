// Package auth implements admin login with bcrypt password hashes and
// short-lived Bearer session tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhdang/planboard/internal/apperr"
	"github.com/minhdang/planboard/internal/models"
	"github.com/minhdang/planboard/internal/store"
)

// Auth modes.
const (
	ModeDisabled = "disabled"
	ModeToken    = "token"
	ModeSession  = "session"
)

// Service verifies credentials and manages sessions.
type Service struct {
	db  store.Board
	ttl time.Duration
}

// NewService creates an auth service. ttl bounds session lifetime.
func NewService(db store.Board, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{db: db, ttl: ttl}
}

// HashPassword returns the bcrypt hash for a plaintext password.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// Login verifies a username/password pair and issues a session token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(_ context.Context, username, password string) (*models.Session, error) {
	acct, err := s.db.GetAccountByUsername(username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)) != nil {
		return nil, apperr.ErrUnauthorized
	}

	sess := models.Session{
		Token:     uuid.NewString(),
		AccountID: acct.ID,
		Username:  acct.Username,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.db.CreateSession(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Validate resolves a Bearer token to its session. Expired or unknown
// tokens return apperr.ErrUnauthorized.
func (s *Service) Validate(_ context.Context, token string) (*models.Session, error) {
	sess, err := s.db.GetSession(token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}
	return sess, nil
}
