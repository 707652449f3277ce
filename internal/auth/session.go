package auth

import (
	"context"
	"errors"
	"fmt"
	"silkrhyme/internal/model"
	"silkrhyme/internal/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the authentication context handed to every account-scoped call.
// A nil or token-less Session means the caller is a guest.
type Session struct {
	ID    string
	Token string
	Email string
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Store is the single source of truth for the upstream bearer token:
// read when a request starts, written on login/registration, cleared on logout.
type Store struct {
	repo repository.SessionRepository
	now  func() time.Time
}

func NewStore(repo repository.SessionRepository) *Store {
	return &Store{repo: repo, now: time.Now}
}

// Load returns the session for id, or nil when there is none or its token has expired.
// Expired sessions are removed.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}

	row, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if row.ExpiresAt != nil && !row.ExpiresAt.After(s.now()) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete expired session: %w", err)
		}
		return nil, nil
	}

	return &Session{ID: row.ID, Token: row.Token, Email: row.Email}, nil
}

// Save persists token under a fresh session id.
func (s *Store) Save(ctx context.Context, token, email string) (*Session, error) {
	row := &model.AccountSession{
		ID:    uuid.NewString(),
		Token: token,
		Email: email,
	}
	if exp, ok := TokenExpiry(token); ok {
		row.ExpiresAt = &exp
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &Session{ID: row.ID, Token: row.Token, Email: row.Email}, nil
}

func (s *Store) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Sweep drops every session whose token expiry has passed.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature; the upstream
// owns verification, this only lets us forget tokens that can no longer work.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
