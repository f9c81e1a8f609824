package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/aussiebroadwan/portal/pkg/cryptox"
)

// SessionExpiry returns the expiry for a session issued at now: one calendar
// month later. Day overflow normalises the way time.AddDate does, so Jan 31
// becomes Mar 3 (Mar 2 in a leap year).
func SessionExpiry(now time.Time) time.Time {
	return now.AddDate(0, 1, 0)
}

// SessionService mints and revokes session tokens.
type SessionService struct {
	Store store.Store

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue creates a new session for userID.
func (s *SessionService) Issue(ctx context.Context, userID string) (domain.Session, error) {
	return s.issue(ctx, s.Store.Sessions(), userID)
}

// issue writes through sessions so callers inside a transaction can pass
// tx.Sessions().
func (s *SessionService) issue(ctx context.Context, sessions store.Sessions, userID string) (domain.Session, error) {
	id, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now().UTC()
	sess := domain.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: SessionExpiry(now),
		CreatedAt: now,
	}

	if err := sessions.CreateSession(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Revoke deletes the session with the given id. Unknown ids are ignored.
func (s *SessionService) Revoke(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.Store.Sessions().DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
