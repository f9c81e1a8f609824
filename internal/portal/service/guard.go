package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
)

// SessionState is the outcome of checking a presented session token.
type SessionState int

const (
	// StateAbsent means no token was presented.
	StateAbsent SessionState = iota
	// StateUnknown means the token matches no stored session.
	StateUnknown
	// StateExpired means the session existed but had expired; it has now
	// been deleted.
	StateExpired
	// StateValid means the session is live.
	StateValid
	// StateForbidden means the session is live but lacks the admin flag.
	StateForbidden
)

func (s SessionState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateUnknown:
		return "unknown"
	case StateExpired:
		return "expired"
	case StateValid:
		return "valid"
	case StateForbidden:
		return "forbidden"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Verdict is the result of a guard check. Session is populated only for
// StateValid and StateForbidden; Email and IsAdmin only by CheckAdmin.
type Verdict struct {
	State   SessionState
	Session domain.SessionWithUser
}

// Authenticated reports whether the caller holds a live session, admin or not.
func (v Verdict) Authenticated() bool {
	return v.State == StateValid || v.State == StateForbidden
}

// SessionGuard decides, per request, whether a presented token grants
// access. It keeps no state between calls; every check hits the store.
type SessionGuard struct {
	Store store.Store

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (g *SessionGuard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Check resolves tokenID for an ordinary authenticated page.
func (g *SessionGuard) Check(ctx context.Context, tokenID string) (Verdict, error) {
	return g.check(ctx, tokenID, func(ctx context.Context, id string) (domain.SessionWithUser, error) {
		sess, err := g.Store.Sessions().GetSession(ctx, id)
		return domain.SessionWithUser{Session: sess}, err
	})
}

// CheckAdmin resolves tokenID for an admin page. A live session without the
// admin flag yields StateForbidden.
func (g *SessionGuard) CheckAdmin(ctx context.Context, tokenID string) (Verdict, error) {
	v, err := g.check(ctx, tokenID, g.Store.Sessions().GetSessionWithUser)
	if err != nil || v.State != StateValid {
		return v, err
	}
	if !v.Session.IsAdmin {
		v.State = StateForbidden
	}
	return v, nil
}

type sessionLookup func(ctx context.Context, id string) (domain.SessionWithUser, error)

func (g *SessionGuard) check(ctx context.Context, tokenID string, lookup sessionLookup) (Verdict, error) {
	if tokenID == "" {
		return Verdict{State: StateAbsent}, nil
	}

	sess, err := lookup(ctx, tokenID)
	if errors.Is(err, store.ErrNotFound) {
		return Verdict{State: StateUnknown}, nil
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("lookup session: %w", err)
	}

	if sess.Expired(g.now()) {
		if err := g.Store.Sessions().DeleteSession(ctx, tokenID); err != nil {
			return Verdict{}, fmt.Errorf("delete expired session: %w", err)
		}
		return Verdict{State: StateExpired}, nil
	}

	return Verdict{State: StateValid, Session: sess}, nil
}
