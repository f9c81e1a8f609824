package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
)

type sessionsRepo access

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	return access(*r).write(func(st *state) error {
		return createSession(st, s)
	})
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var sess domain.Session
	err := access(*r).read(func(st *state) error {
		found, ok := st.sessions[id]
		if !ok {
			return store.ErrNotFound
		}
		sess = found
		return nil
	})
	return sess, err
}

func (r *sessionsRepo) GetSessionWithUser(ctx context.Context, id string) (domain.SessionWithUser, error) {
	var out domain.SessionWithUser
	err := access(*r).read(func(st *state) error {
		sess, ok := st.sessions[id]
		if !ok {
			return store.ErrNotFound
		}
		u, ok := st.users[sess.UserID]
		if !ok {
			return store.ErrNotFound
		}
		out = domain.SessionWithUser{Session: sess, Email: u.Email, IsAdmin: u.IsAdmin}
		return nil
	})
	return out, err
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	return access(*r).write(func(st *state) error {
		delete(st.sessions, id)
		return nil
	})
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := access(*r).write(func(st *state) error {
		n = deleteExpired(st, now)
		return nil
	})
	return n, err
}
