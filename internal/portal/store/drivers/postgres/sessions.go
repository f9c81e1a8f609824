package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
)

const (
	createSession = `INSERT INTO sessions (id, user_id, expires_at, created_at)
VALUES ($1, $2, $3, $4)`

	getSession = `SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = $1`

	getSessionWithUser = `SELECT s.id, s.user_id, s.expires_at, s.created_at, u.email, u.is_admin
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.id = $1`

	deleteSession = `DELETE FROM sessions WHERE id = $1`

	deleteExpiredSessions = `DELETE FROM sessions WHERE expires_at < $1`
)

type sessionsRepo struct {
	db DBTX
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, createSession,
		s.ID,
		s.UserID,
		s.ExpiresAt.UTC(),
		s.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx, getSession, id).Scan(
		&s.ID,
		&s.UserID,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *sessionsRepo) GetSessionWithUser(ctx context.Context, id string) (domain.SessionWithUser, error) {
	var s domain.SessionWithUser
	err := r.db.QueryRowContext(ctx, getSessionWithUser, id).Scan(
		&s.ID,
		&s.UserID,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.Email,
		&s.IsAdmin,
	)
	if err != nil {
		return domain.SessionWithUser{}, mapNotFound(err)
	}
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteSession, id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSessions, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
