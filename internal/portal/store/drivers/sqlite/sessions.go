package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	err := r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:        s.ID,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt.UTC(),
		CreatedAt: s.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	row, err := r.q.GetSession(ctx, id)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) GetSessionWithUser(ctx context.Context, id string) (domain.SessionWithUser, error) {
	row, err := r.q.GetSessionWithUser(ctx, id)
	if err != nil {
		return domain.SessionWithUser{}, mapNotFound(err)
	}
	return mapSessionWithUser(row), nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	return r.q.DeleteSession(ctx, id)
}

// Times are stored as UTC text, so string comparison in SQL orders correctly.
func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.DeleteExpiredSessions(ctx, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
