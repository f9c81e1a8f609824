package postgres

import (
	"context"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
)

const (
	selectUser = `SELECT id, email, salt, hash, is_admin, created_at FROM users`

	getUserByID    = selectUser + ` WHERE id = $1`
	getUserByEmail = selectUser + ` WHERE email = $1`

	createUser = `INSERT INTO users (id, email, salt, hash, is_admin, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
)

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, getUserByID, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, getUserByEmail, email)
}

func (r *usersRepo) getOne(ctx context.Context, query string, arg string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Salt,
		&u.Hash,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, createUser,
		u.ID,
		u.Email,
		u.Salt,
		u.Hash,
		u.IsAdmin,
		u.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}
