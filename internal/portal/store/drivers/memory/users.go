package memory

import (
	"context"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
)

type usersRepo access

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := access(*r).read(func(st *state) error {
		found, ok := st.users[id]
		if !ok {
			return store.ErrNotFound
		}
		u = found
		return nil
	})
	return u, err
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := access(*r).read(func(st *state) error {
		id, ok := st.usersByEmail[email]
		if !ok {
			return store.ErrNotFound
		}
		u = st.users[id]
		return nil
	})
	return u, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	return access(*r).write(func(st *state) error {
		return createUser(st, u)
	})
}
