// Package memory is a map-backed store for tests and throwaway dev servers.
// Nothing survives a restart.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
)

// ErrClosed is returned by every operation once the store has been closed.
var ErrClosed = errors.New("memory: store closed")

type state struct {
	users        map[string]domain.User // by id
	usersByEmail map[string]string      // email -> id
	sessions     map[string]domain.Session
}

func newState() *state {
	return &state{
		users:        make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		sessions:     make(map[string]domain.Session),
	}
}

func (st *state) clone() *state {
	return &state{
		users:        maps.Clone(st.users),
		usersByEmail: maps.Clone(st.usersByEmail),
		sessions:     maps.Clone(st.sessions),
	}
}

type Store struct {
	mu     sync.RWMutex
	data   *state
	closed bool
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return ctx.Err()
}

// WithTx runs fn against a private copy of the data and swaps it in when fn
// succeeds. Transactions are serialised; other writers wait until it ends.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.data.clone()
	if err := fn(&txStore{data: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) Users() store.Users       { return &usersRepo{s: s} }
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{s: s} }

// read and write run f under the store lock against the committed data.
func (s *Store) read(f func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return f(s.data)
}

func (s *Store) write(f func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return f(s.data)
}

type txStore struct {
	data *state
}

func (t *txStore) Users() store.Users       { return &usersRepo{tx: t} }
func (t *txStore) Sessions() store.Sessions { return &sessionsRepo{tx: t} }

// access routes a repo call either through the locked store or straight to
// the transaction's working copy, which the caller of WithTx already owns.
type access struct {
	s  *Store
	tx *txStore
}

func (a access) read(f func(st *state) error) error {
	if a.tx != nil {
		return f(a.tx.data)
	}
	return a.s.read(f)
}

func (a access) write(f func(st *state) error) error {
	if a.tx != nil {
		return f(a.tx.data)
	}
	return a.s.write(f)
}

func createUser(st *state, u domain.User) error {
	if _, ok := st.usersByEmail[u.Email]; ok {
		return store.ErrAlreadyExists
	}
	if _, ok := st.users[u.ID]; ok {
		return store.ErrAlreadyExists
	}
	st.users[u.ID] = u
	st.usersByEmail[u.Email] = u.ID
	return nil
}

func createSession(st *state, sess domain.Session) error {
	if _, ok := st.users[sess.UserID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := st.sessions[sess.ID]; ok {
		return store.ErrAlreadyExists
	}
	st.sessions[sess.ID] = sess
	return nil
}

func deleteExpired(st *state, now time.Time) int64 {
	var n int64
	for id, sess := range st.sessions {
		if sess.Expired(now) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}
