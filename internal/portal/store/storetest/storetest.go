// Package storetest holds behavioural tests shared by every store driver.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/aussiebroadwan/portal/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated store for a single subtest.
type Factory func(t *testing.T) store.Store

var base = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// Run exercises the full store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("duplicate email", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("session id collision", func(t *testing.T) { testSessionCollision(t, newStore(t)) })
	t.Run("session for unknown user", func(t *testing.T) { testSessionUnknownUser(t, newStore(t)) })
	t.Run("delete is idempotent", func(t *testing.T) { testDeleteIdempotent(t, newStore(t)) })
	t.Run("delete expired", func(t *testing.T) { testDeleteExpired(t, newStore(t)) })
	t.Run("tx commit", func(t *testing.T) { testTxCommit(t, newStore(t)) })
	t.Run("tx rollback", func(t *testing.T) { testTxRollback(t, newStore(t)) })
	t.Run("ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(t.Context())) })
}

// User builds a user with a fresh id for the given email.
func User(email string, admin bool) domain.User {
	return domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Salt:      "c2FsdA==",
		Hash:      "aGFzaA==",
		IsAdmin:   admin,
		CreatedAt: base,
	}
}

// Session builds a session for userID expiring at expires.
func Session(id, userID string, expires time.Time) domain.Session {
	return domain.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: expires,
		CreatedAt: base,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := t.Context()

	u := User("alice@example.com", true)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byEmail, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, u.Salt, byEmail.Salt)
	require.Equal(t, u.Hash, byEmail.Hash)
	require.True(t, byEmail.IsAdmin)
	require.True(t, u.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", byID.Email)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDuplicateEmail(t *testing.T, s store.Store) {
	ctx := t.Context()

	require.NoError(t, s.Users().CreateUser(ctx, User("dup@example.com", false)))
	err := s.Users().CreateUser(ctx, User("dup@example.com", false))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Emails are compared exactly.
	require.NoError(t, s.Users().CreateUser(ctx, User("Dup@example.com", false)))
}

func testSessions(t *testing.T, s store.Store) {
	ctx := t.Context()

	u := User("bob@example.com", false)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	expires := base.AddDate(0, 1, 0)
	require.NoError(t, s.Sessions().CreateSession(ctx, Session("tok-1", u.ID, expires)))

	got, err := s.Sessions().GetSession(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.True(t, expires.Equal(got.ExpiresAt), "expires round-trips: %v vs %v", expires, got.ExpiresAt)

	joined, err := s.Sessions().GetSessionWithUser(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "tok-1", joined.ID)
	require.Equal(t, "bob@example.com", joined.Email)
	require.False(t, joined.IsAdmin)

	_, err = s.Sessions().GetSession(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Sessions().GetSessionWithUser(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Sessions().DeleteSession(ctx, "tok-1"))
	_, err = s.Sessions().GetSession(ctx, "tok-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testSessionCollision(t *testing.T, s store.Store) {
	ctx := t.Context()

	u := User("carol@example.com", false)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Sessions().CreateSession(ctx, Session("same", u.ID, base)))
	err := s.Sessions().CreateSession(ctx, Session("same", u.ID, base))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testSessionUnknownUser(t *testing.T, s store.Store) {
	err := s.Sessions().CreateSession(t.Context(), Session("orphan", idx.New().String(), base))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteIdempotent(t *testing.T, s store.Store) {
	ctx := t.Context()

	require.NoError(t, s.Sessions().DeleteSession(ctx, "never-existed"))

	u := User("dave@example.com", false)
	require.NoError(t, s.Users().CreateUser(ctx, u))
	require.NoError(t, s.Sessions().CreateSession(ctx, Session("twice", u.ID, base)))

	require.NoError(t, s.Sessions().DeleteSession(ctx, "twice"))
	require.NoError(t, s.Sessions().DeleteSession(ctx, "twice"))
}

func testDeleteExpired(t *testing.T, s store.Store) {
	ctx := t.Context()

	u := User("erin@example.com", false)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	now := base
	require.NoError(t, s.Sessions().CreateSession(ctx, Session("old", u.ID, now.Add(-time.Hour))))
	require.NoError(t, s.Sessions().CreateSession(ctx, Session("older", u.ID, now.AddDate(0, -1, 0))))
	require.NoError(t, s.Sessions().CreateSession(ctx, Session("boundary", u.ID, now)))
	require.NoError(t, s.Sessions().CreateSession(ctx, Session("fresh", u.ID, now.Add(time.Second))))

	n, err := s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	// A session expiring exactly now is still valid.
	_, err = s.Sessions().GetSession(ctx, "boundary")
	require.NoError(t, err)
	_, err = s.Sessions().GetSession(ctx, "fresh")
	require.NoError(t, err)
	_, err = s.Sessions().GetSession(ctx, "old")
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err = s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)
}

func testTxCommit(t *testing.T, s store.Store) {
	ctx := t.Context()
	u := User("frank@example.com", false)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.Sessions().CreateSession(ctx, Session("tx-tok", u.ID, base))
	})
	require.NoError(t, err)

	joined, err := s.Sessions().GetSessionWithUser(ctx, "tx-tok")
	require.NoError(t, err)
	require.Equal(t, "frank@example.com", joined.Email)
}

func testTxRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := User("grace@example.com", false)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		if err := tx.Sessions().CreateSession(ctx, Session("rb-tok", u.ID, base)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByEmail(ctx, "grace@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Sessions().GetSession(ctx, "rb-tok")
	require.ErrorIs(t, err, store.ErrNotFound)
}
