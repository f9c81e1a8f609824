package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/aussiebroadwan/portal/internal/portal/store/drivers/memory"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// clock is a settable time source for tests.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// countingStore wraps a store and records DeleteSession calls per id.
type countingStore struct {
	store.Store

	mu      sync.Mutex
	deletes map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.NewStore(), deletes: make(map[string]int)}
}

func (c *countingStore) Sessions() store.Sessions {
	return &countingSessions{Sessions: c.Store.Sessions(), parent: c}
}

func (c *countingStore) deleteCount(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deletes[id]
}

type countingSessions struct {
	store.Sessions
	parent *countingStore
}

func (s *countingSessions) DeleteSession(ctx context.Context, id string) error {
	s.parent.mu.Lock()
	s.parent.deletes[id]++
	s.parent.mu.Unlock()
	return s.Sessions.DeleteSession(ctx, id)
}

var errStoreDown = errors.New("store down")

// brokenStore fails every session and user lookup.
type brokenStore struct {
	store.Store
}

func (b brokenStore) Sessions() store.Sessions { return brokenSessions{b.Store.Sessions()} }
func (b brokenStore) Users() store.Users       { return brokenUsers{b.Store.Users()} }

type brokenSessions struct{ store.Sessions }

func (brokenSessions) GetSession(context.Context, string) (domain.Session, error) {
	return domain.Session{}, errStoreDown
}

func (brokenSessions) GetSessionWithUser(context.Context, string) (domain.SessionWithUser, error) {
	return domain.SessionWithUser{}, errStoreDown
}

func (brokenSessions) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	return 0, errStoreDown
}

type brokenUsers struct{ store.Users }

func (brokenUsers) GetUserByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, errStoreDown
}

// newServices wires the services against st, all reading time from clk.
func newServices(t *testing.T, st store.Store, clk *clock) (*AccountService, *SessionService, *SessionGuard) {
	t.Helper()
	sessions := &SessionService{Store: st, Now: clk.Now}
	accounts := &AccountService{Store: st, Sessions: sessions, AdminEmails: []string{"root@example.com"}}
	guard := &SessionGuard{Store: st, Now: clk.Now}
	return accounts, sessions, guard
}

func mustRegister(t *testing.T, accounts *AccountService, email string) string {
	t.Helper()
	sess, err := accounts.Register(context.Background(), email, "pw")
	require.NoError(t, err)
	return sess.ID
}
