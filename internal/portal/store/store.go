package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres, memory) implement this and hand out sub-repositories so
// transactional code can't accidentally reach past its Tx.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the store.
type Tx interface {
	Users() Users
	Sessions() Sessions
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

type Sessions interface {
	// CreateSession stores a new session. Returns ErrAlreadyExists on an id
	// collision and ErrNotFound when the owning user does not exist.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession returns the session with the given id.
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// GetSessionWithUser returns the session joined with its owner's role.
	GetSessionWithUser(ctx context.Context, id string) (domain.SessionWithUser, error)

	// DeleteSession removes a session. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes every session that expired before now and
	// returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
