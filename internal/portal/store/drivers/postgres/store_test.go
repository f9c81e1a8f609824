package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStoreFromDB(db), mock
}

func q(query string) string { return "^" + regexp.QuoteMeta(query) + "$" }

var (
	created = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	expires = time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)
)

func TestCreateUser(t *testing.T) {
	s, mock := newStoreWithMock(t)
	u := domain.User{ID: "u1", Email: "a@example.com", Salt: "s", Hash: "h", IsAdmin: true, CreatedAt: created}

	mock.ExpectExec(q(createUser)).
		WithArgs("u1", "a@example.com", "s", "h", true, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Duplicate(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(q(createUser)).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"})

	err := s.Users().CreateUser(context.Background(), domain.User{ID: "u1", Email: "a@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCreateUser_OtherError(t *testing.T) {
	s, mock := newStoreWithMock(t)
	boom := errors.New("connection reset")

	mock.ExpectExec(q(createUser)).WillReturnError(boom)

	err := s.Users().CreateUser(context.Background(), domain.User{ID: "u1"})
	require.ErrorIs(t, err, boom)
}

func TestGetUserByEmail(t *testing.T) {
	s, mock := newStoreWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "email", "salt", "hash", "is_admin", "created_at"}).
		AddRow("u1", "a@example.com", "s", "h", false, created)
	mock.ExpectQuery(q(getUserByEmail)).WithArgs("a@example.com").WillReturnRows(rows)

	u, err := s.Users().GetUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, "s", u.Salt)
	require.Equal(t, "h", u.Hash)
	require.False(t, u.IsAdmin)
	require.True(t, created.Equal(u.CreatedAt))
}

func TestGetUserByID_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(q(getUserByID)).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := s.Users().GetUserByID(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateSession(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(q(createSession)).
		WithArgs("tok", "u1", expires, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Sessions().CreateSession(context.Background(), domain.Session{
		ID: "tok", UserID: "u1", ExpiresAt: expires, CreatedAt: created,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSession_ConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"id collision", uniqueViolation, store.ErrAlreadyExists},
		{"unknown user", foreignKeyViolation, store.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStoreWithMock(t)
			mock.ExpectExec(q(createSession)).WillReturnError(&pgconn.PgError{Code: tt.code})

			err := s.Sessions().CreateSession(context.Background(), domain.Session{ID: "tok", UserID: "u1"})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetSessionWithUser(t *testing.T) {
	s, mock := newStoreWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at", "email", "is_admin"}).
		AddRow("tok", "u1", expires, created, "a@example.com", true)
	mock.ExpectQuery(q(getSessionWithUser)).WithArgs("tok").WillReturnRows(rows)

	got, err := s.Sessions().GetSessionWithUser(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, "a@example.com", got.Email)
	require.True(t, got.IsAdmin)
	require.True(t, expires.Equal(got.ExpiresAt))
}

func TestGetSession_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(q(getSession)).WithArgs("tok").WillReturnError(sql.ErrNoRows)

	_, err := s.Sessions().GetSession(context.Background(), "tok")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteSession_Missing(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(q(deleteSession)).WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Sessions().DeleteSession(context.Background(), "gone"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredSessions(t *testing.T) {
	s, mock := newStoreWithMock(t)
	now := created.In(time.FixedZone("AEST", 10*60*60))

	mock.ExpectExec(q(deleteExpiredSessions)).WithArgs(created).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.Sessions().DeleteExpiredSessions(context.Background(), now)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestWithTx_Commit(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(createUser)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(createSession)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		if err := tx.Users().CreateUser(context.Background(), domain.User{ID: "u1"}); err != nil {
			return err
		}
		return tx.Sessions().CreateSession(context.Background(), domain.Session{ID: "tok", UserID: "u1"})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(createUser)).WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		return tx.Users().CreateUser(context.Background(), domain.User{ID: "u1"})
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}
