package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

var columns = []string{"id", "username", "password_hash", "account_role"}

const aliceID = "5f0c9a1e-0000-4000-8000-000000000001"

func newMockDirectory(t *testing.T) (*UserDirectory, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserDirectory(db), mock
}

func TestUserDirectory_EnsureSchema(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_users").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, dir.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDirectory_GetByName(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM app_users WHERE username = $1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(aliceID, "alice", "hash", "User"))

	u, err := dir.GetByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: aliceID, Username: "alice", PasswordHash: "hash", AccountRole: domain.RoleUser}, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDirectory_GetMissing(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM app_users WHERE id = $1")).
		WithArgs(aliceID).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := dir.Get(context.Background(), aliceID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDirectory_GetQueryError(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectQuery("FROM app_users").WillReturnError(errors.New("connection reset"))

	_, err := dir.Get(context.Background(), aliceID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDirectory_Insert(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_users")).
		WithArgs(aliceID, "alice", "hash", "User").
		WillReturnResult(sqlmock.NewResult(0, 1))

	in := &domain.User{ID: aliceID, Username: "alice", PasswordHash: "hash", AccountRole: domain.RoleUser}
	u, err := dir.Insert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDirectory_InsertDuplicate(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_users")).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, Message: "duplicate key value"})

	_, err := dir.Insert(context.Background(), &domain.User{ID: aliceID, Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrUsernameInUse)
}

func TestUserDirectory_List(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM app_users ORDER BY username")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(aliceID, "alice", "h1", "Admin").
			AddRow("5f0c9a1e-0000-4000-8000-000000000002", "bob", "h2", "User"))

	users, err := dir.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, domain.RoleAdmin, users[0].AccountRole)
	assert.Equal(t, "bob", users[1].Username)
}

func TestUserDirectory_UpdateRole(t *testing.T) {
	dir, mock := newMockDirectory(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE app_users SET account_role = $2 WHERE id = $1")).
		WithArgs(aliceID, "Admin").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(aliceID, "alice", "h", "Admin"))

	u, err := dir.UpdateRole(context.Background(), aliceID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.AccountRole)

	mock.ExpectQuery("UPDATE app_users").WillReturnRows(sqlmock.NewRows(columns))
	_, err = dir.UpdateRole(context.Background(), aliceID, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
