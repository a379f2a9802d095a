package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

const uniqueViolation = "23505"

const createUsersTable = `CREATE TABLE IF NOT EXISTS app_users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	account_role  TEXT NOT NULL
)`

const userColumns = "id::text, username, password_hash, account_role"

// UserDirectory stores users in the app_users table.
type UserDirectory struct {
	db *sql.DB
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

func NewUserDirectory(db *sql.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// EnsureSchema creates app_users when it does not exist yet.
func (r *UserDirectory) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create app_users: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role); err != nil {
		return nil, err
	}
	u.AccountRole = domain.Role(role)
	return &u, nil
}

func (r *UserDirectory) Get(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM app_users WHERE id = $1", id)
	return r.single(row)
}

func (r *UserDirectory) GetByName(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM app_users WHERE username = $1", username)
	return r.single(row)
}

func (r *UserDirectory) single(row *sql.Row) (*domain.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *UserDirectory) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO app_users (id, username, password_hash, account_role) VALUES ($1, $2, $3, $4)",
		user.ID, user.Username, user.PasswordHash, string(user.AccountRole))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUsernameInUse
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	return &created, nil
}

func (r *UserDirectory) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM app_users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserDirectory) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE app_users SET account_role = $2 WHERE id = $1 RETURNING "+userColumns,
		id, string(role))
	return r.single(row)
}

func (r *UserDirectory) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
