package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
// It only ever handles bcrypt hashes; plaintext passwords stay in the
// application layer.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Exists reports whether a user with the given username is present.
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT 1 FROM users WHERE username = ?`

	var one int
	err := r.db.Reader.QueryRowContext(ctx, query, username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user %q: %w", username, err)
	}

	return true, nil
}

// Register inserts a new user row. Returns driven.ErrDuplicateUsername when
// the username is already taken; the existing row is left untouched.
func (r *UserRepo) Register(ctx context.Context, username, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (username, password_hash) VALUES (?, ?)`

	result, err := r.db.Writer.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("register user %q: %w", username, driven.ErrDuplicateUsername)
		}
		return nil, fmt.Errorf("register user %q: %w", username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("register user %q: last insert id: %w", username, err)
	}

	return &model.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

// GetByUsername returns the user with the given username, or nil, nil when
// no such user exists.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id, username, password_hash FROM users WHERE username = ?`

	var user model.User
	err := r.db.Reader.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}

	return &user, nil
}

// Count returns the number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM users`

	var n int64
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return n, nil
}
