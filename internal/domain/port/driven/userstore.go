package driven

import (
	"context"
	"errors"

	"github.com/pkarag/opsboard/internal/domain/model"
)

// ErrDuplicateUsername indicates a user with the same username already exists.
// The match is case-sensitive; the first registration wins and its stored hash
// is never overwritten.
var ErrDuplicateUsername = errors.New("username already exists")

// UserStore defines the driven port for credential persistence. The
// application layer hashes passwords before they cross this boundary; the
// store only ever sees bcrypt hashes.
type UserStore interface {
	// Exists reports whether a user with the given username is present.
	// Case-sensitive exact match.
	Exists(ctx context.Context, username string) (bool, error)

	// Register inserts a new user with the given bcrypt password hash.
	// Returns ErrDuplicateUsername when the username is already taken.
	Register(ctx context.Context, username, passwordHash string) (*model.User, error)

	// GetByUsername returns the user with the given username, or nil, nil
	// when no such user exists.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Count returns the number of registered users. Used as the load-once
	// guard for the legacy users.txt import.
	Count(ctx context.Context) (int64, error)
}
