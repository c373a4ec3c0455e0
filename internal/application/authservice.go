// Package application holds the use-case services sitting between the HTTP
// adapter and the driven ports.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown username or a
// wrong password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned by Authenticate for a missing, malformed,
// expired or wrongly-signed token.
var ErrInvalidToken = errors.New("invalid or expired token")

// ValidationError reports a credential policy violation on a named field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 6
	passwordMaxLen = 50
)

// AuthService implements registration, login and bearer-token verification.
// Passwords are stored as bcrypt hashes; sessions are stateless HS256 JWTs.
type AuthService struct {
	users      driven.UserStore
	jwtSecret  []byte
	sessionTTL time.Duration
}

// NewAuthService creates an AuthService over the given user store.
func NewAuthService(users driven.UserStore, jwtSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

// Register validates the credential policy, hashes the password and stores
// the new user. Returns *ValidationError for policy violations and
// driven.ErrDuplicateUsername when the username is taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Register(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and returns a signed session token along
// with its expiry time.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := time.Now()
	expiry := now.Add(s.sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiry, nil
}

// Authenticate verifies a session token and returns the username it was
// issued for.
func (s *AuthService) Authenticate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func validateUsername(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return &ValidationError{Field: "username", Reason: fmt.Sprintf("must be %d-%d characters", usernameMinLen, usernameMaxLen)}
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return &ValidationError{Field: "username", Reason: "must contain only letters and digits"}
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be %d-%d characters", passwordMinLen, passwordMaxLen)}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return &ValidationError{Field: "password", Reason: "must contain an uppercase letter, a lowercase letter and a digit"}
	}
	return nil
}
