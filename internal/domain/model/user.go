package model

// User represents an authenticated dashboard user. PasswordHash holds the
// bcrypt hash produced at registration; the plaintext password never reaches
// the domain layer and is never persisted or logged.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}
