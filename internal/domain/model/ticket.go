package model

import "time"

// Ticket represents an IT support ticket. Priority and Status carry the
// well-known values from enums.go but are stored as free text, so rows
// imported from older data may hold arbitrary strings.
type Ticket struct {
	ID          int64
	Title       string
	Priority    string
	Status      string
	CreatedDate time.Time // set once at creation, immutable afterwards
}
