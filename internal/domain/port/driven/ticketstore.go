package driven

import (
	"context"
	"errors"

	"github.com/pkarag/opsboard/internal/domain/model"
)

// ErrTicketNotFound indicates the requested ticket does not exist.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketStore defines the driven port for IT ticket persistence.
//
// ListAll returns tickets in ascending id order (creation order). Update
// touches only priority and status; title and created_date are immutable
// after creation. Delete is a silent no-op when the id does not exist.
type TicketStore interface {
	// Create inserts a new ticket and returns it with the store-assigned id.
	// A zero CreatedDate is replaced with the current UTC time; a non-zero
	// value (bulk import) is preserved.
	Create(ctx context.Context, ticket model.Ticket) (*model.Ticket, error)

	ListAll(ctx context.Context) ([]model.Ticket, error)

	// Get returns the ticket with the given id, or nil, nil when absent.
	Get(ctx context.Context, id int64) (*model.Ticket, error)

	// Update sets the ticket's priority and status. Returns ErrTicketNotFound
	// when the id does not exist.
	Update(ctx context.Context, id int64, priority, status string) error

	Delete(ctx context.Context, id int64) error

	// Count returns the number of tickets. Used as the load-once import guard.
	Count(ctx context.Context) (int64, error)
}
