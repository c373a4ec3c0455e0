package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TicketStore = (*TicketRepo)(nil)

// TicketRepo is the SQLite implementation of the TicketStore port interface.
type TicketRepo struct {
	db *DB
}

// NewTicketRepo creates a new TicketRepo backed by the given DB.
func NewTicketRepo(db *DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// Create inserts a new ticket. A zero CreatedDate is replaced with the
// current UTC time; bulk imports pass the timestamp from the source data.
func (r *TicketRepo) Create(ctx context.Context, ticket model.Ticket) (*model.Ticket, error) {
	const query = `INSERT INTO tickets (title, priority, status, created_date) VALUES (?, ?, ?, ?)`

	created := ticket.CreatedDate
	if created.IsZero() {
		created = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		ticket.Title, ticket.Priority, ticket.Status, created.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create ticket: last insert id: %w", err)
	}

	ticket.ID = id
	ticket.CreatedDate = created
	return &ticket, nil
}

// ListAll returns all tickets in ascending id order (creation order).
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	const query = `SELECT id, title, priority, status, created_date FROM tickets ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

// Get retrieves a ticket by id. Returns nil, nil when the id does not exist.
func (r *TicketRepo) Get(ctx context.Context, id int64) (*model.Ticket, error) {
	const query = `SELECT id, title, priority, status, created_date FROM tickets WHERE id = ?`

	ticket, err := scanTicket(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket %d: %w", id, err)
	}

	return ticket, nil
}

// Update sets the ticket's priority and status. Title and created_date are
// immutable after creation. Returns driven.ErrTicketNotFound when the id
// does not exist.
func (r *TicketRepo) Update(ctx context.Context, id int64, priority, status string) error {
	const query = `UPDATE tickets SET priority = ?, status = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, priority, status, id)
	if err != nil {
		return fmt.Errorf("update ticket %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update ticket %d: %w", id, driven.ErrTicketNotFound)
	}

	return nil
}

// Delete removes the ticket with the given id. No-op when the id is absent.
func (r *TicketRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tickets WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}

	return nil
}

// Count returns the number of tickets.
func (r *TicketRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets`

	var n int64
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}

	return n, nil
}

// scanTicket maps a row to a Ticket, substituting defaults for NULL or
// malformed columns: a placeholder title derived from the id, priority
// "Unknown", status "Open", and the current time for created_date.
func scanTicket(s scanner) (*model.Ticket, error) {
	var (
		ticket   model.Ticket
		title    sql.NullString
		priority sql.NullString
		status   sql.NullString
		created  sql.NullString
	)

	if err := s.Scan(&ticket.ID, &title, &priority, &status, &created); err != nil {
		return nil, err
	}

	ticket.Title = stringOr(title, fmt.Sprintf("Ticket %d problem description", ticket.ID))
	ticket.Priority = stringOr(priority, model.TicketPriorityUnknown)
	ticket.Status = stringOr(status, model.TicketStatusOpen)
	ticket.CreatedDate = timeOr(created, time.Now().UTC())

	return &ticket, nil
}
