package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, title, description, location, date, capacity, seats, organizer_id, created_at, updated_at`

// EventRepository handles persistence for events and owns the event-scoped
// transaction used for seat accounting.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row scanner) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.Date,
		&e.Capacity, &e.Seats, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Title, e.Description, e.Location, e.Date,
		e.Capacity, e.Seats, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event or model.ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// List returns events in creation order, optionally restricted to one
// organizer.
func (r *EventRepository) List(ctx context.Context, f model.EventFilter) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if f.OrganizerID != "" {
		query += ` WHERE organizer_id = $1`
		args = append(args, f.OrganizerID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Delete removes the event row. Its bookings are left in place and read
// back as orphans.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// WithEventLock runs fn inside a transaction holding a row-level lock on
// the event.
//
// Two bookers racing for the last seat would both read seats=1 under a
// plain SELECT and both write seats=0. SELECT … FOR UPDATE blocks the
// second transaction until the first commits or rolls back, so the second
// one reads seats=0 and fails with sold out.
func (r *EventRepository) WithEventLock(
	ctx context.Context,
	eventID string,
	fn func(ctx context.Context, tx ports.EventTx, e *model.Event) error,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	e, err := scanEvent(tx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	if err := fn(ctx, &pgEventTx{tx: tx, event: e}, e); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pgEventTx is the ports.EventTx view of an open pgx transaction.
type pgEventTx struct {
	tx    pgx.Tx
	event *model.Event
}

func (t *pgEventTx) SaveEvent(ctx context.Context, e *model.Event) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, location = $4, date = $5,
		     capacity = $6, seats = $7, updated_at = $8
		 WHERE id = $1`,
		e.ID, e.Title, e.Description, e.Location, e.Date, e.Capacity, e.Seats, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (t *pgEventTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.EventID, b.UserID, b.CreatedBy, b.Name, b.Email, b.Contact,
		b.TicketID, b.Status, b.Attended, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "bookings_ticket_id_key") {
			return fmt.Errorf("ticket id %q: %w", b.TicketID, model.ErrConflict)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (t *pgEventTx) LockBooking(ctx context.Context, id string) (*model.Booking, error) {
	b, err := scanBookingRow(t.tx.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE id = $1 AND event_id = $2
		 FOR UPDATE`,
		id, t.event.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("lock booking row: %w", err)
	}
	b.Event = t.event.Summary()
	return b, nil
}

func (t *pgEventTx) SaveBookingStatus(ctx context.Context, b *model.Booking) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		b.ID, b.Status, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}
