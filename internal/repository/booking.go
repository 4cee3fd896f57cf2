package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, event_id, user_id, created_by, name, email, contact, ticket_id, status, attended, created_at, updated_at`

// bookingSelect reads bookings together with their event, if it still exists.
const bookingSelect = `
	SELECT b.id, b.event_id, b.user_id, b.created_by, b.name, b.email, b.contact,
	       b.ticket_id, b.status, b.attended, b.created_at, b.updated_at,
	       e.id, e.title, e.location, e.date, e.organizer_id
	FROM bookings b
	LEFT JOIN events e ON e.id = b.event_id`

// BookingRepository handles reads and out-of-transaction writes for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBookingRow(row scanner) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.EventID, &b.UserID, &b.CreatedBy, &b.Name, &b.Email, &b.Contact,
		&b.TicketID, &b.Status, &b.Attended, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookingWithEvent(row scanner) (*model.Booking, error) {
	var (
		b                          model.Booking
		eventID, title, loc, orgID *string
		date                       *time.Time
	)
	err := row.Scan(&b.ID, &b.EventID, &b.UserID, &b.CreatedBy, &b.Name, &b.Email, &b.Contact,
		&b.TicketID, &b.Status, &b.Attended, &b.CreatedAt, &b.UpdatedAt,
		&eventID, &title, &loc, &date, &orgID)
	if err != nil {
		return nil, err
	}
	if eventID != nil {
		b.Event = &model.EventSummary{
			ID:          *eventID,
			Title:       deref(title),
			Location:    deref(loc),
			OrganizerID: deref(orgID),
		}
		if date != nil {
			b.Event.Date = *date
		}
	}
	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *BookingRepository) getOne(ctx context.Context, where string, arg any) (*model.Booking, error) {
	b, err := scanBookingWithEvent(r.db.QueryRow(ctx, bookingSelect+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// GetByID returns a booking or model.ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return r.getOne(ctx, `b.id = $1`, id)
}

// GetByTicketID returns the booking holding ticketID or model.ErrNotFound.
func (r *BookingRepository) GetByTicketID(ctx context.Context, ticketID string) (*model.Booking, error) {
	return r.getOne(ctx, `b.ticket_id = $1`, ticketID)
}

// List returns bookings matching f in creation order.
func (r *BookingRepository) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.UserID != "" {
		add(`b.user_id = ?`, f.UserID)
	}
	if f.OrganizerID != "" {
		add(`e.organizer_id = ?`, f.OrganizerID)
	}
	if f.EventID != "" {
		add(`b.event_id = ?`, f.EventID)
	}
	if f.ExcludeOrphans {
		conds = append(conds, `e.id IS NOT NULL`)
	}

	query := bookingSelect
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY b.created_at ASC, b.id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBookingWithEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// MarkAttended sets attended on an active booking in a single conditional
// update, so a concurrent cancel either lands first or not at all.
func (r *BookingRepository) MarkAttended(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings
		 SET attended = TRUE, updated_at = $2
		 WHERE id = $1 AND status = $3`,
		id, time.Now().UTC(), model.BookingStatusBooked,
	)
	if err != nil {
		return false, fmt.Errorf("mark attended: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
