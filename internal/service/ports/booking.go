package ports

import (
	"context"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
)

// BookingRepo reads bookings with their event summary attached. Writes go
// through EventTx.
type BookingRepo interface {
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByTicketID(ctx context.Context, ticketID string) (*model.Booking, error)
	List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, error)
	// MarkAttended flags an active booking as attended. It reports false
	// when the booking is not in BOOKED status.
	MarkAttended(ctx context.Context, id string) (bool, error)
}
