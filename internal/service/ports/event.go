package ports

import (
	"context"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
)

// EventRepo persists events outside of seat-changing transactions.
type EventRepo interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, f model.EventFilter) ([]*model.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventTx is storage as seen from inside an event-scoped transaction. The
// event row stays locked until the transaction ends.
type EventTx interface {
	SaveEvent(ctx context.Context, e *model.Event) error
	// InsertBooking returns model.ErrConflict when the ticket id is taken.
	InsertBooking(ctx context.Context, b *model.Booking) error
	// LockBooking returns model.ErrNotFound unless the booking belongs to
	// the locked event.
	LockBooking(ctx context.Context, id string) (*model.Booking, error)
	SaveBookingStatus(ctx context.Context, b *model.Booking) error
}

// Transactor runs fn with eventID locked. A non-nil error from fn discards
// every write made through tx. A missing event yields model.ErrNotFound
// without calling fn.
type Transactor interface {
	WithEventLock(ctx context.Context, eventID string, fn func(ctx context.Context, tx EventTx, e *model.Event) error) error
}
