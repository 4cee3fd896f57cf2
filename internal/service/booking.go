package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/pager"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxTicketAttempts bounds how often a booking is retried after its ticket
// id collided with an existing one.
const maxTicketAttempts = 5

// BookingService runs the ticket lifecycle: booking, cancellation and
// verification at entry.
type BookingService struct {
	bookings ports.BookingRepo
	events   *EventService
	tx       ports.Transactor
	log      *zap.Logger

	newTicketID func() string
	now         func() time.Time
}

// NewBookingService constructs a BookingService. events supplies the seat
// arithmetic; tx must be the same store's transactor.
func NewBookingService(bookings ports.BookingRepo, events *EventService, tx ports.Transactor, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		bookings:    bookings,
		events:      events,
		tx:          tx,
		log:         log,
		newTicketID: NewTicketID,
		now:         utcNow,
	}
}

// NewTicketID returns a random ticket code such as TKT-3F9A0C41B27D4E86.
func NewTicketID() string {
	id := uuid.New()
	return "TKT-" + strings.ToUpper(fmt.Sprintf("%x", id[:8]))
}

// Book registers the calling user for an event.
func (s *BookingService) Book(ctx context.Context, actor *model.Claims, eventID string, a model.Attendee) (*model.Booking, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	a = normalizeAttendee(a)
	if err := validateStruct(a); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, invalid("event_id is required")
	}
	return s.issue(ctx, actor, eventID, a, actor.UserID, nil)
}

// BookManual registers a walk-in attendee on behalf of the event's
// organizer or an admin. The booking has no attendee account.
func (s *BookingService) BookManual(ctx context.Context, actor *model.Claims, eventID string, a model.Attendee) (*model.Booking, error) {
	if err := authorize(actor, model.RoleOrganizer, model.RoleAdmin); err != nil {
		return nil, err
	}
	a = normalizeAttendee(a)
	if err := validateStruct(a); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, invalid("event_id is required")
	}
	return s.issue(ctx, actor, eventID, a, "", func(e *model.Event) error {
		if !e.OwnedBy(actor) {
			return model.ErrForbidden
		}
		return nil
	})
}

// issue reserves a seat and inserts the booking in one event-scoped
// transaction. A ticket id collision re-runs the whole transaction.
func (s *BookingService) issue(
	ctx context.Context,
	actor *model.Claims,
	eventID string,
	a model.Attendee,
	userID string,
	check func(*model.Event) error,
) (*model.Booking, error) {
	for attempt := 1; ; attempt++ {
		now := s.now()
		b := &model.Booking{
			ID:        uuid.NewString(),
			EventID:   eventID,
			UserID:    userID,
			CreatedBy: actor.UserID,
			Name:      a.Name,
			Email:     a.Email,
			Contact:   a.Contact,
			TicketID:  s.newTicketID(),
			Status:    model.BookingStatusBooked,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := s.tx.WithEventLock(ctx, eventID, func(ctx context.Context, tx ports.EventTx, e *model.Event) error {
			if check != nil {
				if err := check(e); err != nil {
					return err
				}
			}
			if err := s.events.reserveSeat(ctx, tx, e); err != nil {
				return err
			}
			b.Event = e.Summary()
			return tx.InsertBooking(ctx, b)
		})
		switch {
		case err == nil:
			s.log.Info("booking created",
				zap.String("booking_id", b.ID),
				zap.String("event_id", eventID),
				zap.String("ticket_id", b.TicketID),
				zap.String("created_by", actor.UserID),
				zap.Bool("manual", userID == ""),
			)
			return b, nil
		case errors.Is(err, model.ErrConflict) && attempt < maxTicketAttempts:
			s.log.Warn("ticket id collision, retrying",
				zap.String("event_id", eventID),
				zap.Int("attempt", attempt),
			)
		case errors.Is(err, model.ErrConflict):
			return nil, fmt.Errorf("issue ticket after %d attempts: %w", attempt, err)
		default:
			return nil, fmt.Errorf("book event %s: %w", eventID, err)
		}
	}
}

// canCancel reports whether actor may cancel b: its attendee, the owning
// organizer of its event, or an admin.
func canCancel(actor *model.Claims, b *model.Booking) bool {
	switch {
	case actor.IsAdmin():
		return true
	case b.UserID != "" && b.UserID == actor.UserID:
		return true
	case actor.Role == model.RoleOrganizer && b.Event != nil && b.Event.OrganizerID == actor.UserID:
		return true
	}
	return false
}

// Cancel moves a booking to CANCELLED and restores its seat. Cancelling an
// already cancelled booking succeeds without touching the seat counter.
func (s *BookingService) Cancel(ctx context.Context, actor *model.Claims, id string) (*model.Booking, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	if b.Orphaned() {
		return nil, fmt.Errorf("booking %s: event no longer exists: %w", id, model.ErrNotFound)
	}
	if !canCancel(actor, b) {
		return nil, model.ErrForbidden
	}

	var (
		out     *model.Booking
		changed bool
	)
	err = s.tx.WithEventLock(ctx, b.EventID, func(ctx context.Context, tx ports.EventTx, e *model.Event) error {
		locked, err := tx.LockBooking(ctx, id)
		if err != nil {
			return err
		}
		out = locked
		if locked.Cancelled() {
			return nil
		}
		locked.Status = model.BookingStatusCancelled
		locked.UpdatedAt = s.now()
		if err := tx.SaveBookingStatus(ctx, locked); err != nil {
			return err
		}
		changed = true
		return s.events.releaseSeat(ctx, tx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", id, err)
	}
	if changed {
		s.log.Info("booking cancelled",
			zap.String("booking_id", id),
			zap.String("event_id", b.EventID),
			zap.String("actor_id", actor.UserID),
		)
	}
	return out, nil
}

// Verify checks a ticket at entry. A live ticket is marked attended and
// disclosed in full; a cancelled one yields only its id and status.
func (s *BookingService) Verify(ctx context.Context, ticketID string) (*model.VerificationResult, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, invalid("ticket_id is required")
	}
	b, err := s.bookings.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket %s: %w", ticketID, err)
	}
	if b.Orphaned() {
		return nil, fmt.Errorf("ticket %s: event no longer exists: %w", ticketID, model.ErrNotFound)
	}
	if b.Cancelled() {
		return cancelledResult(b), nil
	}

	ok, err := s.bookings.MarkAttended(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("verify ticket %s: %w", ticketID, err)
	}
	if !ok {
		// A cancel committed between the read and the update.
		s.log.Info("ticket cancelled during verification", zap.String("ticket_id", ticketID))
		b.Status = model.BookingStatusCancelled
		return cancelledResult(b), nil
	}
	b.Attended = true

	s.log.Info("ticket verified",
		zap.String("ticket_id", ticketID),
		zap.String("booking_id", b.ID),
		zap.String("event_id", b.EventID),
	)
	return &model.VerificationResult{
		Valid: true,
		Ticket: &model.Ticket{
			BookingID:  b.ID,
			TicketID:   b.TicketID,
			Name:       b.Name,
			Email:      b.Email,
			EventID:    b.EventID,
			EventTitle: b.Event.Title,
			EventDate:  b.Event.Date,
			Attended:   b.Attended,
		},
	}, nil
}

func cancelledResult(b *model.Booking) *model.VerificationResult {
	return &model.VerificationResult{
		Valid:   false,
		Details: &model.TicketDetails{BookingID: b.ID, Status: b.Status},
	}
}

// ListFor returns the bookings visible to actor: their own as a user,
// those of their events as an organizer, everything as an admin.
func (s *BookingService) ListFor(ctx context.Context, actor *model.Claims) ([]*model.Booking, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	var f model.BookingFilter
	switch actor.Role {
	case model.RoleUser:
		f = model.BookingFilter{UserID: actor.UserID, ExcludeOrphans: true}
	case model.RoleOrganizer:
		f = model.BookingFilter{OrganizerID: actor.UserID, ExcludeOrphans: true}
	case model.RoleAdmin:
	default:
		return nil, model.ErrForbidden
	}
	return s.list(ctx, f)
}

// ListForEvent returns the attendee list of one event for its owner or an
// admin.
func (s *BookingService) ListForEvent(ctx context.Context, actor *model.Claims, eventID string) ([]*model.Booking, error) {
	if err := authorize(actor, model.RoleOrganizer, model.RoleAdmin); err != nil {
		return nil, err
	}
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.OwnedBy(actor) {
		return nil, model.ErrForbidden
	}
	return s.list(ctx, model.BookingFilter{EventID: eventID})
}

// ListAll pages through every booking, orphans included.
func (s *BookingService) ListAll(ctx context.Context, actor *model.Claims, page, pageSize int) (pager.Page[*model.Booking], error) {
	if err := authorize(actor, model.RoleAdmin); err != nil {
		return pager.Page[*model.Booking]{}, err
	}
	all, err := s.list(ctx, model.BookingFilter{})
	if err != nil {
		return pager.Page[*model.Booking]{}, err
	}
	return pager.Paginate(all, pageSize, page), nil
}

func (s *BookingService) list(ctx context.Context, f model.BookingFilter) ([]*model.Booking, error) {
	bookings, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}
