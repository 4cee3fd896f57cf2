package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventService orchestrates event-related business operations and owns the
// seat counter arithmetic used by bookings.
type EventService struct {
	events ports.EventRepo
	tx     ports.Transactor
	log    *zap.Logger
	now    func() time.Time
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events ports.EventRepo, tx ports.Transactor, log *zap.Logger) *EventService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventService{events: events, tx: tx, log: log, now: utcNow}
}

// checkDate enforces the authoring window: strictly in the future and no
// more than one calendar month ahead.
func checkDate(date, now time.Time) error {
	if date.IsZero() {
		return invalid("date is required")
	}
	if !date.After(now) {
		return invalid("date must be in the future")
	}
	if date.After(now.AddDate(0, 1, 0)) {
		return invalid("date must be within one month from now")
	}
	return nil
}

// Create validates the request and stores a new event owned by actor.
func (s *EventService) Create(ctx context.Context, actor *model.Claims, req model.CreateEventRequest) (*model.Event, error) {
	if err := authorize(actor, model.RoleOrganizer, model.RoleAdmin); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	now := s.now()
	if err := checkDate(req.Date, now); err != nil {
		return nil, err
	}

	e := &model.Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date.UTC(),
		Capacity:    req.Seats,
		Seats:       req.Seats,
		OrganizerID: actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info("event created",
		zap.String("event_id", e.ID),
		zap.String("organizer_id", e.OrganizerID),
		zap.Int("capacity", e.Capacity),
	)
	return e, nil
}

// Get returns a single event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, invalid("event id is required")
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return e, nil
}

// List returns events in creation order.
func (s *EventService) List(ctx context.Context, f model.EventFilter) ([]*model.Event, error) {
	events, err := s.events.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Partition splits events into those strictly after now and the rest,
// preserving input order. Both results are non-nil.
func Partition(events []*model.Event, now time.Time) (upcoming, past []*model.Event) {
	upcoming = make([]*model.Event, 0, len(events))
	past = make([]*model.Event, 0)
	for _, e := range events {
		if e.Date.After(now) {
			upcoming = append(upcoming, e)
		} else {
			past = append(past, e)
		}
	}
	return upcoming, past
}

// ListPartitioned lists events and splits them around now.
func (s *EventService) ListPartitioned(ctx context.Context, f model.EventFilter, now time.Time) (upcoming, past []*model.Event, err error) {
	events, err := s.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	upcoming, past = Partition(events, now)
	return upcoming, past, nil
}

// Update applies a partial update under the event lock so the capacity
// rule sees a stable count of active bookings.
func (s *EventService) Update(ctx context.Context, actor *model.Claims, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if err := authorize(actor, model.RoleOrganizer, model.RoleAdmin); err != nil {
		return nil, err
	}
	if trimmed(req.Title) || trimmed(req.Description) || trimmed(req.Location) {
		return nil, invalid("title, description and location cannot be blank")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var updated *model.Event
	err := s.tx.WithEventLock(ctx, id, func(ctx context.Context, tx ports.EventTx, e *model.Event) error {
		if !e.OwnedBy(actor) {
			return model.ErrForbidden
		}
		now := s.now()
		if req.Title != nil {
			e.Title = *req.Title
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Location != nil {
			e.Location = *req.Location
		}
		if req.Date != nil && !req.Date.Equal(e.Date) {
			if err := checkDate(*req.Date, now); err != nil {
				return err
			}
			e.Date = req.Date.UTC()
		}
		if req.Seats != nil {
			active := e.Active()
			if *req.Seats < active {
				return invalid("seats cannot be lower than the %d active bookings", active)
			}
			e.Capacity = *req.Seats
			e.Seats = *req.Seats - active
		}
		e.UpdatedAt = now
		if err := tx.SaveEvent(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	s.log.Info("event updated", zap.String("event_id", id), zap.String("actor_id", actor.UserID))
	return updated, nil
}

// Delete removes an event. Its bookings remain as orphans.
func (s *EventService) Delete(ctx context.Context, actor *model.Claims, id string) error {
	if err := authorize(actor, model.RoleOrganizer, model.RoleAdmin); err != nil {
		return err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !e.OwnedBy(actor) {
		return model.ErrForbidden
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	s.log.Info("event deleted",
		zap.String("event_id", id),
		zap.String("actor_id", actor.UserID),
		zap.Int("active_bookings", e.Active()),
	)
	return nil
}

// reserveSeat takes one seat from the locked event.
func (s *EventService) reserveSeat(ctx context.Context, tx ports.EventTx, e *model.Event) error {
	if e.IsFull() {
		return model.ErrSoldOut
	}
	e.Seats--
	e.UpdatedAt = s.now()
	return tx.SaveEvent(ctx, e)
}

// releaseSeat returns one seat to the locked event, never above capacity.
func (s *EventService) releaseSeat(ctx context.Context, tx ports.EventTx, e *model.Event) error {
	if e.Seats >= e.Capacity {
		return nil
	}
	e.Seats++
	e.UpdatedAt = s.now()
	return tx.SaveEvent(ctx, e)
}
