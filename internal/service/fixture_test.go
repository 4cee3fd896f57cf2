package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	organizerA = &model.Claims{UserID: "org-a", Name: "Org A", Role: model.RoleOrganizer}
	organizerB = &model.Claims{UserID: "org-b", Name: "Org B", Role: model.RoleOrganizer}
	admin      = &model.Claims{UserID: "admin-1", Name: "Admin", Role: model.RoleAdmin}
	alice      = &model.Claims{UserID: "user-alice", Name: "Alice", Role: model.RoleUser}
	bob        = &model.Claims{UserID: "user-bob", Name: "Bob", Role: model.RoleUser}
)

type fixture struct {
	store    *repository.MemoryStore
	events   *EventService
	bookings *BookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	log := zaptest.NewLogger(t)
	events := NewEventService(store.Events(), store.Events(), log)
	return &fixture{
		store:    store,
		events:   events,
		bookings: NewBookingService(store.Bookings(), events, store.Events(), log),
	}
}

func (f *fixture) createEvent(t *testing.T, owner *model.Claims, seats int) *model.Event {
	t.Helper()
	e, err := f.events.Create(context.Background(), owner, model.CreateEventRequest{
		Title:       "Go Meetup",
		Description: "Talks and pizza",
		Location:    "Hall 3",
		Date:        time.Now().Add(48 * time.Hour),
		Seats:       seats,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) seats(t *testing.T, eventID string) int {
	t.Helper()
	e, err := f.events.Get(context.Background(), eventID)
	require.NoError(t, err)
	return e.Seats
}

func attendee(name string) model.Attendee {
	return model.Attendee{Name: name, Email: name + "@example.com", Contact: "9876543210"}
}
