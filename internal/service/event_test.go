package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEventRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		Title:       "Concert",
		Description: "Live music",
		Location:    "Main stage",
		Date:        time.Now().Add(72 * time.Hour),
		Seats:       100,
	}
}

func TestEventService_Create_Success(t *testing.T) {
	f := newFixture(t)

	e, err := f.events.Create(context.Background(), organizerA, validEventRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 100, e.Capacity)
	assert.Equal(t, 100, e.Seats)
	assert.Equal(t, organizerA.UserID, e.OrganizerID)
}

func TestEventService_Create_Roles(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.Create(context.Background(), alice, validEventRequest())
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.events.Create(context.Background(), nil, validEventRequest())
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = f.events.Create(context.Background(), admin, validEventRequest())
	assert.NoError(t, err)
}

func TestEventService_Create_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*model.CreateEventRequest)
	}{
		{"blank title", func(r *model.CreateEventRequest) { r.Title = "   " }},
		{"missing description", func(r *model.CreateEventRequest) { r.Description = "" }},
		{"missing location", func(r *model.CreateEventRequest) { r.Location = "" }},
		{"negative seats", func(r *model.CreateEventRequest) { r.Seats = -1 }},
		{"too many seats", func(r *model.CreateEventRequest) { r.Seats = 100_001 }},
		{"missing date", func(r *model.CreateEventRequest) { r.Date = time.Time{} }},
		{"past date", func(r *model.CreateEventRequest) { r.Date = time.Now().Add(-time.Hour) }},
		{"beyond one month", func(r *model.CreateEventRequest) { r.Date = time.Now().AddDate(0, 1, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEventRequest()
			tt.mutate(&req)
			_, err := f.events.Create(context.Background(), organizerA, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestEventService_Create_ZeroSeats(t *testing.T) {
	f := newFixture(t)
	req := validEventRequest()
	req.Seats = 0

	e, err := f.events.Create(context.Background(), organizerA, req)

	require.NoError(t, err)
	assert.True(t, e.IsFull())
}

func TestEventService_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEventService_List_ByOrganizer(t *testing.T) {
	f := newFixture(t)
	first := f.createEvent(t, organizerA, 1)
	f.createEvent(t, organizerB, 1)
	second := f.createEvent(t, organizerA, 1)

	mine, err := f.events.List(context.Background(), model.EventFilter{OrganizerID: organizerA.UserID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, second.ID, mine[1].ID)

	all, err := f.events.List(context.Background(), model.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPartition(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	events := []*model.Event{
		{ID: "a", Date: now.Add(time.Hour)},
		{ID: "b", Date: now.Add(-time.Hour)},
		{ID: "c", Date: now},
		{ID: "d", Date: now.Add(2 * time.Hour)},
	}

	upcoming, past := Partition(events, now)

	ids := func(es []*model.Event) []string {
		out := make([]string, 0, len(es))
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "d"}, ids(upcoming))
	assert.Equal(t, []string{"b", "c"}, ids(past), "an event at exactly now is past")
}

func TestPartition_Empty(t *testing.T) {
	upcoming, past := Partition(nil, time.Now())

	assert.NotNil(t, upcoming)
	assert.NotNil(t, past)
	assert.Empty(t, upcoming)
	assert.Empty(t, past)
}

func TestEventService_ListPartitioned(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 1)

	upcoming, past, err := f.events.ListPartitioned(context.Background(), model.EventFilter{}, time.Now())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, e.ID, upcoming[0].ID)
	assert.Empty(t, past)

	upcoming, past, err = f.events.ListPartitioned(context.Background(), model.EventFilter{}, e.Date)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
	assert.Len(t, past, 1)
}

func ptr[T any](v T) *T { return &v }

func TestEventService_Update_Partial(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)

	got, err := f.events.Update(context.Background(), organizerA, e.ID, model.UpdateEventRequest{
		Title: ptr("Renamed"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, e.Description, got.Description)
	assert.Equal(t, e.Location, got.Location)
	assert.Equal(t, 5, got.Capacity)
}

func TestEventService_Update_Capacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.createEvent(t, organizerA, 5)
	for i := 0; i < 3; i++ {
		_, err := f.bookings.Book(ctx, alice, e.ID, attendee("alice"))
		require.NoError(t, err)
	}

	_, err := f.events.Update(ctx, organizerA, e.ID, model.UpdateEventRequest{Seats: ptr(2)})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 2, f.seats(t, e.ID), "rejected update leaves the counter alone")

	got, err := f.events.Update(ctx, organizerA, e.ID, model.UpdateEventRequest{Seats: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Capacity)
	assert.Equal(t, 1, got.Seats)

	got, err = f.events.Update(ctx, organizerA, e.ID, model.UpdateEventRequest{Seats: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Capacity)
	assert.Equal(t, 0, got.Seats)

	_, err = f.bookings.Book(ctx, bob, e.ID, attendee("bob"))
	assert.ErrorIs(t, err, model.ErrSoldOut)
}

func TestEventService_Update_Date(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)

	_, err := f.events.Update(context.Background(), organizerA, e.ID, model.UpdateEventRequest{
		Date: ptr(time.Now().Add(-time.Hour)),
	})
	assert.ErrorIs(t, err, model.ErrValidation)

	same := e.Date
	_, err = f.events.Update(context.Background(), organizerA, e.ID, model.UpdateEventRequest{
		Date:  &same,
		Title: ptr("Same date"),
	})
	assert.NoError(t, err)

	next := time.Now().Add(96 * time.Hour)
	got, err := f.events.Update(context.Background(), organizerA, e.ID, model.UpdateEventRequest{Date: &next})
	require.NoError(t, err)
	assert.True(t, next.Equal(got.Date))
}

func TestEventService_Update_Blank(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)

	_, err := f.events.Update(context.Background(), organizerA, e.ID, model.UpdateEventRequest{Location: ptr("  ")})

	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestEventService_Update_Ownership(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)
	req := model.UpdateEventRequest{Title: ptr("Hijacked")}

	_, err := f.events.Update(context.Background(), organizerB, e.ID, req)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.events.Update(context.Background(), alice, e.ID, req)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.events.Update(context.Background(), organizerB, "missing", req)
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := f.events.Update(context.Background(), admin, e.ID, model.UpdateEventRequest{Title: ptr("By admin")})
	require.NoError(t, err)
	assert.Equal(t, "By admin", got.Title)
}

func TestEventService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.createEvent(t, organizerA, 5)
	b, err := f.bookings.Book(ctx, alice, e.ID, attendee("alice"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.events.Delete(ctx, organizerB, e.ID), model.ErrForbidden)
	require.NoError(t, f.events.Delete(ctx, organizerA, e.ID))
	assert.ErrorIs(t, f.events.Delete(ctx, organizerA, e.ID), model.ErrNotFound)

	_, err = f.events.Get(ctx, e.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	orphan, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, orphan.Orphaned())
}
