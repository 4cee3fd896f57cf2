package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingService_Book_Success(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 3)

	b, err := f.bookings.Book(context.Background(), alice, e.ID, model.Attendee{
		Name:    "  Alice  ",
		Email:   "Alice@Example.COM",
		Contact: "9876543210",
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", b.Name)
	assert.Equal(t, "alice@example.com", b.Email)
	assert.Equal(t, alice.UserID, b.UserID)
	assert.Equal(t, alice.UserID, b.CreatedBy)
	assert.Equal(t, model.BookingStatusBooked, b.Status)
	assert.False(t, b.Attended)
	assert.True(t, strings.HasPrefix(b.TicketID, "TKT-"))
	require.NotNil(t, b.Event)
	assert.Equal(t, e.Title, b.Event.Title)
	assert.Equal(t, 2, f.seats(t, e.ID))
}

func TestBookingService_Book_Validation(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 3)

	tests := []struct {
		name string
		in   model.Attendee
	}{
		{"blank name", model.Attendee{Name: "  ", Email: "a@example.com", Contact: "9876543210"}},
		{"bad email", model.Attendee{Name: "A", Email: "not-an-email", Contact: "9876543210"}},
		{"short contact", model.Attendee{Name: "A", Email: "a@example.com", Contact: "987654321"}},
		{"long contact", model.Attendee{Name: "A", Email: "a@example.com", Contact: "98765432101"}},
		{"signed contact", model.Attendee{Name: "A", Email: "a@example.com", Contact: "+876543210"}},
		{"letters in contact", model.Attendee{Name: "A", Email: "a@example.com", Contact: "98765abcde"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.Book(context.Background(), alice, e.ID, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
	assert.Equal(t, 3, f.seats(t, e.ID))
}

func TestBookingService_Book_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 3)

	_, err := f.bookings.Book(context.Background(), nil, e.ID, attendee("alice"))

	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestBookingService_Book_UnknownEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.bookings.Book(context.Background(), alice, "missing", attendee("alice"))

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBookingService_Book_SoldOut(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 1)

	_, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)

	_, err = f.bookings.Book(context.Background(), bob, e.ID, attendee("bob"))
	assert.ErrorIs(t, err, model.ErrSoldOut)

	all, err := f.bookings.ListFor(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 0, f.seats(t, e.ID))
}

func TestBookingService_Book_ZeroCapacity(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 0)

	_, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))

	assert.ErrorIs(t, err, model.ErrSoldOut)
}

func TestBookingService_Book_ConcurrentLastSeat(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 1)

	const bookers = 20
	var (
		wg      sync.WaitGroup
		ok      atomic.Int32
		soldOut atomic.Int32
	)
	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, model.ErrSoldOut):
				soldOut.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(bookers-1), soldOut.Load())
	assert.Equal(t, 0, f.seats(t, e.ID))
}

func sequence(ids ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[min(i, len(ids)-1)]
		i++
		return id
	}
}

func TestBookingService_Book_TicketCollisionRetries(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)

	f.bookings.newTicketID = sequence("TKT-DUP")
	_, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)

	f.bookings.newTicketID = sequence("TKT-DUP", "TKT-DUP", "TKT-FRESH")
	b, err := f.bookings.Book(context.Background(), bob, e.ID, attendee("bob"))

	require.NoError(t, err)
	assert.Equal(t, "TKT-FRESH", b.TicketID)
	assert.Equal(t, 3, f.seats(t, e.ID), "failed attempts must not consume seats")
}

func TestBookingService_Book_TicketCollisionExhausted(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)

	f.bookings.newTicketID = sequence("TKT-DUP")
	_, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)

	_, err = f.bookings.Book(context.Background(), bob, e.ID, attendee("bob"))

	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, 4, f.seats(t, e.ID))
}

func TestNewTicketID_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTicketID()
		require.Len(t, id, len("TKT-")+16)
		assert.Equal(t, strings.ToUpper(id), id)
		assert.False(t, seen[id], "duplicate ticket id %s", id)
		seen[id] = true
	}
}

func TestBookingService_BookManual(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)

	t.Run("owner", func(t *testing.T) {
		b, err := f.bookings.BookManual(context.Background(), organizerA, e.ID, attendee("walkin"))
		require.NoError(t, err)
		assert.Empty(t, b.UserID)
		assert.Equal(t, organizerA.UserID, b.CreatedBy)
	})

	t.Run("admin", func(t *testing.T) {
		_, err := f.bookings.BookManual(context.Background(), admin, e.ID, attendee("guest"))
		require.NoError(t, err)
	})

	t.Run("other organizer", func(t *testing.T) {
		_, err := f.bookings.BookManual(context.Background(), organizerB, e.ID, attendee("sneaky"))
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("attendee role", func(t *testing.T) {
		_, err := f.bookings.BookManual(context.Background(), alice, e.ID, attendee("alice"))
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := f.bookings.BookManual(context.Background(), organizerA, "missing", attendee("walkin"))
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	assert.Equal(t, 3, f.seats(t, e.ID))
}

func TestBookingService_Cancel_RestoresSeatOnce(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 2)
	b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)
	require.Equal(t, 1, f.seats(t, e.ID))

	got, err := f.bookings.Cancel(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)
	assert.Equal(t, 2, f.seats(t, e.ID))

	got, err = f.bookings.Cancel(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)
	assert.Equal(t, 2, f.seats(t, e.ID))
}

func TestBookingService_Cancel_Concurrent(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 3)
	b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)
	_, err = f.bookings.Book(context.Background(), bob, e.ID, attendee("bob"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.bookings.Cancel(context.Background(), alice, b.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, f.seats(t, e.ID))
}

func TestBookingService_Cancel_Permissions(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)

	book := func(t *testing.T) *model.Booking {
		b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name  string
		actor *model.Claims
		want  error
	}{
		{"attendee", alice, nil},
		{"owning organizer", organizerA, nil},
		{"admin", admin, nil},
		{"other user", bob, model.ErrForbidden},
		{"other organizer", organizerB, model.ErrForbidden},
		{"anonymous", nil, model.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := book(t)
			_, err := f.bookings.Cancel(context.Background(), tt.actor, b.ID)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.bookings.Cancel(context.Background(), admin, "missing")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBookingService_Cancel_Orphan(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)
	b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)
	require.NoError(t, f.events.Delete(context.Background(), organizerA, e.ID))

	_, err = f.bookings.Cancel(context.Background(), admin, b.ID)

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBookingService_Verify_Valid(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)
	b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)

	res, err := f.bookings.Verify(context.Background(), "  "+b.TicketID+" ")

	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Nil(t, res.Details)
	require.NotNil(t, res.Ticket)
	assert.Equal(t, b.TicketID, res.Ticket.TicketID)
	assert.Equal(t, "alice", res.Ticket.Name)
	assert.Equal(t, e.Title, res.Ticket.EventTitle)
	assert.True(t, e.Date.Equal(res.Ticket.EventDate))
	assert.True(t, res.Ticket.Attended)

	again, err := f.bookings.Verify(context.Background(), b.TicketID)
	require.NoError(t, err)
	assert.True(t, again.Valid)
	assert.True(t, again.Ticket.Attended)
}

func TestBookingService_Verify_Cancelled(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)
	b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)
	_, err = f.bookings.Cancel(context.Background(), alice, b.ID)
	require.NoError(t, err)

	res, err := f.bookings.Verify(context.Background(), b.TicketID)

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Nil(t, res.Ticket)
	require.NotNil(t, res.Details)
	assert.Equal(t, b.ID, res.Details.BookingID)
	assert.Equal(t, model.BookingStatusCancelled, res.Details.Status)

	stored, err := f.store.Bookings().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, stored.Attended)
}

func TestBookingService_Verify_AttendedSurvivesCancel(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)
	b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)
	_, err = f.bookings.Verify(context.Background(), b.TicketID)
	require.NoError(t, err)

	_, err = f.bookings.Cancel(context.Background(), alice, b.ID)
	require.NoError(t, err)

	stored, err := f.store.Bookings().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, stored.Attended)
	assert.Equal(t, model.BookingStatusCancelled, stored.Status)
}

func TestBookingService_Verify_NotFound(t *testing.T) {
	f := newFixture(t)
	e := f.createEvent(t, organizerA, 5)
	b, err := f.bookings.Book(context.Background(), alice, e.ID, attendee("alice"))
	require.NoError(t, err)

	_, err = f.bookings.Verify(context.Background(), "TKT-UNKNOWN")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.bookings.Verify(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrValidation)

	require.NoError(t, f.events.Delete(context.Background(), admin, e.ID))
	_, err = f.bookings.Verify(context.Background(), b.TicketID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBookingService_ListFor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eA := f.createEvent(t, organizerA, 5)
	eB := f.createEvent(t, organizerB, 5)
	gone := f.createEvent(t, organizerA, 5)

	_, err := f.bookings.Book(ctx, alice, eA.ID, attendee("alice"))
	require.NoError(t, err)
	_, err = f.bookings.Book(ctx, alice, eB.ID, attendee("alice"))
	require.NoError(t, err)
	_, err = f.bookings.Book(ctx, bob, eA.ID, attendee("bob"))
	require.NoError(t, err)
	_, err = f.bookings.Book(ctx, alice, gone.ID, attendee("alice"))
	require.NoError(t, err)
	require.NoError(t, f.events.Delete(ctx, organizerA, gone.ID))

	mine, err := f.bookings.ListFor(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2, "orphaned booking is hidden from its attendee")
	for _, b := range mine {
		assert.Equal(t, alice.UserID, b.UserID)
	}

	forA, err := f.bookings.ListFor(ctx, organizerA)
	require.NoError(t, err)
	assert.Len(t, forA, 2)
	for _, b := range forA {
		assert.Equal(t, eA.ID, b.EventID)
	}

	all, err := f.bookings.ListFor(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 4, "admins see orphans")

	none, err := f.bookings.ListFor(ctx, &model.Claims{UserID: "new", Role: model.RoleUser})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.bookings.ListFor(ctx, nil)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestBookingService_ListForEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.createEvent(t, organizerA, 5)
	_, err := f.bookings.Book(ctx, alice, e.ID, attendee("alice"))
	require.NoError(t, err)

	list, err := f.bookings.ListForEvent(ctx, organizerA, e.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.bookings.ListForEvent(ctx, organizerB, e.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.bookings.ListForEvent(ctx, alice, e.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.bookings.ListForEvent(ctx, admin, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBookingService_ListAll_Paged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.createEvent(t, organizerA, 10)
	for i := 0; i < 7; i++ {
		_, err := f.bookings.Book(ctx, alice, e.ID, attendee("alice"))
		require.NoError(t, err)
	}

	page, err := f.bookings.ListAll(ctx, admin, 2, 5)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	past, err := f.bookings.ListAll(ctx, admin, 9, 5)
	require.NoError(t, err)
	assert.NotNil(t, past.Items)
	assert.Empty(t, past.Items)

	_, err = f.bookings.ListAll(ctx, organizerA, 1, 5)
	assert.ErrorIs(t, err, model.ErrForbidden)
}
