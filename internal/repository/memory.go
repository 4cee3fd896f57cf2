package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
)

// MemoryStore keeps every collection in process memory. Event-scoped
// transactions serialize on a per-event mutex and buffer their writes
// until commit, matching the Postgres store's all-or-nothing behaviour.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	events   map[string]*model.Event
	bookings map[string]*model.Booking
	tickets  map[string]string // ticket id -> booking id

	userOrder    []string
	eventOrder   []string
	bookingOrder []string

	locksMu sync.Mutex
	locks   map[string]*eventLock
}

// eventLock is dropped from MemoryStore.locks once no caller holds or waits
// on it.
type eventLock struct {
	mu   sync.Mutex
	refs int
}

var (
	_ ports.EventRepo   = (*MemoryEvents)(nil)
	_ ports.Transactor  = (*MemoryEvents)(nil)
	_ ports.BookingRepo = (*MemoryBookings)(nil)
	_ ports.UserRepo    = (*MemoryUsers)(nil)
)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*model.User),
		events:   make(map[string]*model.Event),
		bookings: make(map[string]*model.Booking),
		tickets:  make(map[string]string),
		locks:    make(map[string]*eventLock),
	}
}

// Events returns the event repository view.
func (s *MemoryStore) Events() *MemoryEvents { return &MemoryEvents{s: s} }

// Bookings returns the booking repository view.
func (s *MemoryStore) Bookings() *MemoryBookings { return &MemoryBookings{s: s} }

// Users returns the user repository view.
func (s *MemoryStore) Users() *MemoryUsers { return &MemoryUsers{s: s} }

// lockEvent blocks until eventID's lock is held and returns its release.
func (s *MemoryStore) lockEvent(eventID string) (unlock func()) {
	s.locksMu.Lock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &eventLock{}
		s.locks[eventID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, eventID)
		}
		s.locksMu.Unlock()
	}
}

// withEvent attaches the event summary; callers hold s.mu.
func (s *MemoryStore) withEvent(b *model.Booking) *model.Booking {
	out := *b
	out.Event = nil
	if e, ok := s.events[b.EventID]; ok {
		out.Event = e.Summary()
	}
	return &out
}

// ─── Events ───────────────────────────────────────────────────────────────────

// MemoryEvents implements ports.EventRepo and ports.Transactor.
type MemoryEvents struct {
	s *MemoryStore
}

// Create stores a copy of e.
func (r *MemoryEvents) Create(_ context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[e.ID]; ok {
		return fmt.Errorf("event %s: %w", e.ID, model.ErrConflict)
	}
	cp := *e
	r.s.events[e.ID] = &cp
	r.s.eventOrder = append(r.s.eventOrder, e.ID)
	return nil
}

// GetByID returns a copy of the event.
func (r *MemoryEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// List returns events in creation order.
func (r *MemoryEvents) List(_ context.Context, f model.EventFilter) ([]*model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.Event
	for _, id := range r.s.eventOrder {
		e := r.s.events[id]
		if f.OrganizerID != "" && e.OrganizerID != f.OrganizerID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

// Delete removes the event. Its bookings stay behind as orphans.
func (r *MemoryEvents) Delete(_ context.Context, id string) error {
	defer r.s.lockEvent(id)()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.s.events, id)
	r.s.eventOrder = slices.DeleteFunc(r.s.eventOrder, func(v string) bool { return v == id })
	return nil
}

// WithEventLock runs fn holding eventID's lock and applies its buffered
// writes only when fn succeeds.
func (r *MemoryEvents) WithEventLock(
	ctx context.Context,
	eventID string,
	fn func(ctx context.Context, tx ports.EventTx, e *model.Event) error,
) error {
	defer r.s.lockEvent(eventID)()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.RLock()
	stored, ok := r.s.events[eventID]
	var e model.Event
	if ok {
		e = *stored
	}
	r.s.mu.RUnlock()
	if !ok {
		return model.ErrNotFound
	}

	tx := &memEventTx{s: r.s, event: &e, statuses: make(map[string]*model.Booking)}
	if err := fn(ctx, tx, &e); err != nil {
		return err
	}
	return tx.commit()
}

// memEventTx buffers writes made under an event lock.
type memEventTx struct {
	s        *MemoryStore
	event    *model.Event
	saved    *model.Event
	inserts  []*model.Booking
	statuses map[string]*model.Booking
}

func (t *memEventTx) SaveEvent(_ context.Context, e *model.Event) error {
	cp := *e
	t.saved = &cp
	return nil
}

func (t *memEventTx) ticketTaken(ticketID string) bool {
	if _, ok := t.s.tickets[ticketID]; ok {
		return true
	}
	return slices.ContainsFunc(t.inserts, func(b *model.Booking) bool { return b.TicketID == ticketID })
}

func (t *memEventTx) InsertBooking(_ context.Context, b *model.Booking) error {
	t.s.mu.RLock()
	taken := t.ticketTaken(b.TicketID)
	t.s.mu.RUnlock()
	if taken {
		return fmt.Errorf("ticket id %q: %w", b.TicketID, model.ErrConflict)
	}
	cp := *b
	cp.Event = nil
	t.inserts = append(t.inserts, &cp)
	return nil
}

func (t *memEventTx) LockBooking(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := t.statuses[id]; ok {
		cp := *b
		cp.Event = t.event.Summary()
		return &cp, nil
	}
	t.s.mu.RLock()
	b, ok := t.s.bookings[id]
	var cp model.Booking
	if ok {
		cp = *b
	}
	t.s.mu.RUnlock()
	if !ok || cp.EventID != t.event.ID {
		return nil, model.ErrNotFound
	}
	cp.Event = t.event.Summary()
	return &cp, nil
}

func (t *memEventTx) SaveBookingStatus(_ context.Context, b *model.Booking) error {
	cp := *b
	cp.Event = nil
	t.statuses[b.ID] = &cp
	return nil
}

func (t *memEventTx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.events[t.event.ID]; !ok {
		return model.ErrNotFound
	}
	for _, b := range t.inserts {
		if _, ok := t.s.tickets[b.TicketID]; ok {
			return fmt.Errorf("ticket id %q: %w", b.TicketID, model.ErrConflict)
		}
	}

	if t.saved != nil {
		t.s.events[t.saved.ID] = t.saved
	}
	for _, b := range t.inserts {
		t.s.bookings[b.ID] = b
		t.s.tickets[b.TicketID] = b.ID
		t.s.bookingOrder = append(t.s.bookingOrder, b.ID)
	}
	for id, b := range t.statuses {
		if cur, ok := t.s.bookings[id]; ok {
			cur.Status = b.Status
			cur.UpdatedAt = b.UpdatedAt
		}
	}
	return nil
}

// ─── Bookings ─────────────────────────────────────────────────────────────────

// MemoryBookings implements ports.BookingRepo.
type MemoryBookings struct {
	s *MemoryStore
}

// GetByID returns the booking with its event summary, nil for orphans.
func (r *MemoryBookings) GetByID(_ context.Context, id string) (*model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return r.s.withEvent(b), nil
}

// GetByTicketID looks a booking up by its ticket id.
func (r *MemoryBookings) GetByTicketID(ctx context.Context, ticketID string) (*model.Booking, error) {
	r.s.mu.RLock()
	id, ok := r.s.tickets[ticketID]
	r.s.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List returns bookings matching f in creation order.
func (r *MemoryBookings) List(_ context.Context, f model.BookingFilter) ([]*model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.Booking
	for _, id := range r.s.bookingOrder {
		b := r.s.withEvent(r.s.bookings[id])
		switch {
		case f.UserID != "" && b.UserID != f.UserID:
			continue
		case f.OrganizerID != "" && (b.Event == nil || b.Event.OrganizerID != f.OrganizerID):
			continue
		case f.EventID != "" && b.EventID != f.EventID:
			continue
		case f.ExcludeOrphans && b.Event == nil:
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// MarkAttended flags a BOOKED booking as attended.
func (r *MemoryBookings) MarkAttended(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != model.BookingStatusBooked {
		return false, nil
	}
	b.Attended = true
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

// ─── Users ────────────────────────────────────────────────────────────────────

// MemoryUsers implements ports.UserRepo.
type MemoryUsers struct {
	s *MemoryStore
}

// Create stores u, rejecting a duplicate email.
func (r *MemoryUsers) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	r.s.userOrder = append(r.s.userOrder, u.ID)
	return nil
}

// GetByID returns a copy of the account.
func (r *MemoryUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByEmail matches the stored, already normalised email.
func (r *MemoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

// List returns accounts in registration order.
func (r *MemoryUsers) List(_ context.Context) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.User, 0, len(r.s.userOrder))
	for _, id := range r.s.userOrder {
		cp := *r.s.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

// Update overwrites the editable fields of an existing account.
func (r *MemoryUsers) Update(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return model.ErrNotFound
	}
	cur.Name = u.Name
	cur.Role = u.Role
	cur.Bio = u.Bio
	cur.Address = u.Address
	cur.OrganizationName = u.OrganizationName
	cur.UpdatedAt = u.UpdatedAt
	return nil
}

// Delete removes the account.
func (r *MemoryUsers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.s.users, id)
	r.s.userOrder = slices.DeleteFunc(r.s.userOrder, func(v string) bool { return v == id })
	return nil
}
