// Package model defines the core domain types for the event ticketing system.
package model

import "time"

// Role is the access level carried by a user and by their session claims.
type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"

	// RoleAll is the pseudo-role used by listing filters to mean "every role".
	RoleAll Role = "ALL"
)

// Valid reports whether r is one of the three assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// Claims is the identity decoded from a verified bearer credential.
type Claims struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin is nil-safe.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// User is a registered account.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	Bio              string    `json:"bio,omitempty"`
	Address          string    `json:"address,omitempty"`
	OrganizationName string    `json:"organization_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Event represents a bookable event owned by an organizer.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Capacity    int       `json:"capacity"`
	Seats       int       `json:"seats"`
	OrganizerID string    `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Active returns the number of seats held by active bookings.
func (e *Event) Active() int {
	return e.Capacity - e.Seats
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.Seats <= 0
}

// OwnedBy reports whether the actor may manage e: its organizer or any admin.
func (e *Event) OwnedBy(actor *Claims) bool {
	if actor == nil {
		return false
	}
	return actor.Role == RoleAdmin || e.OrganizerID == actor.UserID
}

// Summary returns the read-side view of e embedded in bookings.
func (e *Event) Summary() *EventSummary {
	return &EventSummary{
		ID:          e.ID,
		Title:       e.Title,
		Location:    e.Location,
		Date:        e.Date,
		OrganizerID: e.OrganizerID,
	}
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// EventSummary is the slice of an event embedded in booking reads.
type EventSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	OrganizerID string    `json:"organizer_id"`
}

// Booking is one attendee's ticket for an event.
type Booking struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	UserID    string        `json:"user_id,omitempty"`
	CreatedBy string        `json:"created_by"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Contact   string        `json:"contact"`
	TicketID  string        `json:"ticket_id"`
	Status    BookingStatus `json:"status"`
	Attended  bool          `json:"attended"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Event is nil when the booking's event has been deleted.
	Event *EventSummary `json:"event,omitempty"`
}

// Cancelled reports whether the booking has been cancelled.
func (b *Booking) Cancelled() bool {
	return b.Status == BookingStatusCancelled
}

// Orphaned reports whether the booking's event no longer exists.
func (b *Booking) Orphaned() bool {
	return b.Event == nil
}

// Attendee is the identity a ticket is issued to.
type Attendee struct {
	Name    string `json:"name"    validate:"required,max=200"`
	Email   string `json:"email"   validate:"required,email"`
	Contact string `json:"contact" validate:"required,len=10,digits"`
}

// Ticket is the full detail disclosed for a valid verification.
type Ticket struct {
	BookingID  string    `json:"booking_id"`
	TicketID   string    `json:"ticket_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	Attended   bool      `json:"attended"`
}

// TicketDetails is the limited metadata disclosed for a cancelled ticket.
type TicketDetails struct {
	BookingID string        `json:"booking_id"`
	Status    BookingStatus `json:"status"`
}

// VerificationResult is the outcome of checking a ticket at entry.
// Exactly one of Ticket or Details is set.
type VerificationResult struct {
	Valid   bool           `json:"valid"`
	Ticket  *Ticket        `json:"booking,omitempty"`
	Details *TicketDetails `json:"details,omitempty"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location"    validate:"required,max=200"`
	Date        time.Time `json:"date"`
	Seats       int       `json:"seats"       validate:"gte=0,lte=100000"`
}

// UpdateEventRequest is a partial event update; nil fields are left untouched.
type UpdateEventRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	Location    *string    `json:"location"    validate:"omitempty,min=1,max=200"`
	Date        *time.Time `json:"date"`
	Seats       *int       `json:"seats"       validate:"omitempty,gte=0,lte=100000"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	OrganizerID string
}

// BookingFilter narrows booking listings. Zero value lists everything,
// orphans included.
type BookingFilter struct {
	UserID      string
	OrganizerID string
	EventID     string

	// ExcludeOrphans drops bookings whose event has been deleted.
	ExcludeOrphans bool
}

// BookingRequest is the payload for self and manual registration.
type BookingRequest struct {
	EventID string `json:"event_id"`
	Attendee
}

// VerifyRequest is the payload for ticket verification.
type VerifyRequest struct {
	TicketID string `json:"ticket_id"`
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role"     validate:"omitempty,oneof=USER ORGANIZER"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// UpdateUserRequest is a partial user update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name             *string `json:"name"              validate:"omitempty,min=1,max=200"`
	Bio              *string `json:"bio"               validate:"omitempty,max=2000"`
	Address          *string `json:"address"           validate:"omitempty,max=500"`
	OrganizationName *string `json:"organization_name" validate:"omitempty,max=200"`
	Role             *Role   `json:"role"              validate:"omitempty,oneof=USER ORGANIZER ADMIN"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
