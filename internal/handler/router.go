package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/auth"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Services bundles the service layer the router dispatches to.
type Services struct {
	Auth     *service.AuthService
	Events   *service.EventService
	Bookings *service.BookingService
	Users    *service.UserService
}

// NewRouter builds the HTTP surface.
func NewRouter(svc Services, tokens *auth.Tokens, log *zap.Logger, corsOrigin string) http.Handler {
	authH := NewAuthHandler(svc.Auth, log)
	eventH := NewEventHandler(svc.Events, svc.Bookings, log)
	bookingH := NewBookingHandler(svc.Bookings, log)
	userH := NewUserHandler(svc.Users, log)

	staff := RequireRoles(model.RoleOrganizer, model.RoleAdmin)
	adminOnly := RequireRoles(model.RoleAdmin)
	signedIn := RequireRoles()

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS(corsOrigin))
	r.Use(Authenticate(tokens))

	r.Get("/health", HealthCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventH.ListEvents)
		r.Get("/{id}", eventH.GetEvent)
		r.With(staff).Post("/", eventH.CreateEvent)
		r.With(staff).Put("/{id}", eventH.UpdateEvent)
		r.With(staff).Delete("/{id}", eventH.DeleteEvent)
		r.With(staff).Get("/{id}/bookings", eventH.ListEventBookings)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(signedIn)
		r.Post("/", bookingH.Book)
		r.Get("/", bookingH.ListBookings)
		r.With(staff).Post("/manual", bookingH.BookManual)
		r.With(staff).Post("/verify", bookingH.Verify)
		r.With(adminOnly).Get("/all", bookingH.ListAllBookings)
		r.Delete("/{id}", bookingH.CancelBooking)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(signedIn)
		r.Get("/profile", userH.Profile)
		r.With(adminOnly).Get("/", userH.ListUsers)
		r.Put("/{id}", userH.UpdateUser)
		r.With(adminOnly).Delete("/{id}", userH.DeleteUser)
	})

	return r
}
