package handler

import (
	"net/http"
	"time"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EventHandler holds the HTTP handlers for the event catalog.
type EventHandler struct {
	svc      *service.EventService
	bookings *service.BookingService
	log      *zap.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, bookings *service.BookingService, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, bookings: bookings, log: log}
}

type eventListResponse struct {
	Upcoming []*model.Event `json:"upcoming"`
	Past     []*model.Event `json:"past"`
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Create(r.Context(), ClaimsFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events
// Returns events split into upcoming and past. ?organizer=me restricts the
// list to the caller's own events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	var f model.EventFilter
	switch r.URL.Query().Get("organizer") {
	case "":
	case "me":
		claims := ClaimsFrom(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, model.ErrUnauthenticated.Error())
			return
		}
		f.OrganizerID = claims.UserID
	default:
		writeError(w, http.StatusBadRequest, "organizer filter must be \"me\"")
		return
	}

	upcoming, past, err := h.svc.ListPartitioned(r.Context(), f, time.Now())
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	writeJSON(w, http.StatusOK, eventListResponse{Upcoming: upcoming, Past: past})
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /events/{id}
// Only fields present in the body are changed.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Update(r.Context(), ClaimsFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), ClaimsFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListEventBookings handles GET /events/{id}/bookings
// Returns the attendee list of one event.
func (h *EventHandler) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListForEvent(r.Context(), ClaimsFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}
