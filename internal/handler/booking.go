package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/pager"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BookingHandler holds the HTTP handlers for the ticket lifecycle.
type BookingHandler struct {
	svc *service.BookingService
	log *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

// Book handles POST /bookings
// Performs a concurrency-safe booking for the caller.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := h.svc.Book(r.Context(), ClaimsFrom(r.Context()), req.EventID, req.Attendee)
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// BookManual handles POST /bookings/manual
// Registers a walk-in attendee on an event the caller manages.
func (h *BookingHandler) BookManual(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := h.svc.BookManual(r.Context(), ClaimsFrom(r.Context()), req.EventID, req.Attendee)
	if err != nil {
		writeServiceError(w, r, h.log, err, "event")
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// ListBookings handles GET /bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.ListFor(r.Context(), ClaimsFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err, "booking")
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// ListAllBookings handles GET /bookings/all?page=&page_size=
func (h *BookingHandler) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListAll(r.Context(), ClaimsFrom(r.Context()),
		queryInt(r, "page", 1), queryInt(r, "page_size", pager.DefaultPageSize))
	if err != nil {
		writeServiceError(w, r, h.log, err, "booking")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// CancelBooking handles DELETE /bookings/{id}
// Cancelling twice succeeds and returns the same cancelled booking.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Cancel(r.Context(), ClaimsFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err, "booking")
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// Verify handles POST /bookings/verify
// A cancelled ticket answers 410 with its booking id and status only.
func (h *BookingHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Verify(r.Context(), req.TicketID)
	if err != nil {
		writeServiceError(w, r, h.log, err, "ticket")
		return
	}
	if !res.Valid {
		writeJSON(w, http.StatusGone, model.ErrorResponse{
			Error:   "ticket has been cancelled",
			Details: res.Details,
		})
		return
	}

	writeJSON(w, http.StatusOK, res)
}
