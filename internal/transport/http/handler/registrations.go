package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-event-registration/internal/application/listing"
	"github.com/go-event-registration/internal/application/registration"
	"github.com/go-event-registration/internal/domain"
)

// RegistrationHandler handles registration and waitlist endpoints nested
// under an event.
type RegistrationHandler struct {
	svc     registration.Service
	listing listing.Service
}

func NewRegistrationHandler(svc registration.Service, listingSvc listing.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, listing: listingSvc}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Register(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterEnvelope{
		Status:        res.Outcome,
		Registration:  res.Registration,
		WaitlistEntry: res.WaitlistEntry,
	})
}

func (h *RegistrationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Unregister(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		httpError(w, err)
		return
	}
	env := UnregisterEnvelope{
		Message:         "Successfully unregistered",
		Unregistered:    res.Unregistered,
		PromotionFailed: res.PromotionErr != nil,
	}
	if res.Promoted != nil {
		env.Promoted = &PromotionEnvelope{Message: "User promoted from waitlist", Registration: res.Promoted}
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	regs, err := h.listing.ListEventRegistrations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

// Waitlist returns entries in promotion order.
func (h *RegistrationHandler) Waitlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.listing.ListEventWaitlist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *RegistrationHandler) LeaveWaitlist(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.LeaveWaitlist(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "removed from waitlist"})
}
