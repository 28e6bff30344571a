package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-event-registration/internal/application/listing"
	"github.com/go-event-registration/internal/application/user"
	"github.com/go-event-registration/internal/domain"
)

// UserHandler handles user endpoints and the per-user listings.
type UserHandler struct {
	svc     user.Service
	listing listing.Service
}

func NewUserHandler(svc user.Service, listingSvc listing.Service) *UserHandler {
	return &UserHandler{svc: svc, listing: listingSvc}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.listing.ListUserRegistrations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

// ListEvents returns the events the user holds a confirmed seat for.
func (h *UserHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.listing.ListUserEvents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
