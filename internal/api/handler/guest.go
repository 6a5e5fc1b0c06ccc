package handler

import (
	"net/http"

	"github.com/mcoot/guestlist/internal/api/request"
	"github.com/mcoot/guestlist/internal/api/response"
	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/registry"
)

// GuestHandler handles the guest-facing endpoints
type GuestHandler struct {
	registry *registry.Service
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(registry *registry.Service) *GuestHandler {
	return &GuestHandler{
		registry: registry,
	}
}

// Get handles GET /api/v1/guests/{id}
func (h *GuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := identityParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	guest, err := h.registry.Guest(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuestFromModel(id, guest))
}

// Register handles PUT /api/v1/guests/{id}.
// Refusals (already registered, blacklisted, full) are 200 with the outcome.
func (h *GuestHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := identityParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	outcome, guest, err := h.registry.Register(r.Context(), id, req.Name, req.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	if outcome != model.RegisterSuccess {
		response.JSON(w, http.StatusOK, response.RegisterResponse{Outcome: outcome})
		return
	}

	resp := response.GuestFromModel(id, guest)
	response.JSON(w, http.StatusCreated, response.RegisterResponse{Outcome: outcome, Guest: &resp})
}

// Cancel handles POST /api/v1/guests/{id}/cancel
func (h *GuestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := identityParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	removed, err := h.registry.UnregisterSelf(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CancelResponse{Removed: removed})
}

// AddFriend handles POST /api/v1/guests/{id}/friends
func (h *GuestHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	id, err := identityParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.FriendRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	outcome, err := h.registry.AttachFriend(r.Context(), id, req.Name, req.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if outcome == model.FriendAdded {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.FriendResponse{Outcome: outcome})
}

// Slots handles GET /api/v1/slots
func (h *GuestHandler) Slots(w http.ResponseWriter, r *http.Request) {
	stats, err := h.registry.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SlotsFromStats(stats))
}
