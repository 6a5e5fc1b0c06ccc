package handler

import (
	"net/http"

	"github.com/mcoot/guestlist/internal/api/request"
	"github.com/mcoot/guestlist/internal/api/response"
	"github.com/mcoot/guestlist/internal/services/registry"
)

// AdminHandler handles guest list administration
type AdminHandler struct {
	registry *registry.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(registry *registry.Service) *AdminHandler {
	return &AdminHandler{
		registry: registry,
	}
}

// ListGuests handles GET /api/v1/admin/guests
func (h *AdminHandler) ListGuests(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registry.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuestListFromModel(entries))
}

// RemoveGuest handles DELETE /api/v1/admin/guests/{id}
func (h *AdminHandler) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	id, err := identityParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.registry.Unregister(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ClearGuests handles DELETE /api/v1/admin/guests
func (h *AdminHandler) ClearGuests(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.ClearAll(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SetCapacity handles PUT /api/v1/admin/capacity
func (h *AdminHandler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	var req request.CapacityRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.MaxSlots == nil {
		WriteError(w, NewInvalidRequestError("max_slots is required"))
		return
	}

	if err := h.registry.SetCapacity(r.Context(), *req.MaxSlots); err != nil {
		WriteError(w, err)
		return
	}

	stats, err := h.registry.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SlotsFromStats(stats))
}

// GetFriends handles GET /api/v1/admin/friends
func (h *AdminHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.registry.FriendsEnabled(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := h.registry.FriendLimit(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Friends{Enabled: enabled, Limit: limit})
}

// SetFriends handles PUT /api/v1/admin/friends. The limit is applied
// before the flag, so {"limit": 2, "enabled": false} stores a limit and
// leaves the feature off.
func (h *AdminHandler) SetFriends(w http.ResponseWriter, r *http.Request) {
	var req request.FriendsRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Enabled == nil && req.Limit == nil {
		WriteError(w, NewInvalidRequestError("enabled or limit is required"))
		return
	}

	if req.Limit != nil {
		if err := h.registry.SetFriendLimit(r.Context(), *req.Limit); err != nil {
			WriteError(w, err)
			return
		}
	}
	if req.Enabled != nil {
		if err := h.registry.SetFriendsEnabled(r.Context(), *req.Enabled); err != nil {
			WriteError(w, err)
			return
		}
	}

	h.GetFriends(w, r)
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.registry.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}
