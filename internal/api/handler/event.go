package handler

import (
	"net/http"

	"github.com/mcoot/guestlist/internal/api/request"
	"github.com/mcoot/guestlist/internal/api/response"
	"github.com/mcoot/guestlist/internal/services/event"
	"github.com/mcoot/guestlist/internal/services/policy"
	"github.com/mcoot/guestlist/internal/services/registry"
)

// EventHandler handles event details, the legacy price and the unregister policy
type EventHandler struct {
	event    *event.Service
	policy   *policy.Service
	registry *registry.Service
}

// NewEventHandler creates a new event handler
func NewEventHandler(event *event.Service, policy *policy.Service, registry *registry.Service) *EventHandler {
	return &EventHandler{
		event:    event,
		policy:   policy,
		registry: registry,
	}
}

// Get handles GET /api/v1/event
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.event.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	free, err := h.registry.FreeSlots(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EventFromModel(info, free))
}

// Set handles PUT /api/v1/admin/event
func (h *EventHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req request.EventRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.event.Set(r.Context(), req.Place, req.Time, req.Price); err != nil {
		WriteError(w, err)
		return
	}

	h.Get(w, r)
}

// Clear handles DELETE /api/v1/admin/event
func (h *EventHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.event.Clear(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetPrice handles GET /api/v1/admin/price
func (h *EventHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.event.LegacyPrice(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Price{Price: price})
}

// SetPrice handles PUT /api/v1/admin/price
func (h *EventHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var req request.PriceRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.event.SetLegacyPrice(r.Context(), req.Price); err != nil {
		WriteError(w, err)
		return
	}

	h.GetPrice(w, r)
}

// GetPolicy handles GET /api/v1/admin/policy
func (h *EventHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	allowed, err := h.policy.UnregisterAllowed(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Policy{UnregisterAllowed: allowed})
}

// SetPolicy handles PUT /api/v1/admin/policy
func (h *EventHandler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	var req request.PolicyRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.UnregisterAllowed == nil {
		WriteError(w, NewInvalidRequestError("unregister_allowed is required"))
		return
	}

	if err := h.policy.SetUnregisterAllowed(r.Context(), *req.UnregisterAllowed); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Policy{UnregisterAllowed: *req.UnregisterAllowed})
}
