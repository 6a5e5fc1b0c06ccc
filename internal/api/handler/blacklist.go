package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/guestlist/internal/api/apierr"
	"github.com/mcoot/guestlist/internal/api/request"
	"github.com/mcoot/guestlist/internal/api/response"
	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/blacklist"
)

// BlacklistHandler handles bans and the known handle index
type BlacklistHandler struct {
	blacklist *blacklist.Service
}

// NewBlacklistHandler creates a new blacklist handler
func NewBlacklistHandler(blacklist *blacklist.Service) *BlacklistHandler {
	return &BlacklistHandler{
		blacklist: blacklist,
	}
}

// List handles GET /api/v1/admin/blacklist
func (h *BlacklistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.blacklist.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BlacklistFromModel(entries))
}

// Ban handles POST /api/v1/admin/blacklist
func (h *BlacklistHandler) Ban(w http.ResponseWriter, r *http.Request) {
	var req request.BanRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	entry, err := h.blacklist.ParseEntry(req.Entry)
	if err != nil {
		WriteError(w, err)
		return
	}

	result := response.BanResult{Entry: response.BanEntryFromModel(entry)}
	if req.Resolve && entry.Kind == model.BanByHandle {
		id, found, err := h.blacklist.BanHandleResolved(r.Context(), entry.Handle)
		if err != nil {
			WriteError(w, err)
			return
		}
		if found {
			resolved := int64(id)
			result.ResolvedID = &resolved
		}
	} else if err := h.blacklist.Ban(r.Context(), entry); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// Unban handles DELETE /api/v1/admin/blacklist/{entry}
func (h *BlacklistHandler) Unban(w http.ResponseWriter, r *http.Request) {
	entry, err := h.blacklist.ParseEntry(mux.Vars(r)["entry"])
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.blacklist.Unban(r.Context(), entry); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Check handles GET /api/v1/admin/blacklist/check?id=&username=.
// Without an id only the handle is checked.
func (h *BlacklistHandler) Check(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawID, username := query.Get("id"), query.Get("username")

	var (
		banned bool
		err    error
	)
	switch {
	case rawID != "":
		id, parseErr := model.ParseIdentity(rawID)
		if parseErr != nil {
			WriteError(w, parseErr)
			return
		}
		banned, err = h.blacklist.IsBanned(r.Context(), id, username)
	case model.NormalizeHandle(username) != "":
		banned, err = h.blacklist.IsEntryBanned(r.Context(), model.BanHandle(username))
	default:
		WriteError(w, NewInvalidRequestError("id or username is required"))
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BanCheck{Banned: banned})
}

// Known handles GET /api/v1/admin/known/{handle}
func (h *BlacklistHandler) Known(w http.ResponseWriter, r *http.Request) {
	handle := model.NormalizeHandle(mux.Vars(r)["handle"])

	id, found, err := h.blacklist.ResolveIdentityForHandle(r.Context(), handle)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !found {
		WriteError(w, apierr.NewHandleNotFoundError())
		return
	}

	response.JSON(w, http.StatusOK, response.KnownUser{Handle: handle, ID: int64(id)})
}
