package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/guestlist/internal/api/handler"
	"github.com/mcoot/guestlist/internal/api/middleware"
	sharedmw "github.com/mcoot/guestlist/internal/middleware"
	"github.com/mcoot/guestlist/internal/services/blacklist"
	"github.com/mcoot/guestlist/internal/services/event"
	"github.com/mcoot/guestlist/internal/services/policy"
	"github.com/mcoot/guestlist/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Registry  *registry.Service
	Blacklist *blacklist.Service
	Event     *event.Service
	Policy    *policy.Service
	// AdminTokenHash is the bcrypt hash guarding /admin routes
	AdminTokenHash string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	guestHandler := handler.NewGuestHandler(cfg.Registry)
	eventHandler := handler.NewEventHandler(cfg.Event, cfg.Policy, cfg.Registry)
	adminHandler := handler.NewAdminHandler(cfg.Registry)
	blacklistHandler := handler.NewBlacklistHandler(cfg.Blacklist)

	// Create middleware
	adminMiddleware := middleware.AdminAuth(cfg.AdminTokenHash, cfg.Logger)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Guest-facing routes
	api.HandleFunc("/event", eventHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/slots", guestHandler.Slots).Methods(http.MethodGet)
	api.HandleFunc("/guests/{id}", guestHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/guests/{id}", guestHandler.Register).Methods(http.MethodPut)
	api.HandleFunc("/guests/{id}/cancel", guestHandler.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/guests/{id}/friends", guestHandler.AddFriend).Methods(http.MethodPost)

	// Admin routes (all require the admin token)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(adminMiddleware)
	admin.HandleFunc("/guests", adminHandler.ListGuests).Methods(http.MethodGet)
	admin.HandleFunc("/guests", adminHandler.ClearGuests).Methods(http.MethodDelete)
	admin.HandleFunc("/guests/{id}", adminHandler.RemoveGuest).Methods(http.MethodDelete)
	admin.HandleFunc("/capacity", adminHandler.SetCapacity).Methods(http.MethodPut)
	admin.HandleFunc("/friends", adminHandler.GetFriends).Methods(http.MethodGet)
	admin.HandleFunc("/friends", adminHandler.SetFriends).Methods(http.MethodPut)
	admin.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)

	admin.HandleFunc("/event", eventHandler.Set).Methods(http.MethodPut)
	admin.HandleFunc("/event", eventHandler.Clear).Methods(http.MethodDelete)
	admin.HandleFunc("/price", eventHandler.GetPrice).Methods(http.MethodGet)
	admin.HandleFunc("/price", eventHandler.SetPrice).Methods(http.MethodPut)
	admin.HandleFunc("/policy", eventHandler.GetPolicy).Methods(http.MethodGet)
	admin.HandleFunc("/policy", eventHandler.SetPolicy).Methods(http.MethodPut)

	admin.HandleFunc("/blacklist", blacklistHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/blacklist", blacklistHandler.Ban).Methods(http.MethodPost)
	admin.HandleFunc("/blacklist/check", blacklistHandler.Check).Methods(http.MethodGet)
	admin.HandleFunc("/blacklist/{entry}", blacklistHandler.Unban).Methods(http.MethodDelete)
	admin.HandleFunc("/known/{handle}", blacklistHandler.Known).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
