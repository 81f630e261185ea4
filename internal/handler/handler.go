package handler

import (
	"github.com/gorilla/mux"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/config"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/presence"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/registry"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/relay"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/rooms"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/router"
	"github.com/newtonsmarsher1/uailimited-sub001/internal/store"
)

// Handler holds the messaging core's dependencies. Everything is
// injected so tests can run isolated instances side by side.
type Handler struct {
	Config   config.Config
	Registry *registry.Registry
	Presence *presence.Tracker
	Router   *router.Router
	Rooms    *rooms.Manager
	Relay    *relay.Relay
	Store    store.MessageStore
	Verifier store.IdentityVerifier
}

// New wires the core components over a fresh registry.
func New(cfg config.Config, st store.MessageStore, verifier store.IdentityVerifier) *Handler {
	reg := registry.New()
	return &Handler{
		Config:   cfg,
		Registry: reg,
		Presence: presence.New(reg),
		Router:   router.New(reg, st),
		Rooms:    rooms.New(),
		Relay:    relay.New(reg),
		Store:    st,
		Verifier: verifier,
	}
}

// SetupRouter configures and returns the HTTP router
func (h *Handler) SetupRouter() *mux.Router {
	r := mux.NewRouter()

	// REST API
	r.HandleFunc("/healthz", h.HandleHealth).Methods("GET")
	r.HandleFunc("/messages", h.GetHistory).Methods("GET")

	// WebSocket
	r.HandleFunc("/ws", h.HandleWebSocket).Methods("GET")

	return r
}
