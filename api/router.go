package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/hupe1980/supportmesh/session"
	"github.com/hupe1980/supportmesh/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, manager *session.Manager, st store.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logger(logger))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := NewHandler(manager, st)

	r.Get("/health", h.Health)
	r.Post("/sessions", h.StartSession)
	r.Get("/conversations", h.ListConversations)
	r.Post("/conversations/{sessionID}", h.Reply)
	r.Get("/conversations/{sessionID}", h.Trace)

	return r
}
