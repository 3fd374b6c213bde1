// ABOUTME: chi router construction for the studiod REST API
// ABOUTME: Wires CORS, logging, and auth middleware around the resource routes

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/studiod/studiod/internal/auth"
)

// RouterOptions controls construction of the studiod HTTP router.
type RouterOptions struct {
	Handler     *Handler
	Users       auth.UserLookup
	Codec       *auth.TokenCodec
	CORSOrigins []string
}

// NewRouter builds the API router. The auth middleware runs on every route
// and only attaches a Principal; routes outside /api/auth additionally
// require one.
func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(auth.Middleware(opts.Users, opts.Codec))

	h := opts.Handler

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.handleRegister)
			r.Post("/login", h.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth())

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.handleListSessions)
				r.Post("/", h.handleCreateSession)
				r.Get("/{id}", h.handleGetSession)
				r.Put("/{id}", h.handleUpdateSession)
				r.Delete("/{id}", h.handleDeleteSession)
				r.Post("/{id}/participate/{userId}", h.handleParticipate)
				r.Delete("/{id}/participate/{userId}", h.handleNoLongerParticipate)
			})

			r.Route("/teacher", func(r chi.Router) {
				r.Get("/", h.handleListTeachers)
				r.Get("/{id}", h.handleGetTeacher)
			})

			r.Route("/user", func(r chi.Router) {
				r.Get("/{id}", h.handleGetUser)
				r.Delete("/{id}", h.handleDeleteUser)
			})
		})
	})

	return r
}
