// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// VistaPress API. It organizes routes into public, account, and staff
// groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vistapress/internal/handlers"
	"vistapress/internal/middleware"
	"vistapress/internal/session"
)

// Handlers carries every handler group the router mounts.
type Handlers struct {
	Public   *handlers.Public
	Actions  *handlers.Actions
	Auth     *handlers.Auth
	Admin    *handlers.Admin
	Listings *handlers.Listings
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. writeLimiter throttles the anonymous write
// endpoints (comments, subscriptions, login attempts).
func New(sessionStore *session.Store, writeLimiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.EnsureSession(sessionStore))
	r.Use(middleware.LoadSession(sessionStore))

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Reading endpoints.
		r.Get("/posts", h.Public.ListPosts)
		r.Get("/posts/{slug}", h.Public.GetPost)
		r.Get("/sidebar", h.Public.Sidebar)
		r.Get("/categories", h.Public.Categories)
		r.Get("/categories/{slug}", h.Public.GetCategory)
		r.Get("/tags", h.Public.Tags)

		r.Get("/listings", h.Listings.Search)
		r.Get("/listings/{slug}", h.Listings.Get)

		// Anonymous writes go through the rate limiter.
		r.Group(func(r chi.Router) {
			r.Use(writeLimiter.Middleware)
			r.Post("/posts/{slug}/comments", h.Actions.SubmitComment)
			r.Post("/newsletter/subscribe", h.Actions.Subscribe)
			r.Post("/auth/login", h.Auth.Login)
		})
		r.Get("/newsletter/confirm/{token}", h.Actions.ConfirmSubscription)
		r.Post("/newsletter/unsubscribe/{token}", h.Actions.Unsubscribe)
		r.Post("/auth/logout", h.Auth.Logout)

		// Signed-in readers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/auth/me", h.Auth.Me)
			r.Post("/posts/{slug}/save", h.Actions.ToggleSave)
			r.Get("/me/saved", h.Actions.SavedPosts)
		})

		// Staff area.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireStaff)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", h.Admin.ListPosts)
				r.Post("/", h.Admin.CreatePost)
				r.Get("/{id}", h.Admin.GetPost)
				r.Put("/{id}", h.Admin.UpdatePost)
				r.Delete("/{id}", h.Admin.DeletePost)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", h.Admin.CreateCategory)
				r.Put("/{id}", h.Admin.UpdateCategory)
				r.Delete("/{id}", h.Admin.DeleteCategory)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", h.Admin.ModerationQueue)
				r.Put("/{id}", h.Admin.ModerateComment)
				r.Delete("/{id}", h.Admin.DeleteComment)
			})

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", h.Listings.ListAll)
				r.Post("/", h.Listings.Create)
				r.Put("/{id}", h.Listings.Update)
				r.Delete("/{id}", h.Listings.Delete)
				r.Post("/{id}/photos", h.Listings.UploadPhoto)
				r.Post("/{id}/videos", h.Listings.UploadVideo)
				r.Delete("/photos/{mediaID}", h.Listings.DeletePhoto)
				r.Delete("/videos/{mediaID}", h.Listings.DeleteVideo)
			})

			// Subscriber export is admin only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/subscribers", h.Admin.Subscribers)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
