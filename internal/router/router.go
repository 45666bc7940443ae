// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// mockup studio API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"mockupstudio/internal/handlers"
	"mockupstudio/internal/middleware"
	"mockupstudio/internal/session"
)

// Options configures the middleware chain.
type Options struct {
	// AllowedOrigins lists origins allowed to call the API cross-origin.
	AllowedOrigins []string
	// Secure marks cookies Secure (TLS deployments).
	Secure bool
	// GenerateLimiter throttles the routes that call the generation API.
	// Nil disables throttling.
	GenerateLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, issuer *session.Issuer, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(corsHandler(opts.AllowedOrigins).Handler)
	}

	// Health check: no client id, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ClientID(issuer))
		r.Use(middleware.NewCSRF(opts.Secure))

		r.Get("/session", api.Session)

		// API key
		r.Route("/settings/key", func(r chi.Router) {
			r.Get("/", api.KeyStatus)
			r.Put("/", api.SetKey)
			r.Delete("/", api.ClearKey)
		})

		// Everything below works on the caller's workspace.
		r.Group(func(r chi.Router) {
			r.Use(api.Workspace)

			// Workspace settings
			r.Route("/studio", func(r chi.Router) {
				r.Get("/", api.Studio)
				r.Delete("/", api.ResetStudio)
				r.Put("/product", api.SetProduct)
				r.Put("/options", api.SetOptions)
				r.Put("/prompt", api.SetPrompt)
				r.Put("/model", api.SetModel)
			})

			// Assets
			r.Route("/assets", func(r chi.Router) {
				r.Get("/", api.ListAssets)
				r.Post("/", api.UploadAsset)
				r.With(limit(opts.GenerateLimiter)).Post("/generate", api.GenerateAsset)
				r.Get("/{id}/image", api.AssetImage)
				r.Delete("/{id}", api.DeleteAsset)
			})

			// Placement canvas
			r.Route("/canvas", func(r chi.Router) {
				r.Get("/", api.Canvas)
				r.Delete("/", api.ClearCanvas)
				r.Post("/layers", api.AddLayer)
				r.Delete("/layers/{uid}", api.RemoveLayer)
				r.Post("/pointer/down", api.PointerDown)
				r.Post("/pointer/move", api.PointerMove)
				r.Post("/pointer/up", api.PointerUp)
				r.Post("/wheel", api.Wheel)
				r.Post("/undo", api.Undo)
				r.Post("/redo", api.Redo)
			})

			// Generation
			r.Group(func(r chi.Router) {
				r.Use(limit(opts.GenerateLimiter))
				r.Post("/mockups", api.GenerateMockups)
				r.Post("/composite/realism", api.Realism)
				r.Post("/settings/test", api.TestConnection)
			})

			// Gallery
			r.Route("/gallery", func(r chi.Router) {
				r.Get("/", api.Gallery)
				r.Get("/{id}/image", api.GalleryImage)
				r.Delete("/{id}", api.DeleteMockup)
			})
		})
	})

	return r
}

// corsHandler allows the configured origins to call the API with
// credentials so the client id cookie travels. Without origins the
// middleware is not installed at all, since rs/cors treats an empty list
// as allow-all.
func corsHandler(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
