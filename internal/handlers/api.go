// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the mockup studio.
// Every handler works on the calling client's workspace, looked up by the
// client id the middleware put in the request context.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/credentials"
	"mockupstudio/internal/middleware"
	"mockupstudio/internal/studio"
)

// maxJSONBody caps JSON request bodies. Data URL uploads are base64, so
// it leaves room for a full-size asset.
const maxJSONBody = 32 << 20

// ModelFactory builds a generation client bound to one API key.
type ModelFactory func(apiKey string) ai.Model

// GeminiFactory returns a ModelFactory producing Gemini clients that share
// cfg except for the key.
func GeminiFactory(cfg ai.ProviderConfig) ModelFactory {
	return func(apiKey string) ai.Model {
		c := cfg
		c.APIKey = apiKey
		return ai.NewGemini(c)
	}
}

// API groups the studio handlers and their dependencies.
type API struct {
	studios *studio.Manager
	keys    *credentials.Resolver
	models  ModelFactory
}

// NewAPI creates the handler group.
func NewAPI(studios *studio.Manager, keys *credentials.Resolver, models ModelFactory) *API {
	return &API{studios: studios, keys: keys, models: models}
}

type workspaceKey struct{}

// Workspace loads the calling client's workspace into the request
// context. It must run after middleware.ClientID. When the server holds
// as many workspaces as allowed, new clients get 503.
func (a *API) Workspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := a.studios.Get(middleware.ClientIDFromCtx(r.Context()))
		if err != nil {
			writeFailure(w, "workspace", err)
			return
		}
		ctx := context.WithValue(r.Context(), workspaceKey{}, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// workspace returns the workspace loaded by the Workspace middleware.
func (a *API) workspace(r *http.Request) *studio.Workspace {
	return r.Context().Value(workspaceKey{}).(*studio.Workspace)
}

// model resolves the calling client's key and returns a client for it.
// credentials.ErrMissingKey is returned before any network call.
func (a *API) model(ctx context.Context) (ai.Model, error) {
	key, src, err := a.keys.Resolve(ctx, middleware.ClientIDFromCtx(ctx))
	if err != nil {
		return nil, err
	}
	slog.Debug("api key resolved", "source", src)
	return a.models(key), nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the API error shape {"error": code, "message": text}.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// badRequest writes a 400 for a malformed body.
func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
}
