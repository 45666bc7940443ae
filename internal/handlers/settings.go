// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"mockupstudio/internal/middleware"
)

// KeyStatus reports whether the client has a usable API key. The key
// itself is never returned.
func (a *API) KeyStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.keys.Status(r.Context(), middleware.ClientIDFromCtx(r.Context()))
	if err != nil {
		writeFailure(w, "key status", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// SetKey stores a manually entered API key for the client.
func (a *API) SetKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	ctx := r.Context()
	clientID := middleware.ClientIDFromCtx(ctx)
	if err := a.keys.SetManual(ctx, clientID, req.APIKey); err != nil {
		writeFailure(w, "set key", err)
		return
	}
	slog.Info("manual api key saved")
	a.KeyStatus(w, r)
}

// ClearKey removes the client's manual key, falling back to the default.
func (a *API) ClearKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.keys.ClearManual(ctx, middleware.ClientIDFromCtx(ctx)); err != nil {
		writeFailure(w, "clear key", err)
		return
	}
	a.KeyStatus(w, r)
}

// TestConnection probes the selected model with the client's key. It
// reports failure in the body and always answers 200 once a key exists.
func (a *API) TestConnection(w http.ResponseWriter, r *http.Request) {
	m, err := a.model(r.Context())
	if err != nil {
		writeFailure(w, "test connection", err)
		return
	}
	writeJSON(w, http.StatusOK, a.workspace(r).TestConnection(r.Context(), m))
}
