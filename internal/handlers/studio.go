// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"mockupstudio/internal/compose"
	"mockupstudio/internal/middleware"
)

// Session returns the CSRF token the client must echo on mutations.
func (a *API) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"csrfToken": middleware.CSRFTokenFromCtx(r.Context()),
	})
}

// Studio returns the workspace summary.
func (a *API) Studio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.workspace(r).Summary())
}

// ResetStudio discards the calling client's workspace: assets, canvas,
// settings and gallery. The manual API key is kept.
func (a *API) ResetStudio(w http.ResponseWriter, r *http.Request) {
	a.studios.Drop(middleware.ClientIDFromCtx(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// SetProduct selects the product mockups are composited onto.
func (a *API) SetProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	ws := a.workspace(r)
	if err := ws.SelectProduct(req.ProductID); err != nil {
		writeFailure(w, "select product", err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Summary())
}

// SetOptions stores the mockup options (count, creativity, varyAngles).
func (a *API) SetOptions(w http.ResponseWriter, r *http.Request) {
	ws := a.workspace(r)
	req := ws.Options()
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	opts, err := ws.SetOptions(req)
	if err != nil {
		writeFailure(w, "set options", err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// SetPrompt stores the mockup instruction.
func (a *API) SetPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	ws := a.workspace(r)
	ws.SetPrompt(req.Prompt)
	writeJSON(w, http.StatusOK, map[string]string{"prompt": ws.Prompt()})
}

// SetModel selects the model id for generation calls.
func (a *API) SetModel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModelID string `json:"modelId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if msg := validateModelID(req.ModelID); msg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	id := a.workspace(r).SetModel(req.ModelID)
	writeJSON(w, http.StatusOK, map[string]any{
		"modelId":    id,
		"imageModel": compose.IsImageModel(id),
	})
}
