// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mockupstudio/internal/canvas"
)

// Canvas returns the layer state with undo/redo availability.
func (a *API) Canvas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.workspace(r).Canvas.State())
}

// ClearCanvas removes every layer and starts a fresh undo history.
func (a *API) ClearCanvas(w http.ResponseWriter, r *http.Request) {
	c := a.workspace(r).Canvas
	c.Reset()
	writeJSON(w, http.StatusOK, c.State())
}

// AddLayer places a logo on the canvas.
func (a *API) AddLayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssetID string `json:"assetId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	ws := a.workspace(r)
	if _, err := ws.AddLayer(req.AssetID); err != nil {
		writeFailure(w, "add layer", err)
		return
	}
	writeJSON(w, http.StatusCreated, ws.Canvas.State())
}

// RemoveLayer deletes a layer from the canvas.
func (a *API) RemoveLayer(w http.ResponseWriter, r *http.Request) {
	c := a.workspace(r).Canvas
	if err := c.RemoveLayer(chi.URLParam(r, "uid")); err != nil {
		writeFailure(w, "remove layer", err)
		return
	}
	writeJSON(w, http.StatusOK, c.State())
}

// PointerDown starts dragging a layer.
func (a *API) PointerDown(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID string  `json:"uid"`
		X   float64 `json:"x"`
		Y   float64 `json:"y"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	c := a.workspace(r).Canvas
	if err := c.PointerDown(req.UID, canvas.Point{X: req.X, Y: req.Y}); err != nil {
		writeFailure(w, "pointer down", err)
		return
	}
	writeJSON(w, http.StatusOK, c.State())
}

// PointerMove moves the dragged layer. Without an active drag or with an
// unmeasured canvas it is a no-op that still returns the state.
func (a *API) PointerMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		canvas.Point
		canvas.Bounds
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	c := a.workspace(r).Canvas
	c.PointerMove(req.Point, req.Bounds)
	writeJSON(w, http.StatusOK, c.State())
}

// PointerUp ends the active drag.
func (a *API) PointerUp(w http.ResponseWriter, r *http.Request) {
	c := a.workspace(r).Canvas
	c.PointerUp()
	writeJSON(w, http.StatusOK, c.State())
}

// Wheel scales a layer. Consecutive ticks on one layer share an undo step.
func (a *API) Wheel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID    string  `json:"uid"`
		DeltaY float64 `json:"deltaY"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	c := a.workspace(r).Canvas
	if err := c.Wheel(req.UID, req.DeltaY); err != nil {
		writeFailure(w, "wheel", err)
		return
	}
	writeJSON(w, http.StatusOK, c.State())
}

// Undo steps the canvas back. At the oldest state it returns it unchanged.
func (a *API) Undo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.workspace(r).Canvas.Undo())
}

// Redo steps the canvas forward. At the newest state it returns it unchanged.
func (a *API) Redo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.workspace(r).Canvas.Redo())
}
