// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mockupstudio/internal/studio"
)

// mockupView is the JSON shape of a gallery entry.
type mockupView struct {
	*studio.Mockup
	ImageURL string `json:"imageUrl"`
}

func viewMockups(items []*studio.Mockup) []mockupView {
	views := make([]mockupView, 0, len(items))
	for _, m := range items {
		views = append(views, mockupView{Mockup: m, ImageURL: m.DataURL()})
	}
	return views
}

// GenerateMockups runs a mockup job from the workspace state and returns
// the new gallery entries.
func (a *API) GenerateMockups(w http.ResponseWriter, r *http.Request) {
	ws := a.workspace(r)

	// Validate the workspace before resolving a key.
	if _, err := ws.PrepareMockup(); err != nil {
		writeFailure(w, "generate mockups", err)
		return
	}
	m, err := a.model(r.Context())
	if err != nil {
		writeFailure(w, "generate mockups", err)
		return
	}

	start := time.Now()
	created, err := ws.GenerateMockups(r.Context(), m)
	if err != nil {
		writeFailure(w, "generate mockups", err)
		return
	}
	opts := ws.Options()
	slog.Info("mockups generated",
		"requested", opts.Count,
		"produced", len(created),
		"duration", time.Since(start).String(),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"mockups":   viewMockups(created),
		"requested": opts.Count,
	})
}

type realismRequest struct {
	DataURL string `json:"dataUrl"`
	Prompt  string `json:"prompt"`
}

// Realism blends a client-captured composite into a realistic photo. The
// result is returned, not stored.
func (a *API) Realism(w http.ResponseWriter, r *http.Request) {
	var req realismRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	m, err := a.model(r.Context())
	if err != nil {
		writeFailure(w, "realism", err)
		return
	}
	img, err := a.workspace(r).Touchup(r.Context(), m, req.DataURL, req.Prompt)
	if err != nil {
		writeFailure(w, "realism", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"mimeType": img.MimeType,
		"imageUrl": img.DataURL(),
	})
}

// Gallery lists finished mockups, newest first.
func (a *API) Gallery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"mockups": viewMockups(a.workspace(r).Gallery())})
}

// GalleryImage serves a mockup's raw image bytes.
func (a *API) GalleryImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := a.workspace(r).Mockup(id)
	if !ok {
		writeFailure(w, "gallery image", fmt.Errorf("%w: %s", studio.ErrMockupNotFound, id))
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="mockup-%s%s"`, m.ID, extensionFromType(m.MimeType)))
	writeImage(w, m.MimeType, m.Data)
}

// DeleteMockup removes a gallery entry.
func (a *API) DeleteMockup(w http.ResponseWriter, r *http.Request) {
	if err := a.workspace(r).RemoveMockup(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, "delete mockup", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// extensionFromType maps an image MIME type to a file extension.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
