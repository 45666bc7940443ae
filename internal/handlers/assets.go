// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mockupstudio/internal/asset"
)

// assetView is the JSON shape of an asset. The payload travels as a data
// URL so clients can render it without a second request.
type assetView struct {
	*asset.Asset
	ImageURL string `json:"imageUrl"`
}

func viewAsset(a *asset.Asset) assetView {
	return assetView{Asset: a, ImageURL: a.DataURL()}
}

// ListAssets returns the workspace assets, optionally filtered by ?type=.
func (a *API) ListAssets(w http.ResponseWriter, r *http.Request) {
	var filter asset.Type
	if q := r.URL.Query().Get("type"); q != "" {
		t, err := asset.ParseType(q)
		if err != nil {
			writeFailure(w, "list assets", err)
			return
		}
		filter = t
	}

	items := a.workspace(r).Assets.List(filter)
	views := make([]assetView, 0, len(items))
	for _, it := range items {
		views = append(views, viewAsset(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": views})
}

type uploadRequest struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	DataURL string `json:"dataUrl"`
}

// UploadAsset registers an uploaded image. It accepts a multipart form
// (file, type, name) or a JSON body carrying a data URL.
func (a *API) UploadAsset(w http.ResponseWriter, r *http.Request) {
	ws := a.workspace(r)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		t, name, mimeType, data, ok := readMultipartUpload(w, r)
		if !ok {
			return
		}
		created, err := ws.Assets.Add(t, name, mimeType, data)
		if err != nil {
			writeFailure(w, "upload asset", err)
			return
		}
		slog.Info("asset uploaded", "id", created.ID, "type", created.Type, "mime", created.MimeType, "bytes", len(created.Data))
		writeJSON(w, http.StatusCreated, viewAsset(created))
		return
	}

	var req uploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if msg := validateAssetName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	t, err := asset.ParseType(req.Type)
	if err != nil {
		writeFailure(w, "upload asset", err)
		return
	}
	created, err := ws.Assets.AddDataURL(t, req.Name, req.DataURL)
	if err != nil {
		writeFailure(w, "upload asset", err)
		return
	}
	slog.Info("asset uploaded", "id", created.ID, "type", created.Type, "mime", created.MimeType, "bytes", len(created.Data))
	writeJSON(w, http.StatusCreated, viewAsset(created))
}

// readMultipartUpload parses the upload form and reads the file. On
// failure it has already written the response.
func readMultipartUpload(w http.ResponseWriter, r *http.Request) (asset.Type, string, string, []byte, bool) {
	// Limit request body to MaxSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, asset.MaxSize+1024)
	if err := r.ParseMultipartForm(asset.MaxSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "File too large. Maximum size is 20 MB.")
		return "", "", "", nil, false
	}

	t, err := asset.ParseType(r.FormValue("type"))
	if err != nil {
		writeFailure(w, "upload asset", err)
		return "", "", "", nil, false
	}
	name := r.FormValue("name")
	if msg := validateAssetName(name); msg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return "", "", "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "No file provided.")
		return "", "", "", nil, false
	}
	defer file.Close()

	if header.Size > asset.MaxSize {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "File too large. Maximum size is 20 MB.")
		return "", "", "", nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to read file.")
		return "", "", "", nil, false
	}
	if name == "" {
		name = strings.TrimSuffix(header.Filename, fileExt(header.Filename))
	}
	return t, name, header.Header.Get("Content-Type"), data, true
}

// fileExt returns the extension of name including the dot, or "".
func fileExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}

type generateAssetRequest struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// GenerateAsset creates a logo or product image from a text prompt and
// registers it.
func (a *API) GenerateAsset(w http.ResponseWriter, r *http.Request) {
	var req generateAssetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	t, err := asset.ParseType(req.Type)
	if err != nil {
		writeFailure(w, "generate asset", err)
		return
	}

	m, err := a.model(r.Context())
	if err != nil {
		writeFailure(w, "generate asset", err)
		return
	}
	created, err := a.workspace(r).GenerateAsset(r.Context(), m, t, req.Prompt)
	if err != nil {
		writeFailure(w, "generate asset", err)
		return
	}
	slog.Info("asset generated", "id", created.ID, "type", created.Type)
	writeJSON(w, http.StatusCreated, viewAsset(created))
}

// AssetImage serves an asset's raw image bytes.
func (a *API) AssetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, ok := a.workspace(r).Assets.Get(id)
	if !ok {
		writeFailure(w, "asset image", fmt.Errorf("%w: %s", asset.ErrNotFound, id))
		return
	}
	writeImage(w, it.MimeType, it.Data)
}

// DeleteAsset removes an asset from the workspace.
func (a *API) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := a.workspace(r).RemoveAsset(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, "delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeImage writes raw image bytes with their content type.
func writeImage(w http.ResponseWriter, mimeType string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Debug("image write failed", "error", err)
	}
}
