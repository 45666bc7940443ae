// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/asset"
	"mockupstudio/internal/canvas"
	"mockupstudio/internal/compose"
	"mockupstudio/internal/credentials"
	"mockupstudio/internal/studio"
)

// statusClientClosedRequest is the de facto status for a caller that went
// away before the response was ready.
const statusClientClosedRequest = 499

// writeFailure maps a domain error onto its HTTP status and error code,
// logging the ones that are not the client's fault.
func writeFailure(w http.ResponseWriter, op string, err error) {
	var pe *ai.ProviderError

	switch {
	case errors.Is(err, credentials.ErrMissingKey):
		writeError(w, http.StatusPreconditionRequired, "api_key_required", "An API key is required. Add one in settings.")

	case ai.IsCredentialRejected(err):
		slog.Warn("api key rejected", "op", op, "error", err)
		writeError(w, http.StatusUnauthorized, "api_key_rejected", "The API key was rejected. Please enter a valid key.")

	case errors.Is(err, compose.ErrNoImage):
		slog.Warn("generation returned no image", "op", op)
		writeError(w, http.StatusBadGateway, "no_image", "No image data found in response.")

	case errors.Is(err, context.Canceled):
		slog.Info("request cancelled", "op", op)
		writeError(w, statusClientClosedRequest, "cancelled", "Request cancelled.")

	case errors.As(err, &pe):
		if ai.IsModelNotFound(err) {
			slog.Error("model not found, check the model id", "op", op, "error", err)
		} else {
			slog.Error("generation failed", "op", op, "error", err)
		}
		msg := pe.Message
		if msg == "" {
			msg = pe.Error()
		}
		writeError(w, http.StatusBadGateway, "provider_error", msg)

	case errors.Is(err, asset.ErrNotFound),
		errors.Is(err, canvas.ErrLayerNotFound),
		errors.Is(err, studio.ErrMockupNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, canvas.ErrDragActive):
		writeError(w, http.StatusConflict, "drag_active", err.Error())

	case errors.Is(err, asset.ErrLimitReached),
		errors.Is(err, studio.ErrGalleryFull):
		writeError(w, http.StatusConflict, "limit_reached", err.Error())

	case errors.Is(err, studio.ErrAtCapacity):
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusServiceUnavailable, "at_capacity", "The studio is at capacity. Please try again later.")

	case errors.Is(err, asset.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())

	case isValidation(err):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())

	default:
		slog.Error("request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Internal Server Error")
	}
}

// validationErrors are caller mistakes answered with 400.
var validationErrors = []error{
	credentials.ErrKeyTooShort,
	compose.ErrEmptyPrompt,
	compose.ErrInvalidCreativity,
	compose.ErrNoLayers,
	compose.ErrProductNotFound,
	asset.ErrInvalidType,
	asset.ErrUnsupportedMIME,
	asset.ErrEmpty,
	asset.ErrInvalidImage,
	asset.ErrInvalidDataURL,
	studio.ErrNotProduct,
	studio.ErrNotLogo,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
