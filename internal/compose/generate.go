// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/asset"
)

// DefaultTouchupPrompt is used when a realism touchup has no prompt.
const DefaultTouchupPrompt = "Make this look like a real photo"

// AssetPrompt expands a short description into the generation prompt for
// an asset of type t.
func AssetPrompt(t asset.Type, prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if t == asset.TypeLogo {
		return fmt.Sprintf("A high-quality, professional vector-style logo design of a %s. "+
			"Isolated on a pure white background. Minimalist and clean, single distinct logo.", prompt)
	}
	return fmt.Sprintf("Professional studio product photography of a single %s. "+
		"Ghost mannequin style or flat lay. Front view, isolated on neutral background. "+
		"High resolution, photorealistic. Single object only, no stacks, no duplicates.", prompt)
}

// GenerateAsset asks the model for a fresh logo or product image.
func GenerateAsset(ctx context.Context, m ai.Model, modelID string, t asset.Type, prompt string) (ai.Image, error) {
	if _, err := asset.ParseType(string(t)); err != nil {
		return ai.Image{}, err
	}
	if strings.TrimSpace(prompt) == "" {
		return ai.Image{}, ErrEmptyPrompt
	}

	resp := m.GenerateContent(ctx, ai.Request{
		Model:      modelID,
		Parts:      []ai.Part{ai.TextPart(AssetPrompt(t, prompt))},
		Modalities: []ai.Modality{ai.ModalityImage},
	})
	return firstImage(resp)
}

// TouchupPrompt builds the blending instruction for a rough composite.
func TouchupPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = DefaultTouchupPrompt
	}
	return "Input is a rough AR composite. Task: " + prompt + ".\n" +
		"Render the overlaid object naturally into the scene.\n" +
		"Match the lighting, shadows, reflections, and perspective of the background.\n" +
		"Keep the background largely as is, but blend the object seamlessly.\n" +
		"Output ONLY the resulting image."
}

// Touchup renders a client-captured composite photorealistic.
func Touchup(ctx context.Context, m ai.Model, modelID, mimeType string, composite []byte, prompt string) (ai.Image, error) {
	if len(composite) == 0 {
		return ai.Image{}, asset.ErrEmpty
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	resp := m.GenerateContent(ctx, ai.Request{
		Model: modelID,
		Parts: []ai.Part{
			ai.ImagePart(mimeType, composite),
			ai.TextPart(TouchupPrompt(prompt)),
		},
		Modalities: []ai.Modality{ai.ModalityImage},
	})
	return firstImage(resp)
}

// ConnectionResult is the outcome of a connection test.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IsImageModel reports whether modelID names an image generation model.
func IsImageModel(modelID string) bool {
	return strings.Contains(modelID, "image") || strings.Contains(modelID, "imagen")
}

// TestConnection probes modelID with a trivial request. Image models are
// asked for a tiny picture, text models for a greeting. Failures are
// reported in the result, never returned.
func TestConnection(ctx context.Context, m ai.Model, modelID string) ConnectionResult {
	req := ai.Request{Model: modelID}
	if IsImageModel(modelID) {
		req.Parts = []ai.Part{ai.TextPart("A small red dot")}
		req.Modalities = []ai.Modality{ai.ModalityImage}
	} else {
		req.Parts = []ai.Part{ai.TextPart("Say hello")}
	}

	switch r := m.GenerateContent(ctx, req).(type) {
	case ai.Success:
		if IsImageModel(modelID) {
			return ConnectionResult{Success: true, Message: "Image generation model connected successfully."}
		}
		if r.Text != "" {
			return ConnectionResult{Success: true, Message: fmt.Sprintf("Connected to %s successfully.", modelID)}
		}
	case *ai.ProviderError:
		slog.Warn("model connection test failed", "model", modelID, "error", r)
		if ai.IsModelNotFound(r) {
			slog.Warn("model id may be wrong", "model", modelID)
		}
		msg := r.Message
		if msg == "" {
			msg = "Connection failed"
		}
		return ConnectionResult{Message: msg}
	}
	return ConnectionResult{Message: "No content returned."}
}
