// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/asset"
)

// Angles are the camera variations cycled through when VaryAngles is
// set. Request i > 0 uses Angles[i % len(Angles)].
var Angles = []string{
	"a slight left three-quarter view",
	"a slight right three-quarter view",
	"a low angle looking up",
	"a high angle looking down",
}

const (
	anglePhrase      = "Show the product from a different camera angle: %s."
	creativityPhrase = "Be creative with the staging and lighting of the scene while keeping every logo recognisable."
)

// MockupPrompt builds the text part of the index-th mockup request.
func MockupPrompt(instruction string, placements []Placement, opts Options, index int) string {
	instr := []string{strings.TrimSpace(instruction)}
	if opts.VaryAngles && index > 0 {
		instr = append(instr, fmt.Sprintf(anglePhrase, Angles[index%len(Angles)]))
	}
	if opts.Creativity == CreativityHigh {
		instr = append(instr, creativityPhrase)
	}

	var b strings.Builder
	b.WriteString("User Instructions: ")
	b.WriteString(strings.TrimSpace(strings.Join(instr, " ")))
	b.WriteString("\n\nLayout Guidance based on user's rough placement on canvas:")
	for i, p := range placements {
		fmt.Fprintf(&b, "\n- Logo %d: %s", i+1, p.Layer.Hint())
	}
	fmt.Fprintf(&b, "\n\nSystem Task: Composite the provided logo images (images 2-%d) onto the first image (the product) to create a realistic product mockup.", len(placements)+1)
	b.WriteString("\nFollow the Layout Guidance for positioning if provided, but prioritize realistic surface warping, lighting, and perspective blending.")
	b.WriteString("\nOutput ONLY the resulting image.")
	return b.String()
}

// MockupRequest builds the index-th sub-request: the product image, each
// logo image in layer order, then the prompt.
func MockupRequest(modelID string, product *asset.Asset, placements []Placement, instruction string, opts Options, index int) ai.Request {
	parts := make([]ai.Part, 0, len(placements)+2)
	parts = append(parts, ai.ImagePart(product.MimeType, product.Data))
	for _, p := range placements {
		parts = append(parts, ai.ImagePart(p.Asset.MimeType, p.Asset.Data))
	}
	parts = append(parts, ai.TextPart(MockupPrompt(instruction, placements, opts, index)))

	return ai.Request{
		Model:       modelID,
		Parts:       parts,
		Modalities:  []ai.Modality{ai.ModalityImage},
		Temperature: ai.Temperature(opts.temperature()),
	}
}

// GenerateMockups runs opts.Count sub-requests one after another and
// returns the images produced, in request order. A sub-request that
// yields no image is dropped. When nothing at all is produced, the first
// provider error is returned if there was one, ErrNoImage otherwise.
func GenerateMockups(ctx context.Context, m ai.Model, modelID string, product *asset.Asset, placements []Placement, instruction string, opts Options) ([]ai.Image, error) {
	if product == nil {
		return nil, ErrProductNotFound
	}
	if len(placements) == 0 {
		return nil, ErrNoLayers
	}
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	var (
		images   []ai.Image
		firstErr error
	)
	for i := 0; i < opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			if len(images) > 0 {
				break
			}
			return nil, fmt.Errorf("compose mockup: %w", err)
		}

		req := MockupRequest(modelID, product, placements, instruction, opts, i)
		img, err := firstImage(m.GenerateContent(ctx, req))
		if err != nil {
			slog.Warn("mockup sub-request produced no image", "index", i, "count", opts.Count, "error", err)
			var pe *ai.ProviderError
			if firstErr == nil && errors.As(err, &pe) {
				firstErr = pe
			}
			continue
		}
		images = append(images, img)
	}

	if len(images) == 0 {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, ErrNoImage
	}
	return images, nil
}
