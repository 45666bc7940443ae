// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compose turns studio state into generation requests: the
// multi-image mockup loop, single-shot asset generation, the realism
// touchup of a client-side composite, and the model connection test.
package compose

import (
	"errors"
	"fmt"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/asset"
	"mockupstudio/internal/layer"
)

var (
	ErrNoImage           = errors.New("compose: no image data found in response")
	ErrProductNotFound   = errors.New("compose: selected product not found")
	ErrNoLayers          = errors.New("compose: no valid logos on canvas")
	ErrEmptyPrompt       = errors.New("compose: prompt is required")
	ErrInvalidCreativity = errors.New("compose: invalid creativity level")
)

// Creativity selects how freely the model may reinterpret the scene.
type Creativity string

const (
	CreativityStandard Creativity = "standard"
	CreativityHigh     Creativity = "high"
)

// Mockup counts accepted per generation.
const (
	MinCount = 1
	MaxCount = 3
)

// Options controls a mockup generation run.
type Options struct {
	Count      int        `json:"count"`
	Creativity Creativity `json:"creativity"`
	VaryAngles bool       `json:"varyAngles"`
}

// DefaultOptions returns one standard-creativity mockup without angle variation.
func DefaultOptions() Options {
	return Options{Count: 1, Creativity: CreativityStandard}
}

// Normalize clamps Count into [MinCount, MaxCount] and defaults an empty
// Creativity. Unknown creativity levels are rejected.
func (o Options) Normalize() (Options, error) {
	o.Count = min(max(o.Count, MinCount), MaxCount)
	switch o.Creativity {
	case "":
		o.Creativity = CreativityStandard
	case CreativityStandard, CreativityHigh:
	default:
		return Options{}, fmt.Errorf("%w: %q", ErrInvalidCreativity, o.Creativity)
	}
	return o, nil
}

// temperature is the sampling temperature for the creativity level.
func (o Options) temperature() float64 {
	if o.Creativity == CreativityHigh {
		return 1.0
	}
	return 0.4
}

// Placement pairs a canvas layer with the logo asset it shows.
type Placement struct {
	Asset *asset.Asset
	Layer layer.Layer
}

// AssetSource looks assets up by id. *asset.Registry satisfies it.
type AssetSource interface {
	Get(id string) (*asset.Asset, bool)
}

// ResolveProduct returns the product asset with id.
func ResolveProduct(src AssetSource, id string) (*asset.Asset, error) {
	if id == "" {
		return nil, ErrProductNotFound
	}
	a, ok := src.Get(id)
	if !ok || a.Type != asset.TypeProduct {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return a, nil
}

// ResolveLayers pairs each layer with its asset, in layer order. Layers
// whose asset was removed, or is not a logo, are dropped.
func ResolveLayers(src AssetSource, layers layer.Set) ([]Placement, error) {
	out := make([]Placement, 0, len(layers))
	for _, l := range layers {
		a, ok := src.Get(l.AssetID)
		if !ok || a.Type != asset.TypeLogo {
			continue
		}
		out = append(out, Placement{Asset: a, Layer: l})
	}
	if len(out) == 0 {
		return nil, ErrNoLayers
	}
	return out, nil
}

// firstImage unwraps a single-shot response.
func firstImage(resp ai.Response) (ai.Image, error) {
	if img, ok := ai.FirstImage(resp); ok {
		return img, nil
	}
	switch r := resp.(type) {
	case ai.Success:
		return ai.Image{}, ErrNoImage
	case ai.Empty:
		if r.Reason != "" {
			return ai.Image{}, fmt.Errorf("%w (%s)", ErrNoImage, r.Reason)
		}
		return ai.Image{}, ErrNoImage
	case *ai.ProviderError:
		return ai.Image{}, r
	default:
		return ai.Image{}, fmt.Errorf("compose: unexpected response %T", resp)
	}
}
