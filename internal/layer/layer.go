// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package layer models logo placements on the mockup canvas. Positions
// are percentages of the canvas box (0,0 is top-left) so they survive
// any display size. Every mutation returns a new Set; a Set is never
// modified in place once it has been handed out.
package layer

import (
	"math"

	"github.com/google/uuid"
)

// Placement bounds.
const (
	MinPosition = 0.0
	MaxPosition = 100.0

	MinScale     = 0.2
	MaxScale     = 3.0
	DefaultScale = 1.0

	// ScaleStep is the scale change applied per wheel tick.
	ScaleStep = 0.1

	// DefaultX and DefaultY place new layers in the canvas center.
	DefaultX = 50.0
	DefaultY = 50.0
)

// Layer is one logo instance placed on the canvas.
type Layer struct {
	UID      string  `json:"uid"`
	AssetID  string  `json:"assetId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// New returns a layer for assetID at the default centered placement
// with a fresh uid. The asset reference is not validated.
func New(assetID string) Layer {
	return Layer{
		UID:     uuid.NewString(),
		AssetID: assetID,
		X:       DefaultX,
		Y:       DefaultY,
		Scale:   DefaultScale,
	}
}

// Set is an ordered snapshot of all layers on a canvas. Order is the
// stacking and prompt order: earlier layers are listed first.
type Set []Layer

// Clone returns an independent copy of s. A nil Set clones to an empty,
// non-nil Set so snapshots compare equal regardless of origin.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Index returns the position of the layer with uid, or -1.
func (s Set) Index(uid string) int {
	for i, l := range s {
		if l.UID == uid {
			return i
		}
	}
	return -1
}

// Find returns the layer with uid.
func (s Set) Find(uid string) (Layer, bool) {
	if i := s.Index(uid); i >= 0 {
		return s[i], true
	}
	return Layer{}, false
}

// With returns a copy of s with l appended.
func (s Set) With(l Layer) Set {
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	return append(out, l)
}

// Without returns a copy of s with the layer uid removed.
func (s Set) Without(uid string) Set {
	out := make(Set, 0, len(s))
	for _, l := range s {
		if l.UID != uid {
			out = append(out, l)
		}
	}
	return out
}

// MovedTo returns a copy of s with layer uid positioned at (x, y),
// clamped to the canvas. ok is false when uid is not present.
func (s Set) MovedTo(uid string, x, y float64) (Set, bool) {
	return s.update(uid, func(l *Layer) {
		l.X = ClampPosition(x)
		l.Y = ClampPosition(y)
	})
}

// ScaledBy returns a copy of s with delta added to the scale of layer
// uid, clamped to [MinScale, MaxScale].
func (s Set) ScaledBy(uid string, delta float64) (Set, bool) {
	return s.update(uid, func(l *Layer) {
		l.Scale = ClampScale(l.Scale + delta)
	})
}

func (s Set) update(uid string, fn func(*Layer)) (Set, bool) {
	i := s.Index(uid)
	if i < 0 {
		return s, false
	}
	out := s.Clone()
	fn(&out[i])
	return out, true
}

// ClampPosition limits a percentage coordinate to the canvas.
func ClampPosition(v float64) float64 {
	return math.Max(MinPosition, math.Min(MaxPosition, v))
}

// ClampScale limits a scale factor to [MinScale, MaxScale]. The result
// is rounded to two decimals so repeated 0.1 steps do not drift.
func ClampScale(v float64) float64 {
	v = math.Round(v*100) / 100
	return math.Max(MinScale, math.Min(MaxScale, v))
}
