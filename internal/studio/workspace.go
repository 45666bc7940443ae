// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package studio holds per-client design state. A Workspace owns the
// asset registry, the placement canvas, the selected product, the
// instruction text, the generation options and the gallery of finished
// mockups. A Manager hands workspaces out by client id and evicts idle
// ones.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/asset"
	"mockupstudio/internal/canvas"
	"mockupstudio/internal/compose"
	"mockupstudio/internal/layer"
	"mockupstudio/internal/slug"
)

var (
	ErrNotProduct     = errors.New("studio: asset is not a product")
	ErrNotLogo        = errors.New("studio: asset is not a logo")
	ErrMockupNotFound = errors.New("studio: mockup not found")
	ErrGalleryFull    = errors.New("studio: gallery is full")
	ErrAtCapacity     = errors.New("studio: too many active workspaces")
)

// Config configures a Manager and the workspaces it creates. Zero limits
// are unbounded.
type Config struct {
	HistoryLimit    int
	WheelSessionGap time.Duration
	DefaultModel    string
	MaxAssets       int
	MaxGallery      int
	MaxWorkspaces   int
	Now             func() time.Time
}

// Mockup is one finished image in the gallery.
type Mockup struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	ProductID string    `json:"productId"`
	Layers    layer.Set `json:"layers"`
	MimeType  string    `json:"mimeType"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// DataURL returns the image as a data: URL.
func (m *Mockup) DataURL() string {
	return asset.DataURL(m.MimeType, m.Data)
}

// Summary is a point-in-time view of a workspace.
type Summary struct {
	ProductID string          `json:"productId"`
	Prompt    string          `json:"prompt"`
	ModelID   string          `json:"modelId"`
	Options   compose.Options `json:"options"`
	Assets    int             `json:"assets"`
	Gallery   int             `json:"gallery"`
	Canvas    canvas.State    `json:"canvas"`
}

// Workspace is one client's studio. All methods are safe for concurrent use.
type Workspace struct {
	Assets *asset.Registry
	Canvas *canvas.Controller

	mu           sync.RWMutex
	productID    string
	prompt       string
	modelID      string
	defaultModel string
	options      compose.Options
	gallery      []*Mockup
	maxGallery   int
	now          func() time.Time
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(cfg Config) *Workspace {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = ai.DefaultModel
	}
	return &Workspace{
		Assets: asset.NewRegistry(cfg.MaxAssets),
		Canvas: canvas.New(canvas.Options{
			HistoryLimit:    cfg.HistoryLimit,
			WheelSessionGap: cfg.WheelSessionGap,
			Now:             cfg.Now,
		}),
		modelID:      cfg.DefaultModel,
		defaultModel: cfg.DefaultModel,
		options:      compose.DefaultOptions(),
		maxGallery:   max(cfg.MaxGallery, 0),
		now:          cfg.Now,
	}
}

// Summary returns the workspace settings and canvas state.
func (w *Workspace) Summary() Summary {
	w.mu.RLock()
	s := Summary{
		ProductID: w.productID,
		Prompt:    w.prompt,
		ModelID:   w.modelID,
		Options:   w.options,
		Gallery:   len(w.gallery),
	}
	w.mu.RUnlock()

	s.Assets = w.Assets.Len()
	s.Canvas = w.Canvas.State()
	return s
}

// SelectProduct makes id the product mockups are composited onto. An
// empty id clears the selection.
func (w *Workspace) SelectProduct(id string) error {
	if id != "" {
		a, ok := w.Assets.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", asset.ErrNotFound, id)
		}
		if a.Type != asset.TypeProduct {
			return fmt.Errorf("%w: %s", ErrNotProduct, id)
		}
	}

	w.mu.Lock()
	w.productID = id
	w.mu.Unlock()
	return nil
}

// ProductID returns the selected product id, or "".
func (w *Workspace) ProductID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.productID
}

// SetPrompt sets the free-text mockup instruction.
func (w *Workspace) SetPrompt(prompt string) {
	w.mu.Lock()
	w.prompt = strings.TrimSpace(prompt)
	w.mu.Unlock()
}

// Prompt returns the mockup instruction.
func (w *Workspace) Prompt() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.prompt
}

// SetOptions validates and stores the mockup options, returning the
// normalized value.
func (w *Workspace) SetOptions(opts compose.Options) (compose.Options, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return compose.Options{}, err
	}
	w.mu.Lock()
	w.options = opts
	w.mu.Unlock()
	return opts, nil
}

// Options returns the mockup options.
func (w *Workspace) Options() compose.Options {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.options
}

// SetModel selects the model id for generation calls. An empty id
// restores the default.
func (w *Workspace) SetModel(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		id = w.defaultModel
	}
	w.mu.Lock()
	w.modelID = id
	w.mu.Unlock()
	return id
}

// Model returns the selected model id.
func (w *Workspace) Model() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.modelID
}

// AddLayer places a logo asset on the canvas.
func (w *Workspace) AddLayer(assetID string) (layer.Layer, error) {
	a, ok := w.Assets.Get(assetID)
	if !ok {
		return layer.Layer{}, fmt.Errorf("%w: %s", asset.ErrNotFound, assetID)
	}
	if a.Type != asset.TypeLogo {
		return layer.Layer{}, fmt.Errorf("%w: %s", ErrNotLogo, assetID)
	}
	return w.Canvas.AddLayer(assetID), nil
}

// RemoveAsset deletes an asset. Canvas layers that reference it are kept
// and skipped at generation time. Removing the selected product clears
// the selection.
func (w *Workspace) RemoveAsset(id string) error {
	if !w.Assets.Remove(id) {
		return fmt.Errorf("%w: %s", asset.ErrNotFound, id)
	}
	w.mu.Lock()
	if w.productID == id {
		w.productID = ""
	}
	w.mu.Unlock()
	return nil
}

// Job is everything one mockup run needs, captured at submit time.
type Job struct {
	Product     *asset.Asset
	Placements  []compose.Placement
	Layers      layer.Set
	Instruction string
	Options     compose.Options
	ModelID     string
}

// PrepareMockup snapshots the workspace for a generation run. It fails
// when no product is selected, no layer references a logo, or the
// gallery has no room for the requested count.
func (w *Workspace) PrepareMockup() (Job, error) {
	w.mu.RLock()
	productID := w.productID
	job := Job{Instruction: w.prompt, Options: w.options, ModelID: w.modelID}
	free := w.galleryRoomLocked()
	w.mu.RUnlock()

	if free < job.Options.Count {
		return Job{}, w.galleryFullError()
	}

	product, err := compose.ResolveProduct(w.Assets, productID)
	if err != nil {
		if productID != "" {
			w.mu.Lock()
			if w.productID == productID {
				w.productID = ""
			}
			w.mu.Unlock()
		}
		return Job{}, err
	}
	job.Product = product

	job.Layers = w.Canvas.Layers()
	job.Placements, err = compose.ResolveLayers(w.Assets, job.Layers)
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

// GenerateMockups runs a mockup job against m and prepends the results
// to the gallery, newest first.
func (w *Workspace) GenerateMockups(ctx context.Context, m ai.Model) ([]*Mockup, error) {
	job, err := w.PrepareMockup()
	if err != nil {
		return nil, err
	}

	images, err := compose.GenerateMockups(ctx, m, job.ModelID, job.Product, job.Placements, job.Instruction, job.Options)
	if err != nil {
		return nil, err
	}
	return w.addMockups(job, images)
}

// addMockups stores images newest first. A run that finishes after a
// concurrent one filled the gallery keeps only what still fits.
func (w *Workspace) addMockups(job Job, images []ai.Image) ([]*Mockup, error) {
	created := w.now()
	out := make([]*Mockup, 0, len(images))
	for _, img := range images {
		out = append(out, &Mockup{
			ID:        uuid.NewString(),
			Prompt:    job.Instruction,
			ProductID: job.Product.ID,
			Layers:    job.Layers,
			MimeType:  img.MimeType,
			Data:      img.Data,
			CreatedAt: created,
		})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if free := w.galleryRoomLocked(); len(out) > free {
		if free == 0 {
			return nil, w.galleryFullError()
		}
		slog.Warn("gallery full, dropping mockups", "kept", free, "dropped", len(out)-free)
		out = out[:free]
	}
	w.gallery = append(append(make([]*Mockup, 0, len(out)+len(w.gallery)), out...), w.gallery...)
	return out, nil
}

// galleryRoomLocked returns how many more mockups fit.
func (w *Workspace) galleryRoomLocked() int {
	if w.maxGallery == 0 {
		return math.MaxInt
	}
	return max(w.maxGallery-len(w.gallery), 0)
}

func (w *Workspace) galleryFullError() error {
	return fmt.Errorf("%w: at most %d mockups, delete some first", ErrGalleryFull, w.maxGallery)
}

// GenerateAsset asks m for a new logo or product and registers it.
func (w *Workspace) GenerateAsset(ctx context.Context, m ai.Model, t asset.Type, prompt string) (*asset.Asset, error) {
	if w.Assets.Full() {
		return nil, fmt.Errorf("%w: delete an asset first", asset.ErrLimitReached)
	}
	img, err := compose.GenerateAsset(ctx, m, w.Model(), t, prompt)
	if err != nil {
		return nil, err
	}
	name := slug.Name(prompt, "ai-"+string(t), 0)
	return w.Assets.Add(t, name, img.MimeType, img.Data)
}

// Touchup blends a client-captured composite into a realistic photo.
// The composite is validated like an upload. The result is returned, not
// stored.
func (w *Workspace) Touchup(ctx context.Context, m ai.Model, dataURL, prompt string) (ai.Image, error) {
	declared, data, err := asset.ParseDataURL(dataURL)
	if err != nil {
		return ai.Image{}, err
	}
	mimeType, _, _, err := asset.Inspect(data, declared)
	if err != nil {
		return ai.Image{}, err
	}
	return compose.Touchup(ctx, m, w.Model(), mimeType, data, prompt)
}

// TestConnection probes the selected model.
func (w *Workspace) TestConnection(ctx context.Context, m ai.Model) compose.ConnectionResult {
	return compose.TestConnection(ctx, m, w.Model())
}

// Gallery returns finished mockups, newest first.
func (w *Workspace) Gallery() []*Mockup {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*Mockup(nil), w.gallery...)
}

// Mockup returns the gallery entry with id.
func (w *Workspace) Mockup(id string) (*Mockup, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, m := range w.gallery {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// RemoveMockup deletes a gallery entry.
func (w *Workspace) RemoveMockup(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, m := range w.gallery {
		if m.ID == id {
			w.gallery = append(w.gallery[:i:i], w.gallery[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMockupNotFound, id)
}
