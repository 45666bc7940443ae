// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package canvas turns pointer, touch and wheel input into layer
// mutations and records them in an undo history. Discrete actions (add,
// remove) commit a new undo step. A drag or a scroll session produces
// exactly one undo step: its first change commits, every later frame
// overwrites that same entry.
package canvas

import (
	"errors"
	"sync"
	"time"

	"mockupstudio/internal/history"
	"mockupstudio/internal/layer"
)

// DefaultWheelSessionGap is the idle time after which the next wheel
// tick starts a new scroll session (and so a new undo step).
const DefaultWheelSessionGap = 500 * time.Millisecond

var (
	// ErrLayerNotFound is returned when an operation names a uid that is
	// not on the canvas.
	ErrLayerNotFound = errors.New("canvas: layer not found")

	// ErrDragActive is returned by PointerDown while another drag is in
	// progress. Only one layer may be dragged at a time.
	ErrDragActive = errors.New("canvas: a drag is already in progress")
)

// Point is a pointer position in screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is the canvas bounding box size in screen pixels.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// empty reports whether the canvas has no measurable area (not mounted).
func (b Bounds) empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// drag captures where a drag started so every move is computed from the
// origin rather than accumulated frame to frame.
type drag struct {
	uid            string
	start          Point
	initX, initY   float64
	checkpointDone bool
}

// scrollSession groups consecutive wheel ticks on one layer.
type scrollSession struct {
	uid  string
	last time.Time
}

// Options configures a Controller.
type Options struct {
	// HistoryLimit caps retained undo entries (0 = unbounded).
	HistoryLimit int
	// WheelSessionGap separates scroll sessions. Zero uses the default.
	WheelSessionGap time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// State is a point-in-time view of the canvas.
type State struct {
	Layers   layer.Set `json:"layers"`
	CanUndo  bool      `json:"canUndo"`
	CanRedo  bool      `json:"canRedo"`
	Dragging string    `json:"dragging,omitempty"`
}

// Controller owns the layer history of one canvas and the single active
// drag. All methods are safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	history  *history.Stack[layer.Set]
	drag     *drag
	scroll   *scrollSession
	wheelGap time.Duration
	now      func() time.Time
}

// New creates a controller with an empty canvas.
func New(opts Options) *Controller {
	if opts.WheelSessionGap <= 0 {
		opts.WheelSessionGap = DefaultWheelSessionGap
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		history:  history.New(layer.Set{}, opts.HistoryLimit),
		wheelGap: opts.WheelSessionGap,
		now:      opts.Now,
	}
}

// Layers returns the current layer snapshot. The caller must not modify it.
func (c *Controller) Layers() layer.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Current()
}

// State returns the layers together with undo/redo availability.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	s := State{
		Layers:  c.history.Current(),
		CanUndo: c.history.CanUndo(),
		CanRedo: c.history.CanRedo(),
	}
	if c.drag != nil {
		s.Dragging = c.drag.uid
	}
	return s
}

// AddLayer places assetID at the canvas center and commits the change.
func (c *Controller) AddLayer(assetID string) layer.Layer {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := layer.New(assetID)
	c.splitContinuousLocked()
	c.history.Commit(c.history.Current().With(l))
	return l
}

// RemoveLayer removes uid from the canvas and commits the change.
func (c *Controller) RemoveLayer(uid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.history.Current()
	if cur.Index(uid) < 0 {
		return ErrLayerNotFound
	}
	c.splitContinuousLocked()
	c.history.Commit(cur.Without(uid))
	return nil
}

// PointerDown starts dragging layer uid from screen position p
// (mouse-down or touch-start over the layer).
func (c *Controller) PointerDown(uid string, p Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag != nil {
		return ErrDragActive
	}
	l, ok := c.history.Current().Find(uid)
	if !ok {
		return ErrLayerNotFound
	}
	c.scroll = nil
	c.drag = &drag{
		uid:   uid,
		start: p,
		initX: l.X,
		initY: l.Y,
	}
	return nil
}

// PointerMove moves the dragged layer to follow p. Deltas are converted
// to canvas percentages using bounds. Reports whether the layers changed.
// Moves while idle, on an unmeasured canvas, or for a layer that has
// disappeared are ignored.
func (c *Controller) PointerMove(p Point, bounds Bounds) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.drag
	if d == nil || bounds.empty() {
		return false
	}

	dx := (p.X - d.start.X) / bounds.Width * 100
	dy := (p.Y - d.start.Y) / bounds.Height * 100

	cur := c.history.Current()
	next, ok := cur.MovedTo(d.uid, d.initX+dx, d.initY+dy)
	if !ok {
		return false
	}

	if !d.checkpointDone {
		// The pre-drag entry stays below the cursor as the undo target.
		if !c.history.Commit(next) {
			return false
		}
		d.checkpointDone = true
		// The entry now belongs to the drag; a later wheel tick must not
		// extend its session into it.
		c.scroll = nil
		return true
	}
	c.history.Overwrite(next)
	return true
}

// PointerUp ends the active drag, wherever the pointer is.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag = nil
}

// Dragging returns the uid of the layer being dragged, if any.
func (c *Controller) Dragging() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag == nil {
		return "", false
	}
	return c.drag.uid, true
}

// Wheel scales layer uid by one step: down (deltaY > 0) shrinks, up
// grows. Ticks on the same layer closer together than the session gap
// share one undo step.
func (c *Controller) Wheel(uid string, deltaY float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delta := layer.ScaleStep
	if deltaY > 0 {
		delta = -layer.ScaleStep
	}

	cur := c.history.Current()
	next, ok := cur.ScaledBy(uid, delta)
	if !ok {
		return ErrLayerNotFound
	}

	now := c.now()
	s := c.scroll
	continuing := s != nil && s.uid == uid && now.Sub(s.last) <= c.wheelGap

	if continuing {
		c.history.Overwrite(next)
		s.last = now
		return nil
	}

	// A saturated first tick commits nothing and leaves no session open.
	if c.history.Commit(next) {
		c.scroll = &scrollSession{uid: uid, last: now}
		if c.drag != nil {
			c.drag.checkpointDone = false
		}
	} else {
		c.scroll = nil
	}
	return nil
}

// Undo steps back one entry. An active drag keeps going, but its next
// move starts a new undo step instead of overwriting the rewound entry.
func (c *Controller) Undo() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.splitContinuousLocked()
	c.history.Undo()
	return c.stateLocked()
}

// Redo steps forward one entry, with the same drag handling as Undo.
func (c *Controller) Redo() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.splitContinuousLocked()
	c.history.Redo()
	return c.stateLocked()
}

// CanUndo reports whether an older entry exists.
func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

// CanRedo reports whether a newer entry exists.
func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}

// Reset clears the canvas and its history and ends any drag.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag = nil
	c.scroll = nil
	c.history.Reset(layer.Set{})
}

// splitContinuousLocked makes the next drag frame or wheel tick open a
// new undo step, so it never overwrites an entry it did not create.
func (c *Controller) splitContinuousLocked() {
	if c.drag != nil {
		c.drag.checkpointDone = false
	}
	c.scroll = nil
}
