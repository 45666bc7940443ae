// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"mockupstudio/internal/canvas"
)

func TestCanvas_AddLayer(t *testing.T) {
	env := newTestEnv(t, "")
	_, logo := env.seed(t)

	rec := env.do(t, http.MethodPost, "/api/canvas/layers", map[string]string{"assetId": logo.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	state := decode[canvas.State](t, rec)
	if len(state.Layers) != 2 {
		t.Fatalf("layers: got %d, want 2", len(state.Layers))
	}
	if !state.CanUndo || state.CanRedo {
		t.Errorf("canUndo/canRedo: got %v/%v", state.CanUndo, state.CanRedo)
	}
}

func TestCanvas_AddLayer_Rejections(t *testing.T) {
	env := newTestEnv(t, "")
	product, _ := env.seed(t)

	expectError(t, env.do(t, http.MethodPost, "/api/canvas/layers", map[string]string{"assetId": "missing"}),
		http.StatusNotFound, "not_found")
	expectError(t, env.do(t, http.MethodPost, "/api/canvas/layers", map[string]string{"assetId": product.ID}),
		http.StatusBadRequest, "invalid_request")
}

func TestCanvas_DragIsOneUndoStep(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t)
	uid := env.workspace(t).Canvas.Layers()[0].UID

	rec := env.do(t, http.MethodPost, "/api/canvas/pointer/down", map[string]any{"uid": uid, "x": 100, "y": 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("pointer down: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if got := decode[canvas.State](t, rec); got.Dragging != uid {
		t.Errorf("dragging: got %q, want %q", got.Dragging, uid)
	}

	for _, x := range []float64{110, 120, 130} {
		env.do(t, http.MethodPost, "/api/canvas/pointer/move", map[string]any{"x": x, "y": 100, "width": 200, "height": 200})
	}
	state := decode[canvas.State](t, env.do(t, http.MethodPost, "/api/canvas/pointer/up", nil))
	if state.Dragging != "" {
		t.Error("drag should have ended")
	}
	if got := state.Layers[0].X; got != 65 {
		t.Errorf("x after drag: got %v, want 65", got)
	}

	state = decode[canvas.State](t, env.do(t, http.MethodPost, "/api/canvas/undo", nil))
	if got := state.Layers[0].X; got != 50 {
		t.Errorf("x after one undo: got %v, want the pre-drag 50", got)
	}
	if !state.CanRedo {
		t.Error("redo should be available after undo")
	}

	state = decode[canvas.State](t, env.do(t, http.MethodPost, "/api/canvas/redo", nil))
	if got := state.Layers[0].X; got != 65 {
		t.Errorf("x after redo: got %v, want 65", got)
	}
}

func TestCanvas_SecondPointerDownConflicts(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t)
	uid := env.workspace(t).Canvas.Layers()[0].UID

	env.do(t, http.MethodPost, "/api/canvas/pointer/down", map[string]any{"uid": uid, "x": 0, "y": 0})
	rec := env.do(t, http.MethodPost, "/api/canvas/pointer/down", map[string]any{"uid": uid, "x": 0, "y": 0})
	expectError(t, rec, http.StatusConflict, "drag_active")
}

func TestCanvas_PointerDownUnknownLayer(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, http.MethodPost, "/api/canvas/pointer/down", map[string]any{"uid": "nope", "x": 0, "y": 0})
	expectError(t, rec, http.StatusNotFound, "not_found")
}

func TestCanvas_MoveWithoutDragIsNoop(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t)

	state := decode[canvas.State](t, env.do(t, http.MethodPost, "/api/canvas/pointer/move",
		map[string]any{"x": 10, "y": 10, "width": 100, "height": 100}))
	if state.Layers[0].X != 50 || state.Layers[0].Y != 50 {
		t.Errorf("layer moved without a drag: %+v", state.Layers[0])
	}
}

func TestCanvas_WheelSessionIsOneUndoStep(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t)
	uid := env.workspace(t).Canvas.Layers()[0].UID

	var state canvas.State
	for i := 0; i < 3; i++ {
		state = decode[canvas.State](t, env.do(t, http.MethodPost, "/api/canvas/wheel", map[string]any{"uid": uid, "deltaY": -100}))
	}
	if got := state.Layers[0].Scale; got < 1.29 || got > 1.31 {
		t.Errorf("scale after three ticks: got %v, want 1.3", got)
	}

	state = decode[canvas.State](t, env.do(t, http.MethodPost, "/api/canvas/undo", nil))
	if got := state.Layers[0].Scale; got != 1 {
		t.Errorf("scale after one undo: got %v, want 1", got)
	}

	expectError(t, env.do(t, http.MethodPost, "/api/canvas/wheel", map[string]any{"uid": "nope", "deltaY": 1}),
		http.StatusNotFound, "not_found")
}

func TestCanvas_RemoveLayer(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t)
	uid := env.workspace(t).Canvas.Layers()[0].UID

	state := decode[canvas.State](t, env.do(t, http.MethodDelete, "/api/canvas/layers/"+uid, nil))
	if len(state.Layers) != 0 {
		t.Errorf("layers: got %d, want 0", len(state.Layers))
	}
	expectError(t, env.do(t, http.MethodDelete, "/api/canvas/layers/"+uid, nil), http.StatusNotFound, "not_found")
}

func TestCanvas_Clear(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t)

	state := decode[canvas.State](t, env.do(t, http.MethodDelete, "/api/canvas", nil))
	if len(state.Layers) != 0 || state.CanUndo || state.CanRedo {
		t.Errorf("state: got %+v, want empty with no history", state)
	}
	if env.workspace(t).ProductID() == "" {
		t.Error("clearing the canvas must keep the selected product")
	}
}

func TestCanvas_UndoAtOldestIsNoop(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/canvas/undo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	state := decode[canvas.State](t, rec)
	if len(state.Layers) != 0 || state.CanUndo || state.CanRedo {
		t.Errorf("state: got %+v, want empty with no undo/redo", state)
	}
}
