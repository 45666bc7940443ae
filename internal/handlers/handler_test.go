// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Generation calls go to a scripted fake model; manual keys live in an
// in-memory store.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"mockupstudio/internal/ai"
	"mockupstudio/internal/asset"
	"mockupstudio/internal/credentials"
	"mockupstudio/internal/middleware"
	"mockupstudio/internal/session"
	"mockupstudio/internal/studio"
)

// ---------- Helpers ----------

// testClientID is a well-formed client id (64 hex characters).
var testClientID = strings.Repeat("ab", 32)

type fakeModel struct {
	mu        sync.Mutex
	requests  []ai.Request
	responses []ai.Response
}

func (f *fakeModel) GenerateContent(_ context.Context, req ai.Request) ai.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.responses) == 0 {
		return ai.Empty{}
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r
}

func (f *fakeModel) script(responses ...ai.Response) {
	f.mu.Lock()
	f.responses = responses
	f.mu.Unlock()
}

func (f *fakeModel) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type memStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func (m *memStore) Get(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[id], nil
}

func (m *memStore) Set(_ context.Context, id, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[id] = key
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, id)
	return nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	API     *API
	Router  http.Handler
	Model   *fakeModel
	Keys    *memStore
	Studios *studio.Manager
	usedKey string
}

// newTestEnv builds an API whose default key is defaultKey ("" for none).
func newTestEnv(t *testing.T, defaultKey string) *testEnv {
	t.Helper()
	return newTestEnvWith(t, defaultKey, studio.Config{})
}

// newTestEnvWith is newTestEnv with workspace limits from cfg.
func newTestEnvWith(t *testing.T, defaultKey string, cfg studio.Config) *testEnv {
	t.Helper()

	env := &testEnv{
		Model:   &fakeModel{},
		Keys:    &memStore{keys: map[string]string{}},
		Studios: studio.NewManager(cfg, 0),
	}
	t.Cleanup(env.Studios.Stop)

	factory := func(apiKey string) ai.Model {
		env.usedKey = apiKey
		return env.Model
	}
	env.API = NewAPI(env.Studios, credentials.NewResolver(env.Keys, defaultKey), factory)

	r := chi.NewRouter()
	r.Use(middleware.ClientID(session.NewIssuer(false)))
	r.Use(env.API.Workspace)
	r.Get("/api/studio", env.API.Studio)
	r.Delete("/api/studio", env.API.ResetStudio)
	r.Put("/api/studio/product", env.API.SetProduct)
	r.Put("/api/studio/options", env.API.SetOptions)
	r.Put("/api/studio/prompt", env.API.SetPrompt)
	r.Put("/api/studio/model", env.API.SetModel)
	r.Get("/api/assets", env.API.ListAssets)
	r.Post("/api/assets", env.API.UploadAsset)
	r.Post("/api/assets/generate", env.API.GenerateAsset)
	r.Get("/api/assets/{id}/image", env.API.AssetImage)
	r.Delete("/api/assets/{id}", env.API.DeleteAsset)
	r.Get("/api/canvas", env.API.Canvas)
	r.Delete("/api/canvas", env.API.ClearCanvas)
	r.Post("/api/canvas/layers", env.API.AddLayer)
	r.Delete("/api/canvas/layers/{uid}", env.API.RemoveLayer)
	r.Post("/api/canvas/pointer/down", env.API.PointerDown)
	r.Post("/api/canvas/pointer/move", env.API.PointerMove)
	r.Post("/api/canvas/pointer/up", env.API.PointerUp)
	r.Post("/api/canvas/wheel", env.API.Wheel)
	r.Post("/api/canvas/undo", env.API.Undo)
	r.Post("/api/canvas/redo", env.API.Redo)
	r.Post("/api/mockups", env.API.GenerateMockups)
	r.Post("/api/composite/realism", env.API.Realism)
	r.Get("/api/gallery", env.API.Gallery)
	r.Get("/api/gallery/{id}/image", env.API.GalleryImage)
	r.Delete("/api/gallery/{id}", env.API.DeleteMockup)
	r.Get("/api/settings/key", env.API.KeyStatus)
	r.Put("/api/settings/key", env.API.SetKey)
	r.Delete("/api/settings/key", env.API.ClearKey)
	r.Post("/api/settings/test", env.API.TestConnection)
	env.Router = r

	return env
}

// do sends a request as the test client. body is JSON-encoded unless it
// is nil.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req)
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: testClientID})
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// workspace returns the test client's workspace.
func (e *testEnv) workspace(t *testing.T) *studio.Workspace {
	t.Helper()
	ws, err := e.Studios.Get(testClientID)
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	return ws
}

// seed adds a selected product and one logo layer to the test workspace.
func (e *testEnv) seed(t *testing.T) (product, logo *asset.Asset) {
	t.Helper()
	ws := e.workspace(t)
	product, err := ws.Assets.Add(asset.TypeProduct, "shirt", "", pngBytes(t, 4, 4))
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	logo, err = ws.Assets.Add(asset.TypeLogo, "fox", "", pngBytes(t, 2, 2))
	if err != nil {
		t.Fatalf("add logo: %v", err)
	}
	if err := ws.SelectProduct(product.ID); err != nil {
		t.Fatalf("select product: %v", err)
	}
	if _, err := ws.AddLayer(logo.ID); err != nil {
		t.Fatalf("add layer: %v", err)
	}
	return product, logo
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func imageResponse(t *testing.T) ai.Response {
	return ai.Success{Images: []ai.Image{{Data: pngBytes(t, 5, 5), MimeType: "image/png"}}}
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

// expectError asserts the status and the JSON error code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := decode[map[string]string](t, rec)
	if body["error"] != code {
		t.Errorf("error code: got %q, want %q", body["error"], code)
	}
}
