// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package asset

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is an ordered, concurrency-safe collection of assets.
type Registry struct {
	mu     sync.RWMutex
	assets []*Asset
	limit  int
	now    func() time.Time
}

// NewRegistry creates an empty registry holding at most limit assets
// (0 = unbounded).
func NewRegistry(limit int) *Registry {
	return &Registry{limit: max(limit, 0), now: time.Now}
}

// Add validates data and registers it as a new asset. mimeType is a
// hint; the stored type is what the payload sniffs as. A full registry
// answers ErrLimitReached.
func (r *Registry) Add(t Type, name, mimeType string, data []byte) (*Asset, error) {
	if _, err := ParseType(string(t)); err != nil {
		return nil, err
	}
	if r.Full() {
		return nil, r.limitError()
	}

	mimeType, w, h, err := Inspect(data, mimeType)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = string(t)
	}

	a := &Asset{
		ID:        uuid.NewString(),
		Type:      t,
		Name:      name,
		Data:      append([]byte(nil), data...),
		MimeType:  mimeType,
		Width:     w,
		Height:    h,
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.assets) >= r.limit {
		return nil, r.limitError()
	}
	r.assets = append(r.assets, a)
	return a, nil
}

// Full reports whether the registry is at its limit.
func (r *Registry) Full() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limit > 0 && len(r.assets) >= r.limit
}

func (r *Registry) limitError() error {
	return fmt.Errorf("%w: at most %d assets, delete one first", ErrLimitReached, r.limit)
}

// AddDataURL registers an asset from a base64 data URL.
func (r *Registry) AddDataURL(t Type, name, dataURL string) (*Asset, error) {
	mimeType, data, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return r.Add(t, name, mimeType, data)
}

// Get returns the asset with id.
func (r *Registry) Get(id string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assets {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Remove deletes the asset with id. Layers referencing it are left as is.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.assets {
		if a.ID == id {
			r.assets = append(r.assets[:i:i], r.assets[i+1:]...)
			return true
		}
	}
	return false
}

// List returns assets in registration order. An empty filter returns all.
func (r *Registry) List(filter Type) []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Asset, 0, len(r.assets))
	for _, a := range r.assets {
		if filter == "" || a.Type == filter {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of registered assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assets)
}
