// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package credentials decides which API key a client's generation calls
// use. A key the client entered manually wins over the server default.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MinKeyLength is the shortest manual key accepted, after trimming.
const MinKeyLength = 10

var (
	ErrMissingKey  = errors.New("credentials: no API key configured")
	ErrKeyTooShort = errors.New("credentials: API key is too short")
)

// Source says where a resolved key came from.
type Source string

const (
	SourceNone        Source = ""
	SourceManual      Source = "manual"
	SourceEnvironment Source = "environment"
)

// Store persists manual keys per client. *cache.APIKeyStore satisfies it.
// Get returns "" with a nil error when no key is stored.
type Store interface {
	Get(ctx context.Context, clientID string) (string, error)
	Set(ctx context.Context, clientID, key string) error
	Delete(ctx context.Context, clientID string) error
}

// Status describes a client's key without revealing it.
type Status struct {
	HasKey bool   `json:"hasKey"`
	Source Source `json:"source"`
}

// Resolver applies key precedence for clients.
type Resolver struct {
	store    Store
	fallback string
}

// NewResolver creates a resolver. fallback is the ambient default key and
// may be empty.
func NewResolver(store Store, fallback string) *Resolver {
	return &Resolver{store: store, fallback: strings.TrimSpace(fallback)}
}

// Resolve returns the key clientID's calls should use. ErrMissingKey means
// neither a manual key nor a default is available.
func (r *Resolver) Resolve(ctx context.Context, clientID string) (string, Source, error) {
	if clientID != "" {
		key, err := r.store.Get(ctx, clientID)
		if err != nil {
			return "", SourceNone, fmt.Errorf("credentials resolve: %w", err)
		}
		if key != "" {
			return key, SourceManual, nil
		}
	}
	if r.fallback != "" {
		return r.fallback, SourceEnvironment, nil
	}
	return "", SourceNone, ErrMissingKey
}

// Status reports whether clientID has a usable key and where it comes from.
func (r *Resolver) Status(ctx context.Context, clientID string) (Status, error) {
	_, src, err := r.Resolve(ctx, clientID)
	if errors.Is(err, ErrMissingKey) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{HasKey: true, Source: src}, nil
}

// SetManual validates and stores a manually entered key for clientID.
func (r *Resolver) SetManual(ctx context.Context, clientID, key string) error {
	key, err := ValidateKey(key)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, clientID, key)
}

// ClearManual removes clientID's manual key, falling back to the default.
func (r *Resolver) ClearManual(ctx context.Context, clientID string) error {
	return r.store.Delete(ctx, clientID)
}

// ValidateKey trims key and checks its length.
func ValidateKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if len(key) < MinKeyLength {
		return "", fmt.Errorf("%w: need at least %d characters", ErrKeyTooShort, MinKeyLength)
	}
	return key, nil
}
