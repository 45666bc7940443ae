// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// apiKeyPrefix is the Valkey key prefix for manually entered API keys.
	apiKeyPrefix = "apikey:"

	// DefaultAPIKeyTTL matches the lifetime of the client id cookie, after
	// which the stored key can no longer be reached.
	DefaultAPIKeyTTL = 365 * 24 * time.Hour
)

// APIKeyStore keeps one manually entered API key per client in Valkey.
type APIKeyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAPIKeyStore creates a key store backed by the given Valkey client.
func NewAPIKeyStore(client *redis.Client, ttl time.Duration) *APIKeyStore {
	if ttl == 0 {
		ttl = DefaultAPIKeyTTL
	}
	return &APIKeyStore{client: client, ttl: ttl}
}

// APIKeyKey returns the Valkey key holding clientID's API key.
func APIKeyKey(clientID string) string {
	return apiKeyPrefix + clientID
}

// Get returns the stored key for clientID, or "" when none is stored.
func (s *APIKeyStore) Get(ctx context.Context, clientID string) (string, error) {
	val, err := s.client.Get(ctx, APIKeyKey(clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("apikey get: %w", err)
	}
	return val, nil
}

// Set stores key for clientID, refreshing its TTL.
func (s *APIKeyStore) Set(ctx context.Context, clientID, key string) error {
	if err := s.client.Set(ctx, APIKeyKey(clientID), key, s.ttl).Err(); err != nil {
		return fmt.Errorf("apikey set: %w", err)
	}
	slog.Debug("api key stored", "client", shortID(clientID))
	return nil
}

// Delete removes clientID's stored key. Deleting a missing key is not an error.
func (s *APIKeyStore) Delete(ctx context.Context, clientID string) error {
	if err := s.client.Del(ctx, APIKeyKey(clientID)).Err(); err != nil {
		return fmt.Errorf("apikey delete: %w", err)
	}
	slog.Debug("api key deleted", "client", shortID(clientID))
	return nil
}

// shortID trims a client id for logging.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
