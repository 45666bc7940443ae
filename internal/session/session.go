// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session identifies browser clients. Each client carries a
// random id in an HttpOnly cookie; the id keys its studio workspace and
// its stored API key. There are no accounts.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

const (
	// CookieName is the name of the client id cookie sent to the browser.
	CookieName = "ms_client"

	// DefaultTTL is how long the browser keeps the client id.
	DefaultTTL = 365 * 24 * time.Hour

	// idLength is the byte length of the random client ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Issuer reads and mints client id cookies.
type Issuer struct {
	ttl    time.Duration
	secure bool
}

// NewIssuer creates an issuer. Set secure when served over TLS.
func NewIssuer(secure bool) *Issuer {
	return &Issuer{
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// TTL returns the cookie lifetime.
func (s *Issuer) TTL() time.Duration {
	return s.ttl
}

// Get returns the client id from the request cookie, if it is well formed.
func (s *Issuer) Get(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || !ValidID(cookie.Value) {
		return "", false
	}
	return cookie.Value, true
}

// Ensure returns the request's client id, issuing a new one and setting
// the cookie on w when the request has none.
func (s *Issuer) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := s.Get(r); ok {
		return id, nil
	}

	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session issue: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return id, nil
}

// ValidID reports whether id has the shape of an issued client id.
func ValidID(id string) bool {
	if len(id) != idLength*2 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// generateID creates a cryptographically random client identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
