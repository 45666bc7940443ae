// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"mockupstudio/internal/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	// ClientIDKey is the context key for the browser client id.
	ClientIDKey contextKey = "client_id"

	// CSRFTokenKey is the context key for the request's CSRF token.
	CSRFTokenKey contextKey = "csrf_token"
)

// ClientID makes sure every request carries a client id cookie, issuing
// one on first contact, and stores the id in the request context.
func ClientID(issuer *session.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := issuer.Ensure(w, r)
			if err != nil {
				slog.Error("client id issue failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal", "Internal Server Error")
				return
			}
			ctx := context.WithValue(r.Context(), ClientIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIDFromCtx returns the client id stored by ClientID, or "".
func ClientIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ClientIDKey).(string)
	return id
}
