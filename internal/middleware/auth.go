// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session resolution,
// role gating, request protection and rate limiting.
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/session"
)

// Redirect targets used by the session guards.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/admin/unauthorized"
)

// LoadSession resolves the current session once per request and stores it in
// the request context. Anonymous requests carry a nil session.
func LoadSession(p *session.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := p.Current(r.Context())
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// RequireSession redirects anonymous visitors to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()) == nil {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets only admins through. Signed-in members are sent to the
// unauthorized page and the refusal is logged as a security event.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		if s == nil {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		if !s.IsAdmin {
			slog.Warn("access denied",
				"category", model.ActivityCategorySecurity,
				"user_id", s.User.ID,
				"role", s.User.Role,
				"method", r.Method,
				"path", r.URL.Path,
				"ip", ClientIP(r),
			)
			http.Redirect(w, r, UnauthorizedPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentSession returns the session LoadSession resolved for r.
func CurrentSession(r *http.Request) *session.Session {
	return session.FromContext(r.Context())
}

// RequestPath returns the request path without the query string.
func RequestPath(r *http.Request) string {
	return r.URL.Path
}

// ClientIP extracts the client address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
