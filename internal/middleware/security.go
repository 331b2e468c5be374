// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig configures the response security headers.
type SecurityHeadersConfig struct {
	IsDevelopment bool

	// ContentSecurityPolicy is sent verbatim when not empty.
	ContentSecurityPolicy string

	// HSTSMaxAge in seconds. Zero disables HSTS. HSTS is never sent in development.
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool

	FrameOptions      string
	ReferrerPolicy    string
	PermissionsPolicy string

	// ExcludePaths are path prefixes that receive no headers.
	ExcludePaths []string
}

// directive is one CSP or Permissions-Policy entry.
type directive struct {
	name  string
	value string
}

// videoSources are the hosts choir recordings are embedded from.
const videoSources = "https://www.youtube.com https://www.youtube-nocookie.com"

// DefaultSecurityHeadersConfig returns the policy for the public site and
// dashboard: local scripts and styles, remote images (uploaded media and
// video thumbnails) and embedded YouTube players.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	scriptSrc := "'self' 'unsafe-inline'"
	if isDev {
		scriptSrc += " 'unsafe-eval'"
	}
	cfg := SecurityHeadersConfig{
		IsDevelopment: isDev,
		HSTSMaxAge:    31536000,
		FrameOptions:  "SAMEORIGIN",
		ContentSecurityPolicy: joinDirectives([]directive{
			{"default-src", "'self'"},
			{"script-src", scriptSrc},
			{"style-src", "'self' 'unsafe-inline'"},
			{"img-src", "'self' data: blob: https:"},
			{"font-src", "'self' data:"},
			{"connect-src", "'self'"},
			{"frame-src", "'self' " + videoSources},
			{"object-src", "'none'"},
			{"base-uri", "'self'"},
			{"form-action", "'self'"},
		}, "; ", " "),
		ReferrerPolicy: "strict-origin-when-cross-origin",
		PermissionsPolicy: joinDirectives([]directive{
			{"camera", "()"},
			{"geolocation", "()"},
			{"microphone", "()"},
			{"payment", "()"},
			{"usb", "()"},
			{"browsing-topics", "()"},
		}, ", ", "="),
	}
	if !isDev {
		cfg.HSTSIncludeSubDomains = true
	}
	return cfg
}

func joinDirectives(ds []directive, sep, kv string) string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		parts = append(parts, d.name+kv+d.value)
	}
	return strings.Join(parts, sep)
}

// SecurityHeaders adds the configured headers to every response.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	hsts := ""
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}
