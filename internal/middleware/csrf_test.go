// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(testAuthKey, true, "0.0.0.0:9000")
	if len(dev.TrustedOrigins) != 3 {
		t.Fatalf("dev TrustedOrigins = %v", dev.TrustedOrigins)
	}
	for _, origin := range dev.TrustedOrigins {
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin %q should be host:port, not a URL", origin)
		}
	}

	if again := DefaultCSRFConfig(testAuthKey, true, "localhost:8080"); len(again.TrustedOrigins) != 2 {
		t.Errorf("duplicate origin added: %v", again.TrustedOrigins)
	}

	prod := DefaultCSRFConfig(testAuthKey, false, "0.0.0.0:9000")
	if len(prod.TrustedOrigins) != 0 {
		t.Errorf("production should trust no extra origins, got %v", prod.TrustedOrigins)
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCSRF_CrossSitePostRejected(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testAuthKey, false, ""))(okHandler())

	tests := []struct {
		name   string
		method string
		site   string
		want   int
	}{
		{"same-origin post", http.MethodPost, "same-origin", http.StatusOK},
		{"cross-site get", http.MethodGet, "cross-site", http.StatusOK},
		{"cross-site post", http.MethodPost, "cross-site", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://church.example/admin/sermons/new", nil)
			req.Header.Set("Sec-Fetch-Site", tt.site)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCSRF_CustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, "")
	called := false
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})
	h := CSRF(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "http://church.example/login", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if !called || w.Code != http.StatusTeapot {
		t.Errorf("custom handler called=%v status=%d", called, w.Code)
	}
}

func TestSkipCSRF(t *testing.T) {
	h := SkipCSRF("/health")(CSRF(DefaultCSRFConfig(testAuthKey, false, ""))(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "http://church.example/health", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("skipped path status = %d, want 200", w.Code)
	}
}
