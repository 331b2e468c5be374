// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func slowHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	})
}

func TestTimeout_NormalRequest(t *testing.T) {
	h := Timeout(5 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("success"))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "success" {
		t.Errorf("got %d %q", rr.Code, rr.Body.String())
	}
}

func TestTimeout_SlowRequest(t *testing.T) {
	tests := []struct {
		path     string
		wantJSON bool
	}{
		{"/sermons", false},
		{"/api/v1/sermons", true},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		Timeout(30*time.Millisecond)(slowHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", tt.path, rr.Code)
		}
		isJSON := strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json")
		if isJSON != tt.wantJSON {
			t.Errorf("%s: JSON = %v, want %v", tt.path, isJSON, tt.wantJSON)
		}
	}
}

func TestTimeoutWriter_DropsWritesAfterDeadline(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr, timedOut: true}

	if _, err := tw.Write([]byte("late")); err != http.ErrHandlerTimeout {
		t.Errorf("Write error = %v, want ErrHandlerTimeout", err)
	}
	tw.WriteHeader(http.StatusCreated)
	if rr.Body.Len() != 0 || rr.Code != http.StatusOK {
		t.Errorf("late output leaked: %d %q", rr.Code, rr.Body.String())
	}
}

func TestTimeoutWriter_HeaderOnce(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr}
	tw.WriteHeader(http.StatusCreated)
	tw.WriteHeader(http.StatusBadRequest)
	_, _ = tw.Write([]byte("ok"))

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
}
