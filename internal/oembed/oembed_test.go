// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package oembed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/cache"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/live/dQw4w9WgXcQ?feature=share", "dQw4w9WgXcQ", true},
		{"  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://vimeo.com/123456789", "", false},
		{"not a url", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		id, ok := VideoID(tt.url)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("VideoID(%q) = %q, %v; want %q, %v", tt.url, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mem.Close() })
	return NewClient(srv.URL, mem)
}

func TestClient_TitleIsCached(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Amazing Grace (Live)","author_name":"Mass Choir"}`))
	})

	for range 2 {
		title, err := c.Title(context.Background(), "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "Amazing Grace (Live)", title)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ResolveFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("url"), "aaaaaaaaaaa") {
			_, _ = w.Write([]byte(`{"title":"How Great Thou Art"}`))
			return
		}
		http.NotFound(w, r)
	})

	videos := c.Resolve(context.Background(), []string{
		"https://youtu.be/aaaaaaaaaaa",
		"",
		"https://youtu.be/bbbbbbbbbbb",
		"https://example.com/not-youtube",
	})
	require.Len(t, videos, 3)

	assert.Equal(t, "How Great Thou Art", videos[0].Title)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/aaaaaaaaaaa", videos[0].EmbedURL)

	assert.Equal(t, "Video 2", videos[1].Title, "failed lookup uses the 1-based position")
	assert.True(t, videos[1].Valid())

	assert.Equal(t, "Video 3", videos[2].Title)
	assert.False(t, videos[2].Valid(), "invalid URLs are kept without an embed")
	assert.Equal(t, "https://example.com/not-youtube", videos[2].URL)
}

func TestClient_EmptyTitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"title":"  "}`))
	})
	_, err := c.Title(context.Background(), "ccccccccccc")
	assert.ErrorIs(t, err, ErrNoTitle)
}
