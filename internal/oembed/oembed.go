// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package oembed resolves YouTube video titles for choir video lists.
package oembed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/churchcms/internal/cache"
)

// Defaults for the YouTube oEmbed endpoint.
const (
	DefaultEndpoint = "https://www.youtube.com/oembed"
	RequestTimeout  = 5 * time.Second
	CacheTTL        = 24 * time.Hour
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoID extracts the 11-character id from watch, youtu.be, embed, shorts
// and live URLs. ok is false when url is not a recognisable YouTube link.
func VideoID(raw string) (id string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		id, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	case "youtube.com", "youtube-nocookie.com", "music.youtube.com":
		if u.Path == "/watch" {
			id = u.Query().Get("v")
			break
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
			if rest, found := strings.CutPrefix(u.Path, prefix); found {
				id, _, _ = strings.Cut(rest, "/")
				break
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// EmbedURL returns the privacy-friendly player URL for a video id.
func EmbedURL(id string) string {
	return "https://www.youtube-nocookie.com/embed/" + id
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Video is one entry of a rendered video list.
type Video struct {
	URL      string
	ID       string // empty when URL is not a YouTube link
	Title    string
	EmbedURL string
}

// Valid reports whether the video can be embedded.
func (v Video) Valid() bool { return v.ID != "" }

type response struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// Client looks up titles through oEmbed with a shared cache.
type Client struct {
	endpoint string
	http     *http.Client
	titles   *cache.TypedCache[string]
}

// NewClient returns a client for endpoint (DefaultEndpoint when empty).
func NewClient(endpoint string, c cache.Cache) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: RequestTimeout},
		titles:   cache.NewTypedCache[string](c, "oembed", CacheTTL),
	}
}

// ErrNoTitle is returned when the provider answers without a title.
var ErrNoTitle = errors.New("oembed: empty title")

// Title returns the title of the video with id.
func (c *Client) Title(ctx context.Context, id string) (string, error) {
	return c.titles.GetOrSet(ctx, id, func(ctx context.Context) (string, error) {
		return c.fetch(ctx, id)
	})
}

func (c *Client) fetch(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	q := url.Values{"url": {WatchURL(id)}, "format": {"json"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("oembed request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed: status %d", resp.StatusCode)
	}
	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding oembed response: %w", err)
	}
	if title := strings.TrimSpace(body.Title); title != "" {
		return title, nil
	}
	return "", ErrNoTitle
}

// FallbackTitle is shown when a title cannot be resolved. n is 1-based.
func FallbackTitle(n int) string {
	return "Video " + strconv.Itoa(n)
}

// Resolve builds the video list for urls in order. Blank entries are
// skipped; lookups that fail fall back to FallbackTitle. A nil client
// resolves no titles.
func (c *Client) Resolve(ctx context.Context, urls []string) []Video {
	var out []Video
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		n := len(out) + 1
		v := Video{URL: raw, Title: FallbackTitle(n)}
		if id, ok := VideoID(raw); ok {
			v.ID = id
			v.EmbedURL = EmbedURL(id)
			if c != nil {
				title, err := c.Title(ctx, id)
				if err != nil {
					slog.Warn("video title lookup failed", "video_id", id, "error", err)
				} else {
					v.Title = title
				}
			}
		}
		out = append(out, v)
	}
	return out
}
