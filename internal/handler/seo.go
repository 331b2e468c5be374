// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/churchcms/internal/resource"
	"github.com/olegiv/churchcms/internal/seo"
	"github.com/olegiv/churchcms/internal/store"
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	repos       Repositories
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is taken from
// each request's host.
func NewSEOHandler(repos Repositories, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{repos: repos, siteURL: siteURL, disallowAll: disallowAll}
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(h.baseURL(r), h.disallowAll)))
}

// Sitemap handles GET /sitemap.xml. A failing table is left out.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b := seo.NewSitemapBuilder(h.baseURL(r))
	b.AddHomepage()
	b.AddSection(RouteSermons, seo.ChangeFreqWeekly)
	b.AddSection(RouteEvents, seo.ChangeFreqDaily)
	b.AddSection(RouteGallery, seo.ChangeFreqWeekly)
	b.AddSection(RouteDepartments, seo.ChangeFreqMonthly)
	b.AddSection(RouteChoirs, seo.ChangeFreqMonthly)

	b.AddEntries(sitemapEntries(ctx, h.repos.Sermons, resource.Sermons(), RouteSermons,
		func(s store.Sermon) (int64, time.Time, bool) { return s.ID, s.UpdatedAt, true }))
	b.AddEntries(sitemapEntries(ctx, h.repos.Events, resource.Events(), RouteEvents,
		func(e store.Event) (int64, time.Time, bool) { return e.ID, e.UpdatedAt, true }))
	b.AddEntries(sitemapEntries(ctx, h.repos.CedGroups, resource.CedGroups(), RouteDepartments,
		func(g store.CedGroup) (int64, time.Time, bool) { return g.ID, g.UpdatedAt, true }))
	b.AddEntries(sitemapEntries(ctx, h.repos.Choirs, resource.Choirs(), RouteChoirs,
		func(c store.Choir) (int64, time.Time, bool) { return c.ID, c.UpdatedAt, c.IsActive }))

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// sitemapEntries lists the public detail pages of one content type. entry
// returns false for rows the public must not see.
func sitemapEntries[T any](ctx context.Context, repo resource.Repository[T], schema *resource.Schema[T], base string, entry func(T) (int64, time.Time, bool)) []seo.Entry {
	items, err := repo.List(ctx, schema.DefaultOrder)
	if err != nil {
		slog.Error("failed to list "+schema.Name+" for sitemap", "error", err)
		return nil
	}
	out := make([]seo.Entry, 0, len(items))
	for _, it := range items {
		id, updated, ok := entry(it)
		if !ok {
			continue
		}
		out = append(out, seo.Entry{Path: base + "/" + strconv.FormatInt(id, 10), UpdatedAt: updated})
	}
	return out
}
