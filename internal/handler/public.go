// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/oembed"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/resource"
	"github.com/olegiv/churchcms/internal/store"
)

// HomeStore is the subset of store.Queries the home page needs.
type HomeStore interface {
	ListUpcomingEvents(ctx context.Context, from string, limit int64) ([]store.Event, error)
	ListLatestSermons(ctx context.Context, limit int64) ([]store.Sermon, error)
}

// Repositories groups the content repositories shared by the public site,
// the admin pages and the JSON API.
type Repositories struct {
	Sermons       resource.Repository[store.Sermon]
	Events        resource.Repository[store.Event]
	Gallery       resource.Repository[store.GalleryImage]
	CedGroups     resource.Repository[store.CedGroup]
	Choirs        resource.Repository[store.Choir]
	Notifications resource.Repository[store.Notification]
}

// NewRepositories builds every repository over q.
func NewRepositories(q *store.Queries) Repositories {
	return Repositories{
		Sermons:       resource.NewSermons(q),
		Events:        resource.NewEvents(q),
		Gallery:       resource.NewGallery(q),
		CedGroups:     resource.NewCedGroups(q),
		Choirs:        resource.NewChoirs(q),
		Notifications: resource.NewNotifications(q),
	}
}

// PublicHandler serves the public church site.
type PublicHandler struct {
	renderer *render.Renderer
	home     HomeStore
	repos    Repositories
	videos   *oembed.Client
	now      func() time.Time
}

// NewPublicHandler creates a new PublicHandler. videos may be nil, in which
// case choir videos show their fallback titles.
func NewPublicHandler(renderer *render.Renderer, home HomeStore, repos Repositories, videos *oembed.Client) *PublicHandler {
	return &PublicHandler{renderer: renderer, home: home, repos: repos, videos: videos, now: time.Now}
}

// HomeData holds the data of the home page.
type HomeData struct {
	UpcomingEvents []store.Event
	LatestSermons  []store.Sermon
}

// Home handles GET /. A failing section renders empty.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	var data HomeData
	today := h.now().Format(model.ISODateLayout)

	events, err := h.home.ListUpcomingEvents(r.Context(), today, homeEventLimit)
	if err != nil {
		slog.Error("failed to list upcoming events", "error", err)
	}
	data.UpcomingEvents = events

	sermons, err := h.home.ListLatestSermons(r.Context(), homeSermonLimit)
	if err != nil {
		slog.Error("failed to list latest sermons", "error", err)
	}
	data.LatestSermons = sermons

	renderPage(w, r, h.renderer, http.StatusOK, "public/home", render.TemplateData{Data: data})
}

// PublicList is the data of a public list page.
type PublicList[T any] struct {
	Items      []T
	State      listview.State
	Categories []CategoryLink
	BaseURL    string
	Total      int
	Failed     bool
}

// listPublic loads, filters and renders a public list with the schema's
// default order. keep, when set, drops rows the public must not see.
func listPublic[T any](h *PublicHandler, w http.ResponseWriter, r *http.Request, schema *resource.Schema[T], repo resource.Repository[T], base, page, title string, keep func(T) bool) {
	st := listview.FromQuery(r.URL.Query())
	items, err := repo.List(r.Context(), schema.DefaultOrder)
	data := PublicList[T]{State: st, BaseURL: base}
	if err != nil {
		slog.Error("failed to list "+schema.Name, "error", err)
		data.Failed = true
	}
	if keep != nil {
		visible := items[:0:0]
		for _, it := range items {
			if keep(it) {
				visible = append(visible, it)
			}
		}
		items = visible
	}
	data.Total = len(items)
	data.Items = schema.Filter(items, st)
	if schema.HasCategory() {
		data.Categories = categoryLinks(schema.CategoryOptions, base, st)
	}
	renderPage(w, r, h.renderer, http.StatusOK, page, render.TemplateData{Title: title, Data: data})
}

// showPublic loads one row for a public detail page, rendering the not
// found page when it is missing.
func showPublic[T any](h *PublicHandler, w http.ResponseWriter, r *http.Request, repo resource.Repository[T], kind string) (T, bool) {
	var zero T
	id, ok := parseIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return zero, false
	}
	v, err := repo.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return zero, false
	}
	if err != nil {
		logAndInternalError(w, "failed to get "+kind, "error", err, "id", id)
		return zero, false
	}
	return v, true
}

// Sermons handles GET /sermons.
func (h *PublicHandler) Sermons(w http.ResponseWriter, r *http.Request) {
	listPublic(h, w, r, resource.Sermons(), h.repos.Sermons, RouteSermons, "public/sermons", "Sermons", nil)
}

// SermonData holds the data of a sermon page.
type SermonData struct {
	Sermon store.Sermon
	Video  oembed.Video
}

// Sermon handles GET /sermons/{id}.
func (h *PublicHandler) Sermon(w http.ResponseWriter, r *http.Request) {
	s, ok := showPublic(h, w, r, h.repos.Sermons, resource.KindSermon)
	if !ok {
		return
	}
	data := SermonData{Sermon: s, Video: oembed.Video{URL: s.YoutubeURL, Title: s.Title}}
	if id, ok := oembed.VideoID(s.YoutubeURL); ok {
		data.Video.ID = id
		data.Video.EmbedURL = oembed.EmbedURL(id)
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/sermon", render.TemplateData{Title: s.Title, Data: data})
}

// Events handles GET /events.
func (h *PublicHandler) Events(w http.ResponseWriter, r *http.Request) {
	listPublic(h, w, r, resource.Events(), h.repos.Events, RouteEvents, "public/events", "Events", nil)
}

// Event handles GET /events/{id}.
func (h *PublicHandler) Event(w http.ResponseWriter, r *http.Request) {
	e, ok := showPublic(h, w, r, h.repos.Events, resource.KindEvent)
	if !ok {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/event", render.TemplateData{Title: e.Title, Data: e})
}

// Gallery handles GET /gallery.
func (h *PublicHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	listPublic(h, w, r, resource.Gallery(), h.repos.Gallery, RouteGallery, "public/gallery", "Gallery", nil)
}

// Choirs handles GET /choirs. Inactive choirs are hidden.
func (h *PublicHandler) Choirs(w http.ResponseWriter, r *http.Request) {
	listPublic(h, w, r, resource.Choirs(), h.repos.Choirs, RouteChoirs, "public/choirs", "Choirs",
		func(c store.Choir) bool { return c.IsActive })
}

// ChoirData holds the data of a choir page.
type ChoirData struct {
	Choir  store.Choir
	Videos []oembed.Video
}

// Choir handles GET /choirs/{id}. Video titles come from oEmbed and fall
// back to "Video n".
func (h *PublicHandler) Choir(w http.ResponseWriter, r *http.Request) {
	c, ok := showPublic(h, w, r, h.repos.Choirs, resource.KindChoir)
	if !ok {
		return
	}
	if !c.IsActive {
		h.NotFound(w, r)
		return
	}
	data := ChoirData{Choir: c, Videos: h.videos.Resolve(r.Context(), c.YoutubeVideos)}
	renderPage(w, r, h.renderer, http.StatusOK, "public/choir", render.TemplateData{Title: c.Name, Data: data})
}

// Departments handles GET /departments.
func (h *PublicHandler) Departments(w http.ResponseWriter, r *http.Request) {
	listPublic(h, w, r, resource.CedGroups(), h.repos.CedGroups, RouteDepartments, "public/departments", "Departments", nil)
}

// Department handles GET /departments/{id}.
func (h *PublicHandler) Department(w http.ResponseWriter, r *http.Request) {
	g, ok := showPublic(h, w, r, h.repos.CedGroups, resource.KindCedGroup)
	if !ok {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/department", render.TemplateData{Title: g.Name, Data: g})
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, "public/not_found", render.TemplateData{Title: "Page not found"})
}
