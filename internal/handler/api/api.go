// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the read-only JSON API over the church content.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/churchcms/internal/handler"
	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/middleware"
	"github.com/olegiv/churchcms/internal/resource"
	"github.com/olegiv/churchcms/internal/store"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusNotFound, "not_found", message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", message)
}

// Endpoint is a mountable collection.
type Endpoint interface {
	Path() string
	Routes(r chi.Router)
}

// Collection exposes one content type as GET /{name} and GET /{name}/{id}.
type Collection[T any] struct {
	schema *resource.Schema[T]
	repo   resource.Repository[T]
	// visible hides rows the public must not see; nil shows all.
	visible func(T, time.Time) bool
	now     func() time.Time
}

// NewCollection creates a collection. visible may be nil.
func NewCollection[T any](schema *resource.Schema[T], repo resource.Repository[T], visible func(T, time.Time) bool) *Collection[T] {
	return &Collection[T]{schema: schema, repo: repo, visible: visible, now: time.Now}
}

// Path is the collection's URL segment.
func (c *Collection[T]) Path() string { return "/" + c.schema.Name }

// Routes registers the collection routes on r.
func (c *Collection[T]) Routes(r chi.Router) {
	r.Get("/", c.List)
	r.Get("/{id}", c.Get)
}

// List handles GET /api/v1/{name}?q=&category=&sort=&dir=&page=&per_page=.
func (c *Collection[T]) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := listview.FromQuery(q)

	items, err := c.repo.List(r.Context(), c.schema.OrderFor(st))
	if err != nil {
		slog.Error("api: failed to list "+c.schema.Name, "error", err)
		WriteInternalError(w, "Failed to list "+c.schema.Name)
		return
	}
	items = c.schema.Filter(c.filterVisible(items), st)

	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, maxPerPage)
	page := listview.NewPage(q, perPage, int64(len(items)))

	start := min(int(page.Offset()), len(items))
	end := min(start+perPage, len(items))

	WriteSuccess(w, items[start:end], &Meta{
		Total:   page.Total,
		Page:    page.Number,
		PerPage: page.PerPage,
		Pages:   page.TotalPages,
	})
}

// Get handles GET /api/v1/{name}/{id}.
func (c *Collection[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		WriteNotFound(w, c.schema.Singular+" not found")
		return
	}
	v, err := c.repo.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		WriteNotFound(w, c.schema.Singular+" not found")
		return
	}
	if err != nil {
		slog.Error("api: failed to get "+c.schema.Kind, "error", err, "id", id)
		WriteInternalError(w, "Failed to get "+c.schema.Kind)
		return
	}
	if c.visible != nil && !c.visible(v, c.now()) {
		WriteNotFound(w, c.schema.Singular+" not found")
		return
	}
	WriteSuccess(w, v, nil)
}

func (c *Collection[T]) filterVisible(items []T) []T {
	if c.visible == nil {
		return items
	}
	now := c.now()
	out := items[:0:0]
	for _, it := range items {
		if c.visible(it, now) {
			out = append(out, it)
		}
	}
	return out
}

// Endpoints builds every collection of the API.
func Endpoints(repos handler.Repositories) []Endpoint {
	return []Endpoint{
		NewCollection(resource.Sermons(), repos.Sermons, nil),
		NewCollection(resource.Events(), repos.Events, nil),
		NewCollection(resource.Gallery(), repos.Gallery, nil),
		NewCollection(resource.CedGroups(), repos.CedGroups, nil),
		NewCollection(resource.Choirs(), repos.Choirs, func(c store.Choir, _ time.Time) bool {
			return c.IsActive
		}),
		NewCollection(resource.Notifications(0), repos.Notifications, notificationVisible),
	}
}

func notificationVisible(n store.Notification, now time.Time) bool {
	return n.IsActive && (!n.ExpiresAt.Valid || n.ExpiresAt.Time.After(now))
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Mount registers the API routes on r, wrapped by mws (CORS, rate limit).
func Mount(r chi.Router, endpoints []Endpoint, mws ...func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		for _, mw := range mws {
			if mw != nil {
				r.Use(mw)
			}
		}
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1"}, nil)
		})
		for _, e := range endpoints {
			r.Route(e.Path(), e.Routes)
		}
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			WriteNotFound(w, "Resource not found")
		})
	})
}
