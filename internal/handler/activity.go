// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/service"
	"github.com/olegiv/churchcms/internal/store"
)

// ActivityHandler serves the admin activity log.
type ActivityHandler struct {
	renderer *render.Renderer
	activity *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(renderer *render.Renderer, activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{renderer: renderer, activity: activity}
}

// ActivityListData holds the data of the activity log page.
type ActivityListData struct {
	Entries    []store.Activity
	Filter     store.ActivityFilter
	Levels     []string
	Categories []string
	Page       listview.Page
	PrevURL    string
	NextURL    string
}

// List handles GET /admin/activity?level=&category=&page=.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ActivityFilter{Level: q.Get("level"), Category: q.Get("category")}
	if !slices.Contains(model.ActivityLevels, f.Level) {
		f.Level = ""
	}
	if !slices.Contains(model.ActivityCategories, f.Category) {
		f.Category = ""
	}

	data := render.TemplateData{Title: "Activity"}

	// Count first so the requested page can be clamped.
	first, err := h.activity.List(r.Context(), f, activityPerPage, 0)
	if err != nil {
		slog.Error("failed to list activity", "error", err)
		data.Flash = "Failed to load activity."
		data.FlashType = render.FlashError
	}
	page := listview.NewPage(q, activityPerPage, first.Total)
	entries := first.Entries
	if err == nil && page.Number > 1 {
		next, err := h.activity.List(r.Context(), f, activityPerPage, int(page.Offset()))
		if err != nil {
			slog.Error("failed to list activity", "error", err)
		}
		entries = next.Entries
	}

	view := ActivityListData{
		Entries:    entries,
		Filter:     f,
		Levels:     model.ActivityLevels,
		Categories: model.ActivityCategories,
		Page:       page,
	}
	if page.HasPrev() {
		view.PrevURL = activityURL(f, page.Number-1)
	}
	if page.HasNext() {
		view.NextURL = activityURL(f, page.Number+1)
	}
	data.Data = view
	renderPage(w, r, h.renderer, http.StatusOK, "admin/activity", data)
}

func activityURL(f store.ActivityFilter, page int) string {
	v := url.Values{}
	if f.Level != "" {
		v.Set("level", f.Level)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if page > 1 {
		v.Set(listview.ParamPage, strconv.Itoa(page))
	}
	if enc := v.Encode(); enc != "" {
		return RouteAdmin + RouteActivity + "?" + enc
	}
	return RouteAdmin + RouteActivity
}
