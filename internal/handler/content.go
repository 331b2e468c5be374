// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/churchcms/internal/form"
	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/resource"
	"github.com/olegiv/churchcms/internal/service"
	"github.com/olegiv/churchcms/internal/store"
)

// Effects are the side effects of a successful admin write. Any of them may
// be nil.
type Effects struct {
	Notifier *service.Notifier
	Activity *service.ActivityService
	Stats    *service.StatsService
}

// ContentHandler serves the admin list and form pages of one content type
// described by a resource.Schema.
type ContentHandler[T any] struct {
	schema   *resource.Schema[T]
	repo     resource.Repository[T]
	renderer *render.Renderer
	effects  Effects
}

// NewContentHandler creates the admin handler for schema.
func NewContentHandler[T any](schema *resource.Schema[T], repo resource.Repository[T], renderer *render.Renderer, effects Effects) *ContentHandler[T] {
	return &ContentHandler[T]{schema: schema, repo: repo, renderer: renderer, effects: effects}
}

// BaseURL is the admin list URL, e.g. /admin/events.
func (h *ContentHandler[T]) BaseURL() string {
	return RouteAdmin + "/" + h.schema.Name
}

// Routes registers the CRUD routes on r, relative to the content base.
func (h *ContentHandler[T]) Routes(r chi.Router) {
	r.Get(RouteRoot, h.List)
	r.Post(RouteRoot, h.Create)
	r.Get(RouteSuffixNew, h.NewForm)
	r.Get(RouteParamID, h.EditForm)
	r.Put(RouteParamID, h.Update)
	r.Post(RouteParamID, h.Update) // HTML forms can't send PUT
	r.Delete(RouteParamID, h.Delete)
	r.Post(RouteParamID+RouteSuffixDelete, h.Delete)
}

// List handles GET /admin/{content}.
func (h *ContentHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	base := h.BaseURL()
	st := listview.FromQuery(r.URL.Query())

	data := render.TemplateData{Title: h.schema.Plural}
	items, err := h.repo.List(r.Context(), h.schema.OrderFor(st))
	if err != nil {
		slog.Error("failed to list "+h.schema.Name, "error", err)
		data.Flash = "Failed to load " + strings.ToLower(h.schema.Plural) + "."
		data.FlashType = render.FlashError
		items = nil
	}
	rows := h.schema.Filter(items, st)

	view := ListView{
		Singular: h.schema.Singular,
		Plural:   h.schema.Plural,
		BaseURL:  base,
		State:    st,
		Columns:  listColumns(h.schema, base, st),
		Rows:     h.schema.Rows(rows),
		Total:    len(items),
		ClearURL: base,
	}
	if h.schema.HasCategory() {
		view.Categories = categoryLinks(h.schema.CategoryOptions, base, st)
	}
	data.Data = view
	renderPage(w, r, h.renderer, http.StatusOK, "admin/list", data)
}

// NewForm handles GET /admin/{content}/new.
func (h *ContentHandler[T]) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, h.schema.NewForm(), 0)
}

// EditForm handles GET /admin/{content}/{id}.
func (h *ContentHandler[T]) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, h.BaseURL(), h.schema.Singular+" not found")
		return
	}
	v, ok := requireEntityWithRedirect(w, r, h.renderer, h.BaseURL(), h.schema.Singular, id, func(id int64) (T, error) {
		return h.repo.Get(r.Context(), id)
	})
	if !ok {
		return
	}
	h.renderForm(w, r, h.schema.EditForm(v), id)
}

// Create handles POST /admin/{content}.
func (h *ContentHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, h.BaseURL()+RouteSuffixNew) {
		return
	}
	c := form.New(h.schema.Fields, form.DraftFromValues(r.PostForm, h.schema.Fields))
	if c.ApplyAction(r.PostForm.Get("_action")) {
		h.renderForm(w, r, c, 0)
		return
	}

	var created T
	err := c.Submit(r.Context(), func(ctx context.Context, d *form.Draft) error {
		var zero T
		v, err := h.repo.Create(ctx, h.schema.Decode(d, zero))
		if err != nil {
			return err
		}
		created = v
		return nil
	})
	if err != nil {
		h.submitFailed(w, r, c, 0, "create", err)
		return
	}

	id := h.schema.ID(created)
	userID, _ := actor(r)
	slog.Info(h.schema.Kind+" created", h.schema.Kind+"_id", id, "created_by", userID)
	h.afterWrite(r, "created", id)
	h.announce(r.Context(), created)

	c.Navigate(h.BaseURL())
	flashSuccess(w, r, h.renderer, c.Location(), h.schema.Singular+" created successfully")
}

// Update handles PUT and POST /admin/{content}/{id}.
func (h *ContentHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, h.BaseURL(), h.schema.Singular+" not found")
		return
	}
	existing, ok := requireEntityWithRedirect(w, r, h.renderer, h.BaseURL(), h.schema.Singular, id, func(id int64) (T, error) {
		return h.repo.Get(r.Context(), id)
	})
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, h.itemURL(id)) {
		return
	}

	c := form.New(h.schema.Fields, form.DraftFromValues(r.PostForm, h.schema.Fields))
	if c.ApplyAction(r.PostForm.Get("_action")) {
		h.renderForm(w, r, c, id)
		return
	}

	err := c.Submit(r.Context(), func(ctx context.Context, d *form.Draft) error {
		return h.repo.Update(ctx, id, h.schema.Decode(d, existing))
	})
	if errors.Is(err, store.ErrNotFound) {
		flashError(w, r, h.renderer, h.BaseURL(), h.schema.Singular+" not found")
		return
	}
	if err != nil {
		h.submitFailed(w, r, c, id, "update", err)
		return
	}

	userID, _ := actor(r)
	slog.Info(h.schema.Kind+" updated", h.schema.Kind+"_id", id, "updated_by", userID)
	h.afterWrite(r, "updated", id)

	c.Navigate(h.BaseURL())
	flashSuccess(w, r, h.renderer, c.Location(), h.schema.Singular+" updated successfully")
}

// Delete handles DELETE /admin/{content}/{id} and its POST fallback.
// Deleting a row that no longer exists succeeds. Script callers asking for
// JSON get {"success": true, "redirect": ...} instead of a 303.
func (h *ContentHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, h.BaseURL(), h.schema.Singular+" not found")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete "+h.schema.Kind, "error", err, "id", id)
		flashError(w, r, h.renderer, h.BaseURL(), "Failed to delete "+strings.ToLower(h.schema.Singular))
		return
	}

	userID, _ := actor(r)
	slog.Info(h.schema.Kind+" deleted", h.schema.Kind+"_id", id, "deleted_by", userID)
	h.afterWrite(r, "deleted", id)
	if wantsJSON(r) {
		h.renderer.SetFlash(r, h.schema.Singular+" deleted successfully", render.FlashSuccess)
		writeJSONSuccess(w, map[string]any{"redirect": h.BaseURL()})
		return
	}
	flashSuccess(w, r, h.renderer, h.BaseURL(), h.schema.Singular+" deleted successfully")
}

func (h *ContentHandler[T]) itemURL(id int64) string {
	return h.BaseURL() + "/" + strconv.FormatInt(id, 10)
}

// submitFailed re-renders the form with the draft intact. Validation errors
// never reached the store; store errors are logged and the controller is
// returned to Editing.
func (h *ContentHandler[T]) submitFailed(w http.ResponseWriter, r *http.Request, c *form.Controller, id int64, action string, err error) {
	if !errors.Is(err, form.ErrValidation) {
		slog.Error("failed to "+action+" "+h.schema.Kind, "error", err, "id", id)
		c.Resume()
		c.SetMessage("Failed to " + action + " " + strings.ToLower(h.schema.Singular) + ". Please try again.")
	}
	h.renderForm(w, r, c, id)
}

func (h *ContentHandler[T]) renderForm(w http.ResponseWriter, r *http.Request, c *form.Controller, id int64) {
	view := FormView{
		Singular:  h.schema.Singular,
		Plural:    h.schema.Plural,
		ListURL:   h.BaseURL(),
		Action:    h.BaseURL(),
		IsNew:     id == 0,
		Fields:    fieldViews(c),
		Message:   c.Message(),
		CanSubmit: c.CanSubmit(),
	}
	title := "New " + h.schema.Singular
	if id != 0 {
		view.Action = h.itemURL(id)
		title = "Edit " + h.schema.Singular
	}

	data := render.TemplateData{Title: title, Data: view}
	if view.Message != "" {
		data.Flash = view.Message
		data.FlashType = render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/form", data)
}

// afterWrite records the change and drops caches that count or show rows.
func (h *ContentHandler[T]) afterWrite(r *http.Request, action string, id int64) {
	ctx := r.Context()
	if h.effects.Activity != nil {
		userID, ip := actor(r)
		h.effects.Activity.LogContent(ctx, action, h.schema.Kind, id, userID, ip)
	}
	if h.effects.Stats != nil {
		h.effects.Stats.Invalidate(ctx)
	}
	if h.schema.Kind == resource.KindNotification && h.effects.Notifier != nil {
		h.effects.Notifier.Invalidate(ctx)
	}
}

// announce publishes the creation of v. It runs after the row is stored and
// its failure never undoes the write.
func (h *ContentHandler[T]) announce(ctx context.Context, v T) {
	if h.schema.Announce == nil || h.effects.Notifier == nil {
		return
	}
	if _, err := h.effects.Notifier.Announce(ctx, h.schema.Announce(v)); err != nil {
		slog.Warn("announcement failed", "kind", h.schema.Kind, "error", err)
	}
}
