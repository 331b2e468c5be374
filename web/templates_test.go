// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package web_test

import (
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/handler"
	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/oembed"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/resource"
	"github.com/olegiv/churchcms/internal/session"
	"github.com/olegiv/churchcms/internal/store"
	"github.com/olegiv/churchcms/web"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	sub, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	r, err := render.New(render.Config{TemplatesFS: sub, SiteName: "Grace Church"})
	require.NoError(t, err)
	return r
}

func TestTemplates_AllPagesParse(t *testing.T) {
	r := newRenderer(t)
	for _, name := range []string{
		"admin/dashboard", "admin/list", "admin/form", "admin/users", "admin/activity",
		"public/home", "public/sermons", "public/sermon", "public/events", "public/event",
		"public/gallery", "public/choirs", "public/choir", "public/departments", "public/department",
		"public/not_found", "public/unauthorized",
		"auth/login", "auth/signup",
		"fragments/bell",
	} {
		assert.True(t, r.Has(name), name)
	}
}

func TestStaticAssets(t *testing.T) {
	for _, p := range []string{"static/css/app.css", "static/js/app.js"} {
		_, err := fs.Stat(web.Static, p)
		assert.NoError(t, err, p)
	}
}

func render200(t *testing.T, r *render.Renderer, req *http.Request, name string, data render.TemplateData) string {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, req, name, data))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func adminRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s := &session.Session{User: store.User{ID: 1, Name: "Pastor", Email: "pastor@church.test", Role: model.RoleAdmin}, IsAdmin: true}
	return req.WithContext(session.NewContext(req.Context(), s))
}

func TestTemplates_AdminPages(t *testing.T) {
	r := newRenderer(t)

	body := render200(t, r, adminRequest("/admin/events"), "admin/list", render.TemplateData{
		Title: "Events",
		Data: handler.ListView{
			Singular: "Event",
			Plural:   "Events",
			BaseURL:  "/admin/events",
			Columns:  []handler.ColumnView{{Label: "Title", SortURL: "/admin/events?sort=title", Sorted: true, Asc: true}},
			Rows:     []resource.Row{{ID: 7, Label: "Youth Night", Cells: []string{"Youth Night"}}},
			Categories: []handler.CategoryLink{
				{Label: "All", URL: "/admin/events", Active: true},
				{Label: "Youth", URL: "/admin/events?category=Youth"},
			},
			Total: 1,
		},
	})
	assert.Contains(t, body, `href="/admin/events/7"`)
	assert.Contains(t, body, `action="/admin/events/7/delete"`)
	assert.Contains(t, body, `data-delete="/admin/events/7"`)
	assert.Contains(t, body, "Pastor")

	body = render200(t, r, adminRequest("/admin/choirs/new"), "admin/form", render.TemplateData{
		Title: "New Choir",
		Data: handler.FormView{
			Singular: "Choir",
			Plural:   "Choirs",
			ListURL:  "/admin/choirs",
			Action:   "/admin/choirs",
			IsNew:    true,
			Fields: []handler.FieldView{
				{Name: "name", Label: "Name", Type: "text", Required: true, Error: "Name is required"},
				{Name: "description", Label: "Description", Type: "markdown"},
				{Name: "image_url", Label: "Image", Type: "image", Value: "/uploads/choirs/a.jpg"},
				{Name: "is_active", Label: "Active", Type: "checkbox", Checked: true},
				{Name: "youtube_videos", Label: "Videos", Type: "list", Rows: []string{"https://youtu.be/a", ""}},
			},
			CanSubmit: true,
		},
	})
	assert.Contains(t, body, `class="error" data-field="name"`)
	assert.Contains(t, body, `value="remove_row:1"`)
	assert.Contains(t, body, `value="add_row"`)
	assert.Contains(t, body, "checked")

	body = render200(t, r, adminRequest("/admin/users"), "admin/users", render.TemplateData{
		Title: "Members",
		Data: handler.UsersListData{
			Users: []store.User{
				{ID: 1, Name: "Pastor", Email: "pastor@church.test", Role: model.RoleAdmin, CreatedAt: time.Now()},
				{ID: 2, Name: "Ama", Email: "ama@church.test", Role: model.RoleMember, CreatedAt: time.Now(),
					LastSignInAt: sql.NullTime{Time: time.Now(), Valid: true}},
			},
			Roles:     []handler.CategoryLink{{Label: "All", URL: "/admin/users", Active: true}},
			AllRoles:  model.Roles,
			Total:     2,
			CurrentID: 1,
		},
	})
	assert.Contains(t, body, "(you)")
	assert.Contains(t, body, `action="/admin/users/2/role"`)
	assert.NotContains(t, body, `action="/admin/users/1/delete"`)

	body = render200(t, r, adminRequest("/admin/activity"), "admin/activity", render.TemplateData{
		Title: "Activity",
		Data: handler.ActivityListData{
			Entries:    []store.Activity{{Level: model.ActivityLevelWarning, Category: model.ActivityCategoryAuth, Message: "Failed login", CreatedAt: time.Now()}},
			Levels:     model.ActivityLevels,
			Categories: model.ActivityCategories,
			Page:       listview.Page{Number: 1, PerPage: 50, Total: 1, TotalPages: 1},
		},
	})
	assert.Contains(t, body, "Failed login")
}

func TestTemplates_PublicPages(t *testing.T) {
	r := newRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	body := render200(t, r, req, "public/home", render.TemplateData{
		Data: handler.HomeData{
			UpcomingEvents: []store.Event{{ID: 3, Title: "Harvest", EventDate: "2025-03-01", Location: "Main hall"}},
			LatestSermons:  []store.Sermon{{ID: 4, Title: "Hope", Pastor: "Rev. Asante", DatePreached: "2025-01-05", YoutubeURL: "https://youtu.be/dQw4w9WgXcQ"}},
		},
	})
	assert.Contains(t, body, "Harvest")
	assert.Contains(t, body, "Mar")
	assert.Contains(t, body, "i.ytimg.com/vi/dQw4w9WgXcQ")
	assert.Contains(t, body, `href="/login"`)

	body = render200(t, r, req, "public/choir", render.TemplateData{
		Data: handler.ChoirData{
			Choir:  store.Choir{Name: "Voices of Praise", Description: "**Sunday** choir", LeaderName: "Efua", IsActive: true},
			Videos: []oembed.Video{{Title: "Video 1", EmbedURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"}, {Title: "Video 2", URL: "not a video"}},
		},
	})
	assert.Contains(t, body, "<strong>Sunday</strong>")
	assert.Contains(t, body, "Video 2")

	body = render200(t, r, req, "public/department", render.TemplateData{
		Data: store.CedGroup{Name: "Men's Fellowship", Mission: "Serve", GroupSong: "Blessed assurance"},
	})
	assert.Contains(t, body, "Men&#39;s Fellowship")
	assert.Contains(t, body, "Blessed assurance")

	body = render200(t, r, req, "auth/signup", render.TemplateData{
		Data: handler.SignupData{Fields: []handler.FieldView{{Name: "password", Label: "Password", Type: "password"}}, CanSubmit: true},
	})
	assert.Contains(t, body, `type="password"`)
}

func TestTemplates_Bell(t *testing.T) {
	r := newRenderer(t)
	w := httptest.NewRecorder()
	require.NoError(t, r.RenderFragment(w, "fragments/bell", handler.BellData{
		Items: []store.Notification{{Title: "New event", Message: "Youth Night on March 1", Type: "info", CreatedAt: time.Now()}},
		Count: 1,
	}))
	assert.Contains(t, w.Body.String(), `<span class="count">1</span>`)
	assert.Contains(t, w.Body.String(), "Youth Night on March 1")
}

func TestTemplates_NewFormSubmittable(t *testing.T) {
	r := newRenderer(t)
	h := handler.NewContentHandler(resource.Sermons(), nil, r, handler.Effects{})

	w := httptest.NewRecorder()
	h.NewForm(w, adminRequest("/admin/sermons/new"))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `data-gate`)
	assert.Contains(t, body, `<button type="submit" class="is-incomplete">Create</button>`)
	assert.NotContains(t, body, `<button type="submit" disabled`)
	assert.Contains(t, body, ` required>`)
}

func TestStaticAssets_SubmitGate(t *testing.T) {
	js, err := fs.ReadFile(web.Static, "static/js/app.js")
	require.NoError(t, err)
	assert.Contains(t, string(js), "form[data-gate]")
	assert.Contains(t, string(js), "bindSubmitGates();")
}
