// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/auth"
	"github.com/olegiv/churchcms/internal/cache"
	"github.com/olegiv/churchcms/internal/middleware"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/service"
	"github.com/olegiv/churchcms/internal/session"
	"github.com/olegiv/churchcms/internal/storage"
	"github.com/olegiv/churchcms/internal/store"
	"github.com/olegiv/churchcms/internal/testutil"
)

const testNotificationTTL = 7 * 24 * time.Hour

// testEnv is the whole site mounted on an in-memory session store and a
// temporary SQLite database.
type testEnv struct {
	t       *testing.T
	db      *sql.DB
	q       *store.Queries
	repos   Repositories
	effects Effects
	router  http.Handler
	cookies []*http.Cookie

	// as, when set, bypasses the session cookie and acts as this user.
	as *store.User
}

func page(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(`{{define "content"}}` + content + `{{end}}`)}
}

// stubTemplates render just enough of each page for assertions.
func stubTemplates() fstest.MapFS {
	title := page(`<h1>{{.Title}}</h1>`)
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}{{if .Flash}}<p class="flash flash-{{.FlashType}}">{{.Flash}}</p>{{end}}{{block "main" .}}{{template "content" .}}{{end}}{{end}}`)},
		"layouts/admin.html": {Data: []byte(`{{define "main"}}<nav>admin</nav>{{template "content" .}}{{end}}`)},

		"admin/dashboard.html": page(`{{range .Data.Cards}}<div>{{.Label}}={{.Count}}</div>{{end}}{{if .Data.Failed}}<p>failed: {{.Data.Failed}}</p>{{end}}`),
		"admin/list.html":      page(`<h1>{{.Data.Plural}} ({{.Data.Total}})</h1><ol>{{range .Data.Rows}}<li>{{.Label}}</li>{{end}}</ol>`),
		"admin/form.html": page(`<form action="{{.Data.Action}}">{{range .Data.Fields}}` +
			`{{if .Error}}<span class="error" data-field="{{.Name}}">{{.Error}}</span>{{end}}` +
			`<input name="{{.Name}}" value="{{.Value}}">{{end}}</form>`),
		"admin/users.html":    page(`<ul>{{range .Data.Users}}<li>{{.Email}} {{.Role}}</li>{{end}}</ul>`),
		"admin/activity.html": page(`<ul>{{range .Data.Entries}}<li>{{.Level}} {{.Message}}</li>{{end}}</ul>`),

		"public/home.html":         page(`{{range .Data.UpcomingEvents}}<li>{{.Title}}</li>{{end}}{{range .Data.LatestSermons}}<li>{{.Title}}</li>{{end}}`),
		"public/sermons.html":      page(`{{range .Data.Items}}<li>{{.Title}}</li>{{end}}`),
		"public/sermon.html":       page(`<h1>{{.Data.Sermon.Title}}</h1><iframe src="{{.Data.Video.EmbedURL}}"></iframe>`),
		"public/events.html":       page(`{{range .Data.Items}}<li>{{.Title}}</li>{{end}}`),
		"public/event.html":        title,
		"public/gallery.html":      page(`{{range .Data.Items}}<li>{{.Title}}</li>{{end}}`),
		"public/choirs.html":       page(`{{range .Data.Items}}<li>{{.Name}}</li>{{end}}`),
		"public/choir.html":        page(`<h1>{{.Data.Choir.Name}}</h1>{{range .Data.Videos}}<li>{{.Title}}</li>{{end}}`),
		"public/departments.html":  page(`{{range .Data.Items}}<li>{{.Name}}</li>{{end}}`),
		"public/department.html":   title,
		"public/not_found.html":    page(`<h1>not found</h1>`),
		"public/unauthorized.html": page(`<h1>unauthorized</h1>`),

		"auth/login.html":  page(`<form>login</form>`),
		"auth/signup.html": page(`<form>{{range .Data.Fields}}{{if .Error}}<span class="error">{{.Error}}</span>{{end}}<input type="{{.Type}}" name="{{.Name}}" value="{{.Value}}">{{end}}</form>`),

		"fragments/bell.html": {Data: []byte(`{{define "fragment"}}<span class="count">{{.Count}}</span>{{range .Items}}<li>{{.Message}}</li>{{end}}{{end}}`)},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, q := testutil.TestQueries(t)
	sm := session.NewInMemory(true)
	provider := session.NewProvider(sm, q)

	renderer, err := render.New(render.Config{TemplatesFS: stubTemplates(), SessionManager: sm, IsDev: true})
	require.NoError(t, err)

	c := cache.New(cache.Config{})
	t.Cleanup(func() { _ = c.Close() })

	activity := service.NewActivityService(q)
	effects := Effects{
		Notifier: service.NewNotifier(q, c, testNotificationTTL, time.Minute, nil),
		Activity: activity,
		Stats:    service.NewStatsService(q, c, time.Minute),
	}

	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	media := service.NewMediaService(local, 1<<20, 1600)

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	repos := NewRepositories(q)
	site := &Site{
		Public:          NewPublicHandler(renderer, q, repos, nil),
		Auth:            NewAuthHandler(q, renderer, provider, lp, activity).WithStats(effects.Stats),
		Admin:           NewAdminHandler(renderer, effects.Stats),
		Users:           NewUsersHandler(q, renderer, effects),
		Uploads:         NewUploadsHandler(media, activity),
		Bell:            NewBellHandler(renderer, effects.Notifier),
		Activity:        NewActivityHandler(renderer, activity),
		Health:          NewHealthHandler(db, c, local),
		SEO:             NewSEOHandler(repos, "https://church.example", false),
		Content:         NewContentRoutes(repos, renderer, effects, testNotificationTTL),
		LoginProtection: lp,
	}

	e := &testEnv{t: t, db: db, q: q, repos: repos, effects: effects}
	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(e.resolveSession(provider))
	site.Mount(r)
	e.router = r
	return e
}

// resolveSession acts as e.as when set and otherwise resolves the cookie
// session like production does.
func (e *testEnv) resolveSession(p *session.Provider) func(http.Handler) http.Handler {
	load := middleware.LoadSession(p)
	return func(next http.Handler) http.Handler {
		loaded := load(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if e.as == nil {
				loaded.ServeHTTP(w, r)
				return
			}
			s := &session.Session{User: *e.as, IsAdmin: session.IsAdmin(*e.as)}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// createUser inserts a user with password "correct horse battery".
func (e *testEnv) createUser(email, role string) store.User {
	e.t.Helper()
	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(e.t, err)
	now := time.Now().UTC()
	u, err := e.q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         strings.Split(email, "@")[0],
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) actAsAdmin() store.User {
	u := e.createUser("pastor@church.test", model.RoleAdmin)
	e.as = &u
	return u
}

func (e *testEnv) actAsMember() store.User {
	u := e.createUser("member@church.test", model.RoleMember)
	e.as = &u
	return u
}

// do sends a request carrying the cookies of earlier responses. form, when
// not nil, is sent url-encoded.
func (e *testEnv) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return e.send(req)
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		e.cookies = cs
	}
	return w
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code, "body: %s", w.Body.String())
	require.Equal(t, location, w.Header().Get("Location"))
}
