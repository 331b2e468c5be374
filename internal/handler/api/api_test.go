// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/handler"
	"github.com/olegiv/churchcms/internal/store"
	"github.com/olegiv/churchcms/internal/testutil"
)

func newTestAPI(t *testing.T) (http.Handler, handler.Repositories) {
	t.Helper()
	_, q := testutil.TestQueries(t)
	repos := handler.NewRepositories(q)
	r := chi.NewRouter()
	Mount(r, Endpoints(repos))
	return r, repos
}

func getJSON(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

type eventList struct {
	Data []store.Event `json:"data"`
	Meta Meta          `json:"meta"`
}

func TestStatus(t *testing.T) {
	h, _ := newTestAPI(t)
	var resp struct {
		Data StatusResponse `json:"data"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1", &resp))
	assert.Equal(t, "ok", resp.Data.Status)
}

func TestCollection_ListFilters(t *testing.T) {
	h, repos := newTestAPI(t)
	ctx := context.Background()
	for _, e := range []store.Event{
		{Title: "Youth Night", EventDate: "2025-03-01", Category: "Youth"},
		{Title: "Prayer Breakfast", EventDate: "2025-02-01", Category: "Prayer"},
		{Title: "Youth Camp", EventDate: "2025-06-10", Category: "Youth"},
	} {
		_, err := repos.Events.Create(ctx, e)
		require.NoError(t, err)
	}

	var all eventList
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1/events", &all))
	assert.Len(t, all.Data, 3)
	assert.EqualValues(t, 3, all.Meta.Total)

	var youth eventList
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1/events?category=Youth", &youth))
	assert.Len(t, youth.Data, 2)

	var search eventList
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1/events?q=camp", &search))
	require.Len(t, search.Data, 1)
	assert.Equal(t, "Youth Camp", search.Data[0].Title)

	var paged eventList
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1/events?per_page=2&page=2", &paged))
	assert.Len(t, paged.Data, 1)
	assert.Equal(t, 2, paged.Meta.Pages)
}

func TestCollection_Get(t *testing.T) {
	h, repos := newTestAPI(t)
	s, err := repos.Sermons.Create(context.Background(), store.Sermon{
		Title: "Grace", Pastor: "Rev. Mensah", DatePreached: "2025-01-05", Category: "Sunday Service",
	})
	require.NoError(t, err)

	var resp struct {
		Data store.Sermon `json:"data"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1/sermons/"+strconv.FormatInt(s.ID, 10), &resp))
	assert.Equal(t, "Grace", resp.Data.Title)
}

func TestCollection_NotFound(t *testing.T) {
	h, _ := newTestAPI(t)

	tests := []string{
		"/api/v1/sermons/999",
		"/api/v1/sermons/abc",
		"/api/v1/nothing",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			var resp middlewareError
			assert.Equal(t, http.StatusNotFound, getJSON(t, h, path, &resp))
			assert.Equal(t, "not_found", resp.Error.Code)
		})
	}
}

func TestCollection_HidesInactive(t *testing.T) {
	h, repos := newTestAPI(t)
	ctx := context.Background()

	inactive, err := repos.Choirs.Create(ctx, store.Choir{Name: "Old Choir", IsActive: false})
	require.NoError(t, err)
	_, err = repos.Choirs.Create(ctx, store.Choir{Name: "Youth Choir", IsActive: true})
	require.NoError(t, err)
	_, err = repos.Notifications.Create(ctx, store.Notification{
		Title: "Expired", Message: "gone", Type: "info", IsActive: true,
		ExpiresAt: sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true},
	})
	require.NoError(t, err)
	_, err = repos.Notifications.Create(ctx, store.Notification{Title: "Live", Message: "here", Type: "info", IsActive: true})
	require.NoError(t, err)

	var choirs struct {
		Data []store.Choir `json:"data"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1/choirs", &choirs))
	require.Len(t, choirs.Data, 1)
	assert.Equal(t, "Youth Choir", choirs.Data[0].Name)
	assert.Equal(t, http.StatusNotFound, getJSON(t, h, "/api/v1/choirs/"+strconv.FormatInt(inactive.ID, 10), nil))

	var notes struct {
		Data []store.Notification `json:"data"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, h, "/api/v1/notifications", &notes))
	require.Len(t, notes.Data, 1)
	assert.Equal(t, "Live", notes.Data[0].Title)
}

type middlewareError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
