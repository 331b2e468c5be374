// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/store"
)

func TestHome_UpcomingAndLatest(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	today := time.Now()
	for i, title := range []string{"Past Picnic", "Next Sunday", "Harvest"} {
		day := today.AddDate(0, 0, (i-1)*7).Format("2006-01-02")
		_, err := e.repos.Events.Create(ctx, store.Event{Title: title, EventDate: day, Category: "Fellowship"})
		require.NoError(t, err)
	}
	_, err := e.repos.Sermons.Create(ctx, store.Sermon{Title: "Hope", Pastor: "Rev. Asante", DatePreached: "2025-01-05", Category: "Sunday Service"})
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "Past Picnic")
	assert.Contains(t, body, "Next Sunday")
	assert.Contains(t, body, "Harvest")
	assert.Contains(t, body, "Hope")
}

func TestPublicLists_Filter(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	for _, s := range []store.Sermon{
		{Title: "Walking in Faith", Pastor: "Rev. Mensah", DatePreached: "2025-01-05", Category: "Sunday Service"},
		{Title: "Youth and Purpose", Pastor: "Pastor Owusu", DatePreached: "2025-01-12", Category: "Youth Service"},
	} {
		_, err := e.repos.Sermons.Create(ctx, s)
		require.NoError(t, err)
	}

	w := e.do(http.MethodGet, "/sermons?category=Youth+Service", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Youth and Purpose")
	assert.NotContains(t, w.Body.String(), "Walking in Faith")

	w = e.do(http.MethodGet, "/sermons?q=mensah", nil)
	assert.Contains(t, w.Body.String(), "Walking in Faith")
	assert.NotContains(t, w.Body.String(), "Youth and Purpose")
}

func TestSermonPage_Embed(t *testing.T) {
	e := newTestEnv(t)
	s, err := e.repos.Sermons.Create(context.Background(), store.Sermon{
		Title: "Grace", Pastor: "Rev. Mensah", DatePreached: "2025-01-05", Category: "Sunday Service",
		YoutubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/sermons/"+strconv.FormatInt(s.ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ")
}

func TestChoirs_HideInactiveAndFallbackTitles(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	active, err := e.repos.Choirs.Create(ctx, store.Choir{
		Name: "Voices of Praise", IsActive: true,
		YoutubeVideos: store.StringList{"https://youtu.be/dQw4w9WgXcQ", "not a video"},
	})
	require.NoError(t, err)
	retired, err := e.repos.Choirs.Create(ctx, store.Choir{Name: "Retired Singers", IsActive: false})
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/choirs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Voices of Praise")
	assert.NotContains(t, w.Body.String(), "Retired Singers")

	w = e.do(http.MethodGet, "/choirs/"+strconv.FormatInt(active.ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Video 1")
	assert.Contains(t, body, "Video 2")
	assert.Less(t, strings.Index(body, "Video 1"), strings.Index(body, "Video 2"))

	w = e.do(http.MethodGet, "/choirs/"+strconv.FormatInt(retired.ID, 10), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDepartments(t *testing.T) {
	e := newTestEnv(t)
	g, err := e.repos.CedGroups.Create(context.Background(), store.CedGroup{Name: "Men's Fellowship", MeetingDay: "Saturday"})
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/departments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Men&#39;s Fellowship")

	w = e.do(http.MethodGet, "/departments/"+strconv.FormatInt(g.ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Men&#39;s Fellowship")
}

func TestBell(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.repos.Notifications.Create(ctx, store.Notification{Title: "Service", Message: "Sunday service at 9am", Type: "info", IsActive: true})
	require.NoError(t, err)
	_, err = e.repos.Notifications.Create(ctx, store.Notification{Title: "Off", Message: "Switched off", Type: "info", IsActive: false})
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	body := w.Body.String()
	assert.Contains(t, body, `<span class="count">1</span>`)
	assert.Contains(t, body, "Sunday service at 9am")
	assert.NotContains(t, body, "Switched off")
}
