// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/store"
)

func TestRobots(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/robots.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "Disallow: /admin")
	assert.Contains(t, w.Body.String(), "Sitemap: https://church.example/sitemap.xml")
}

func TestSitemap(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	ev, err := e.repos.Events.Create(ctx, store.Event{Title: "Harvest", EventDate: "2025-10-05", Category: "Fellowship"})
	require.NoError(t, err)
	active, err := e.repos.Choirs.Create(ctx, store.Choir{Name: "Voices of Praise", IsActive: true})
	require.NoError(t, err)
	retired, err := e.repos.Choirs.Create(ctx, store.Choir{Name: "Retired Singers"})
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	body := w.Body.String()
	assert.Contains(t, body, "<loc>https://church.example/</loc>")
	assert.Contains(t, body, "<loc>https://church.example/events</loc>")
	assert.Contains(t, body, "<loc>https://church.example/events/"+strconv.FormatInt(ev.ID, 10)+"</loc>")
	assert.Contains(t, body, "<loc>https://church.example/choirs/"+strconv.FormatInt(active.ID, 10)+"</loc>")
	assert.NotContains(t, body, "<loc>https://church.example/choirs/"+strconv.FormatInt(retired.ID, 10)+"</loc>")
}
