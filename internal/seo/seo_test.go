// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapBuilder(t *testing.T) {
	b := NewSitemapBuilder("https://church.example/")
	b.AddHomepage()
	b.AddSection("/events", ChangeFreqDaily)
	b.AddEntries([]Entry{
		{Path: "/events/3", UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{Path: "/sermons/9"},
	})
	assert.Equal(t, 4, b.Len())

	out, err := b.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), xml.Header))

	var sm Sitemap
	require.NoError(t, xml.Unmarshal(out, &sm))
	assert.Equal(t, XMLNamespace, sm.XMLNS)
	require.Len(t, sm.URLs, 4)
	assert.Equal(t, "https://church.example/", sm.URLs[0].Loc)
	assert.Equal(t, "https://church.example/events", sm.URLs[1].Loc)
	assert.Equal(t, "2025-03-01T10:00:00Z", sm.URLs[2].LastMod)
	assert.Empty(t, sm.URLs[3].LastMod)
}

func TestRobots(t *testing.T) {
	got := Robots("https://church.example/", false)
	assert.Contains(t, got, "Disallow: /admin\n")
	assert.Contains(t, got, "Disallow: /signup\n")
	assert.Contains(t, got, "Allow: /\n")
	assert.Contains(t, got, "Sitemap: https://church.example/sitemap.xml\n")

	assert.Equal(t, "User-agent: *\nDisallow: /\n", Robots("https://church.example", true))
	assert.NotContains(t, Robots("", false), "Sitemap:")
}
